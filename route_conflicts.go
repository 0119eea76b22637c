package router

import (
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

type routeConflict struct {
	existing        RouteID
	existingPattern *RoutePattern
	reason          string
	index           int
	existingSegment string
	newSegment      string
}

func splitPathSegments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// detectPatternConflict reports when both patterns share a priority and at
// least one path would match both, which leaves the winner to registration
// order.
func detectPatternConflict(existing, candidate *RoutePattern) *routeConflict {
	if existing == nil || candidate == nil {
		return nil
	}
	if existing.Priority() != candidate.Priority() {
		return nil
	}

	idx, ok := patternsOverlap(existing.segments, candidate.segments)
	if !ok {
		return nil
	}

	conflict := &routeConflict{
		existingPattern: existing,
		reason:          "ambiguous overlap with equal priority",
		index:           idx,
	}
	if sameShape(existing.segments, candidate.segments) {
		conflict.reason = "duplicate pattern"
		conflict.index = -1
		return conflict
	}
	if idx >= 0 && idx < len(existing.segments) {
		conflict.existingSegment = existing.segments[idx].String()
	}
	if idx >= 0 && idx < len(candidate.segments) {
		conflict.newSegment = candidate.segments[idx].String()
	}
	return conflict
}

// patternsOverlap returns whether some path satisfies both segment lists and
// the first index where the two differ in kind.
func patternsOverlap(left, right []RouteSegment) (int, bool) {
	firstDiff := -1
	n := len(left)
	if len(right) < n {
		n = len(right)
	}

	for i := 0; i < n; i++ {
		l, r := left[i], right[i]
		if firstDiff < 0 && (l.Kind != r.Kind || l.Value != r.Value) {
			firstDiff = i
		}
		if l.Kind == SegmentWildcardMulti || r.Kind == SegmentWildcardMulti {
			return firstDiff, true
		}
		if l.Kind == SegmentStatic && r.Kind == SegmentStatic && l.Value != r.Value {
			return -1, false
		}
	}

	if len(left) == len(right) {
		return firstDiff, true
	}

	longer := left
	if len(right) > len(left) {
		longer = right
	}
	if len(longer) == n+1 && longer[n].Kind == SegmentWildcardMulti {
		if firstDiff < 0 {
			firstDiff = n
		}
		return firstDiff, true
	}
	return -1, false
}

// sameShape ignores parameter names.
func sameShape(left, right []RouteSegment) bool {
	if len(left) != len(right) {
		return false
	}
	for i := range left {
		if left[i].Kind != right[i].Kind {
			return false
		}
		if left[i].Kind == SegmentStatic && left[i].Value != right[i].Value {
			return false
		}
	}
	return true
}

func newRouteConflictError(id RouteID, pattern *RoutePattern, conflict *routeConflict, mode ConflictMode) error {
	message := fmt.Sprintf("route conflict: %s %s conflicts with %s %s",
		id, pattern, conflict.existing, conflict.existingPattern)
	if conflict.reason != "" {
		message = fmt.Sprintf("%s (%s)", message, conflict.reason)
	}

	metadata := map[string]any{
		"route_id":          string(id),
		"pattern":           pattern.String(),
		"existing_route_id": string(conflict.existing),
		"existing_pattern":  conflict.existingPattern.String(),
		"priority":          pattern.Priority(),
		"mode":              mode.String(),
		"reason":            conflict.reason,
	}

	if conflict.index >= 0 {
		metadata["segment_index"] = conflict.index
		metadata["segment"] = conflict.newSegment
		metadata["existing_segment"] = conflict.existingSegment
	}

	return goerrors.New(message, goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(TextCodeRouteConflict).
		WithMetadata(metadata)
}
