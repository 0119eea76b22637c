package router

import (
	"fmt"
	"io"
	"text/tabwriter"
)

type registryEntry struct {
	id       RouteID
	pattern  *RoutePattern
	priority int
}

// RouteInfo describes a registered route.
type RouteInfo struct {
	ID       RouteID
	Pattern  *RoutePattern
	Priority int
}

// RegistryOption configures a RouteRegistry.
type RegistryOption func(*RouteRegistry)

// WithConflictMode sets how overlapping patterns are handled.
func WithConflictMode(mode ConflictMode) RegistryOption {
	return func(r *RouteRegistry) {
		r.mode = mode.normalize()
	}
}

// RouteRegistry maps route ids to patterns and resolves paths to routes.
// Lookups go through indices rebuilt after every registration: exact static
// paths, patterns bucketed by a static first segment, then patterns led by a
// dynamic segment, then patterns led by a wildcard.
type RouteRegistry struct {
	byID      map[RouteID]registryEntry
	byPattern []registryEntry
	order     []RouteID

	exactStatic      map[string]RouteID
	byFirstSegment   map[string][]int
	fallbackDynamic  []int
	fallbackWildcard []int

	mode ConflictMode
}

func NewRouteRegistry(opts ...RegistryOption) *RouteRegistry {
	r := &RouteRegistry{
		byID:           make(map[RouteID]registryEntry),
		exactStatic:    make(map[string]RouteID),
		byFirstSegment: make(map[string][]int),
		mode:           ConflictModePriority,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterID registers a route reachable only by id.
func (r *RouteRegistry) RegisterID(id RouteID) {
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.removePatternEntry(id)
	r.byID[id] = registryEntry{id: id}
	r.rebuildIndices()
}

// RegisterPattern parses text and binds it to id. Registering an id again
// replaces its previous pattern.
func (r *RouteRegistry) RegisterPattern(text string, id RouteID) error {
	pattern, err := ParsePattern(text)
	if err != nil {
		return err
	}

	if r.mode == ConflictModeStrict {
		for _, existing := range r.byPattern {
			if existing.id == id {
				continue
			}
			if conflict := detectPatternConflict(existing.pattern, pattern); conflict != nil {
				conflict.existing = existing.id
				return newRouteConflictError(id, pattern, conflict, r.mode)
			}
		}
	}

	entry := registryEntry{id: id, pattern: pattern, priority: pattern.Priority()}
	if _, ok := r.byID[id]; !ok {
		r.order = append(r.order, id)
	}
	r.removePatternEntry(id)
	r.byID[id] = entry

	r.byPattern = append(r.byPattern, entry)
	sortEntriesByPriority(r.byPattern)

	r.rebuildIndices()
	return nil
}

// MustRegisterPattern panics when the pattern cannot be registered.
func (r *RouteRegistry) MustRegisterPattern(text string, id RouteID) {
	if err := r.RegisterPattern(text, id); err != nil {
		panic(err)
	}
}

// Unregister removes id. It reports whether the id was present.
func (r *RouteRegistry) Unregister(id RouteID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	r.removePatternEntry(id)
	for i, o := range r.order {
		if o == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.rebuildIndices()
	return true
}

func (r *RouteRegistry) removePatternEntry(id RouteID) {
	for i, e := range r.byPattern {
		if e.id == id {
			r.byPattern = append(r.byPattern[:i], r.byPattern[i+1:]...)
			return
		}
	}
}

func (r *RouteRegistry) rebuildIndices() {
	r.exactStatic = make(map[string]RouteID, len(r.byPattern))
	r.byFirstSegment = make(map[string][]int)
	r.fallbackDynamic = r.fallbackDynamic[:0]
	r.fallbackWildcard = r.fallbackWildcard[:0]

	for idx, entry := range r.byPattern {
		p := entry.pattern

		if p.IsStatic() {
			// first registration wins for duplicate static paths
			if _, exists := r.exactStatic[p.String()]; !exists {
				r.exactStatic[p.String()] = entry.id
			}
		}

		first, ok := p.firstSegment()
		switch {
		case ok && first.Kind == SegmentStatic:
			r.byFirstSegment[first.Value] = append(r.byFirstSegment[first.Value], idx)
		case p.HasWildcard():
			r.fallbackWildcard = append(r.fallbackWildcard, idx)
		default:
			r.fallbackDynamic = append(r.fallbackDynamic, idx)
		}
	}
}

// ResolvePath normalizes path and returns the first matching route. Query
// and hash in the input are ignored; use ResolveURL to keep them.
func (r *RouteRegistry) ResolvePath(path string) (Route, bool) {
	return r.resolveNormalized(NormalizePath(path))
}

// ResolveURL resolves the path part of input and attaches its query and hash.
func (r *RouteRegistry) ResolveURL(input string) (Route, bool) {
	u := ParseURL(input)
	route, ok := r.ResolvePath(u.Path)
	if !ok {
		return Route{}, false
	}
	route.Query = u.QueryMap()
	route.Hash = u.Hash
	return route, true
}

func (r *RouteRegistry) resolveNormalized(path string) (Route, bool) {
	if id, ok := r.exactStatic[path]; ok {
		return Route{ID: id, Pattern: r.byID[id].pattern}, true
	}

	parts := splitPathSegments(path)
	first := ""
	if len(parts) > 0 {
		first = parts[0]
	}

	if route, ok := r.matchCandidates(r.byFirstSegment[first], parts); ok {
		return route, true
	}
	if route, ok := r.matchCandidates(r.fallbackDynamic, parts); ok {
		return route, true
	}
	return r.matchCandidates(r.fallbackWildcard, parts)
}

func (r *RouteRegistry) matchCandidates(indices []int, parts []string) (Route, bool) {
	for _, idx := range indices {
		entry := r.byPattern[idx]
		if params, ok := entry.pattern.matchParts(parts); ok {
			return Route{ID: entry.id, Params: params, Pattern: entry.pattern}, true
		}
	}
	return Route{}, false
}

// MatchPrefix returns the most specific pattern that matches the start of
// path, along with the unmatched tail.
func (r *RouteRegistry) MatchPrefix(path string) (Route, string, bool) {
	return r.matchPrefixWhere(path, nil)
}

// matchPrefixWhere is MatchPrefix restricted to ids accepted by keep.
func (r *RouteRegistry) matchPrefixWhere(path string, keep func(RouteID) bool) (Route, string, bool) {
	normalized := NormalizePath(path)
	for _, entry := range r.byPattern {
		if keep != nil && !keep(entry.id) {
			continue
		}
		if params, tail, ok := entry.pattern.MatchPrefix(normalized); ok {
			return Route{ID: entry.id, Params: params, Pattern: entry.pattern}, tail, true
		}
	}
	return Route{}, "", false
}

func (r *RouteRegistry) HasRoute(id RouteID) bool {
	_, ok := r.byID[id]
	return ok
}

// Pattern returns the pattern bound to id, if any.
func (r *RouteRegistry) Pattern(id RouteID) (*RoutePattern, bool) {
	entry, ok := r.byID[id]
	if !ok || entry.pattern == nil {
		return nil, false
	}
	return entry.pattern, true
}

// Route builds a bare route for id with its pattern attached.
func (r *RouteRegistry) Route(id RouteID) (Route, bool) {
	entry, ok := r.byID[id]
	if !ok {
		return Route{}, false
	}
	return Route{ID: id, Pattern: entry.pattern}, true
}

func (r *RouteRegistry) Len() int {
	return len(r.byID)
}

// Routes lists patterned routes by priority, followed by id-only routes in
// registration order.
func (r *RouteRegistry) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.byID))
	for _, e := range r.byPattern {
		out = append(out, RouteInfo{ID: e.id, Pattern: e.pattern, Priority: e.priority})
	}
	for _, id := range r.order {
		if e := r.byID[id]; e.pattern == nil {
			out = append(out, RouteInfo{ID: id})
		}
	}
	return out
}

// PrintRoutes writes a table of registered routes.
func (r *RouteRegistry) PrintRoutes(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tpattern\tpriority")
	fmt.Fprintln(tw, "--\t-------\t--------")
	for _, info := range r.Routes() {
		pattern := "-"
		if info.Pattern != nil {
			pattern = info.Pattern.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", info.ID, pattern, info.Priority)
	}
	tw.Flush()
}
