package router

import (
	"strings"
)

// SegmentKind identifies how a single pattern segment matches a path segment.
type SegmentKind int

const (
	SegmentStatic SegmentKind = iota
	SegmentDynamic
	SegmentWildcardSingle
	SegmentWildcardMulti
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentStatic:
		return "static"
	case SegmentDynamic:
		return "dynamic"
	case SegmentWildcardSingle:
		return "wildcard"
	case SegmentWildcardMulti:
		return "wildcard_multi"
	default:
		return "unknown"
	}
}

// Segment priority weights, lower total wins.
const (
	staticWeight         = 1
	dynamicWeight        = 100
	wildcardSingleWeight = 10_000
	wildcardMultiWeight  = 100_000
)

// RouteSegment is one parsed piece of a route pattern. Value holds the literal
// text for static segments and the parameter name for dynamic ones.
type RouteSegment struct {
	Kind  SegmentKind
	Value string
}

func (s RouteSegment) weight() int {
	switch s.Kind {
	case SegmentStatic:
		return staticWeight
	case SegmentDynamic:
		return dynamicWeight
	case SegmentWildcardSingle:
		return wildcardSingleWeight
	default:
		return wildcardMultiWeight
	}
}

func (s RouteSegment) String() string {
	switch s.Kind {
	case SegmentDynamic:
		return ":" + s.Value
	case SegmentWildcardSingle:
		return "*"
	case SegmentWildcardMulti:
		return "**"
	default:
		return s.Value
	}
}

// RoutePattern is an immutable parsed pattern. Patterns are shared by pointer
// between the registry and every route resolved from them.
type RoutePattern struct {
	raw      string
	segments []RouteSegment
	priority int
	wildcard bool
}

// ParsePattern parses pattern text such as "/user/:id/*" into a RoutePattern.
func ParsePattern(text string) (*RoutePattern, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, newEmptyPatternError(text)
	}

	parts := splitPathSegments(trimmed)
	p := &RoutePattern{segments: make([]RouteSegment, 0, len(parts))}

	for i, part := range parts {
		var seg RouteSegment
		switch {
		case part == "**":
			if i != len(parts)-1 {
				return nil, newWildcardNotLastError(text, i)
			}
			seg = RouteSegment{Kind: SegmentWildcardMulti}
		case part == "*":
			seg = RouteSegment{Kind: SegmentWildcardSingle}
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, newEmptyParamError(text, i)
			}
			seg = RouteSegment{Kind: SegmentDynamic, Value: name}
		default:
			seg = RouteSegment{Kind: SegmentStatic, Value: part}
		}

		if seg.Kind == SegmentWildcardSingle || seg.Kind == SegmentWildcardMulti {
			p.wildcard = true
		}
		p.priority += seg.weight()
		p.segments = append(p.segments, seg)
	}

	p.raw = joinSegments(p.segments)
	return p, nil
}

// MustParsePattern is like ParsePattern but panics on error.
func MustParsePattern(text string) *RoutePattern {
	p, err := ParsePattern(text)
	if err != nil {
		panic(err)
	}
	return p
}

func joinSegments(segments []RouteSegment) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(seg.String())
	}
	return b.String()
}

// String returns the normalized pattern text.
func (p *RoutePattern) String() string {
	if p == nil {
		return ""
	}
	return p.raw
}

// Segments returns a copy of the parsed segments.
func (p *RoutePattern) Segments() []RouteSegment {
	out := make([]RouteSegment, len(p.segments))
	copy(out, p.segments)
	return out
}

// Priority is the sum of the segment weights. Lower values are more specific.
func (p *RoutePattern) Priority() int {
	return p.priority
}

// HasWildcard reports whether the pattern contains a * or ** segment.
func (p *RoutePattern) HasWildcard() bool {
	return p.wildcard
}

// IsStatic reports whether every segment is a literal.
func (p *RoutePattern) IsStatic() bool {
	for _, seg := range p.segments {
		if seg.Kind != SegmentStatic {
			return false
		}
	}
	return true
}

func (p *RoutePattern) firstSegment() (RouteSegment, bool) {
	if len(p.segments) == 0 {
		return RouteSegment{}, false
	}
	return p.segments[0], true
}

// Match tests the whole path against the pattern and returns the captured
// dynamic parameters.
func (p *RoutePattern) Match(path string) (RouteParams, bool) {
	return p.matchParts(splitPathSegments(path))
}

func (p *RoutePattern) matchParts(parts []string) (RouteParams, bool) {
	var params RouteParams
	pi := 0

	for _, seg := range p.segments {
		switch seg.Kind {
		case SegmentWildcardMulti:
			return params, true
		case SegmentWildcardSingle:
			if pi >= len(parts) {
				return RouteParams{}, false
			}
		case SegmentDynamic:
			if pi >= len(parts) {
				return RouteParams{}, false
			}
			params.Set(seg.Value, parts[pi])
		default:
			if pi >= len(parts) || parts[pi] != seg.Value {
				return RouteParams{}, false
			}
		}
		pi++
	}

	if pi != len(parts) {
		return RouteParams{}, false
	}
	return params, true
}

// MatchPrefix matches the leading segments of path and returns the remaining
// tail for delegation to a nested router. A trailing wildcard hands its
// consumed segments to the tail. The tail is "" or starts with "/".
func (p *RoutePattern) MatchPrefix(path string) (RouteParams, string, bool) {
	parts := splitPathSegments(path)
	var params RouteParams
	pi := 0

	for i, seg := range p.segments {
		last := i == len(p.segments)-1
		switch seg.Kind {
		case SegmentWildcardMulti:
			return params, joinTail(parts[pi:]), true
		case SegmentWildcardSingle:
			if pi >= len(parts) {
				return RouteParams{}, "", false
			}
			if last {
				return params, joinTail(parts[pi:]), true
			}
		case SegmentDynamic:
			if pi >= len(parts) {
				return RouteParams{}, "", false
			}
			params.Set(seg.Value, parts[pi])
		default:
			if pi >= len(parts) || parts[pi] != seg.Value {
				return RouteParams{}, "", false
			}
		}
		pi++
	}

	return params, joinTail(parts[pi:]), true
}

func joinTail(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return "/" + strings.Join(parts, "/")
}

// FormatPath renders a concrete path for params. It fails when the pattern has
// wildcards or a dynamic segment has no value.
func (p *RoutePattern) FormatPath(params RouteParams) (string, bool) {
	if p.wildcard {
		return "", false
	}
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.Kind == SegmentDynamic {
			v, ok := params.Get(seg.Value)
			if !ok {
				return "", false
			}
			b.WriteString(v)
			continue
		}
		b.WriteString(seg.Value)
	}
	if b.Len() == 0 {
		return "/", true
	}
	return b.String(), true
}

// FormatBasePath renders the path up to the first wildcard or missing param.
func (p *RoutePattern) FormatBasePath(params RouteParams) string {
	var b strings.Builder
loop:
	for _, seg := range p.segments {
		switch seg.Kind {
		case SegmentStatic:
			b.WriteByte('/')
			b.WriteString(seg.Value)
		case SegmentDynamic:
			v, ok := params.Get(seg.Value)
			if !ok {
				break loop
			}
			b.WriteByte('/')
			b.WriteString(v)
		default:
			break loop
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
