package router

import (
	"strings"
)

// PathParam returns a dynamic segment (e.g., ":id").
func PathParam(name string) string {
	return ":" + name
}

// Wildcard matches exactly one segment.
const Wildcard = "*"

// CatchAll matches any remaining segments and must end a pattern.
const CatchAll = "**"

// JoinPattern builds pattern text from segments, dropping empty ones.
//
// Example:
//
//	router.JoinPattern("users", router.PathParam("id"), router.CatchAll) // "/users/:id/**"
func JoinPattern(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.Trim(seg, "/")
		if seg != "" {
			parts = append(parts, seg)
		}
	}
	return "/" + strings.Join(parts, "/")
}

// FormatRoute renders the path for id with params through the registry.
func (r *RouteRegistry) FormatRoute(id RouteID, params RouteParams) (string, bool) {
	p, ok := r.Pattern(id)
	if !ok {
		return "", false
	}
	return p.FormatPath(params)
}
