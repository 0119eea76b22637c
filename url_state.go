package router

// CurrentPath formats the active route as a path, including the path of a
// mounted child router. While the not-found route is shown the unresolved
// path is reported instead.
func (r *Router) CurrentPath() string {
	cur, ok := r.history.Current()
	if !ok {
		return "/"
	}
	return r.pathFor(cur)
}

// CurrentURL is CurrentPath plus the active route's query and hash.
func (r *Router) CurrentURL() string {
	cur, ok := r.history.Current()
	if !ok {
		return "/"
	}
	return r.pathFor(cur) + BuildQueryString(cur.Query) + cur.Hash
}

// URLPathOverride returns the unresolved path kept for the not-found route.
func (r *Router) URLPathOverride() string {
	return r.urlPathOverride
}

func (r *Router) pathFor(route Route) string {
	if r.cfg.NotFoundRoute != "" && route.ID == r.cfg.NotFoundRoute && r.urlPathOverride != "" {
		return NormalizePath(r.urlPathOverride)
	}

	base := "/" + string(route.ID)
	if p, ok := r.withPattern(route).Path(); ok {
		base = p
	}

	child, ok := r.children[route.ID]
	if !ok {
		return base
	}
	return joinPaths(base, child.CurrentPath())
}
