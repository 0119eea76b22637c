package router

type intentKind int

const (
	intentFullMatch intentKind = iota
	intentNestedPrefix
	intentNotFound
)

// pathIntent is a resolved path navigation waiting to be committed.
type pathIntent struct {
	path        string
	route       Route
	kind        intentKind
	tail        string
	replace     bool
	clearExtras bool
}

// resolvePathIntent tries a full match, then a prefix match against routes
// with a mounted child router, then the not-found route.
func (r *Router) resolvePathIntent(input string, replace, clearExtras bool) (*pathIntent, bool) {
	u := ParseURL(input)
	query := u.QueryMap()
	path := NormalizePath(u.Path)

	intent := &pathIntent{path: path, replace: replace, clearExtras: clearExtras}

	if route, ok := r.registry.resolveNormalized(path); ok {
		route.Query = query
		route.Hash = u.Hash
		intent.route = route
		intent.kind = intentFullMatch
		return intent, true
	}

	if r.cfg.Capabilities.Nested {
		route, tail, ok := r.registry.matchPrefixWhere(path, func(id RouteID) bool {
			_, mounted := r.children[id]
			return mounted
		})
		if ok {
			route.Query = query
			route.Hash = u.Hash
			intent.route = route
			intent.kind = intentNestedPrefix
			intent.tail = tail
			return intent, true
		}
	}

	nf := r.cfg.NotFoundRoute
	if nf != "" && r.registry.HasRoute(nf) {
		if cur, ok := r.history.Current(); ok && !replace && cur.ID == nf {
			return nil, false
		}
		route, _ := r.registry.Route(nf)
		route.Query = query
		route.Hash = u.Hash
		intent.route = route
		intent.kind = intentNotFound
		r.logger.Debug("path not resolved, using not-found route", "path", path, "route_id", string(nf))
		return intent, true
	}

	r.logger.Debug("no route found for path", "path", path)
	return nil, false
}

func (r *Router) applyPathIntent(intent *pathIntent) {
	if intent.clearExtras {
		r.urlPathOverride = ""
	}
	if intent.kind == intentNotFound {
		r.urlPathOverride = intent.path
	}

	if intent.replace {
		r.history.Replace(intent.route)
	} else {
		r.history.Push(intent.route)
	}
}

// delegateIntent hands the unmatched tail of a committed path to the child
// router mounted under the new route.
func (r *Router) delegateIntent(intent *pathIntent) {
	switch intent.kind {
	case intentNestedPrefix:
		r.delegateTail(intent.route.ID, intent.tail)
	case intentFullMatch:
		if _, mounted := r.children[intent.route.ID]; !mounted || intent.route.Pattern == nil {
			return
		}
		if _, tail, ok := intent.route.Pattern.MatchPrefix(intent.path); ok {
			r.delegateTail(intent.route.ID, tail)
		}
	}
}

func (r *Router) delegateTail(parent RouteID, tail string) bool {
	if !r.cfg.Capabilities.Nested {
		return false
	}
	if tail == "" {
		return true
	}
	child, ok := r.children[parent]
	if !ok {
		return false
	}
	res := child.Dispatch(GoToPath(tail))
	if res.Blocked() {
		r.logger.Debug("nested navigation did not commit",
			"parent", string(parent), "tail", tail, "reason", res.Reason.String())
	}
	return res.Changed || res.Pending
}

// Mount attaches child as the router for everything below parent's pattern.
func (r *Router) Mount(parent RouteID, child *Router) error {
	if !r.cfg.Capabilities.Nested {
		return newCapabilityError("nested")
	}
	if !r.registry.HasRoute(parent) {
		return newRouteNotRegisteredError(parent)
	}
	r.children[parent] = child
	return nil
}

// Unmount detaches the child router under parent.
func (r *Router) Unmount(parent RouteID) bool {
	if _, ok := r.children[parent]; !ok {
		return false
	}
	delete(r.children, parent)
	return true
}

// Child returns the router mounted under parent.
func (r *Router) Child(parent RouteID) (*Router, bool) {
	child, ok := r.children[parent]
	return child, ok
}

// NavigateNested walks the mounted routers along path and navigates the last
// one to id. An empty path navigates this router.
func (r *Router) NavigateNested(path []RouteID, id RouteID) DispatchResult {
	if !r.cfg.Capabilities.Nested {
		return DispatchResult{Command: GoToRoute(id), From: r.currentPtr(), Reason: BlockCapabilityDisabled}
	}
	if len(path) == 0 {
		return r.Dispatch(GoToRoute(id))
	}
	child, ok := r.children[path[0]]
	if !ok {
		return DispatchResult{Command: GoToRoute(id), From: r.currentPtr(), Reason: BlockRouteMissing}
	}
	return child.NavigateNested(path[1:], id)
}
