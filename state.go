package router

// RouteState is the persisted form of a Route. Patterns are re-attached from
// the registry on restore.
type RouteState struct {
	ID     RouteID           `json:"id" yaml:"id" toml:"id"`
	Params map[string]string `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Query  map[string]string `json:"query,omitempty" yaml:"query,omitempty" toml:"query,omitempty"`
	Hash   string            `json:"hash,omitempty" yaml:"hash,omitempty" toml:"hash,omitempty"`
}

// State is a snapshot of router history.
type State struct {
	Stack           []RouteState `json:"stack" yaml:"stack" toml:"stack"`
	CurrentIndex    int          `json:"current_index" yaml:"current_index" toml:"current_index"`
	URLPathOverride string       `json:"url_path_override,omitempty" yaml:"url_path_override,omitempty" toml:"url_path_override,omitempty"`
}

// NewRouteState captures a route for persistence.
func NewRouteState(r Route) RouteState {
	rs := RouteState{ID: r.ID, Hash: r.Hash}
	if !r.Params.IsEmpty() {
		rs.Params = r.Params.Map()
	}
	if len(r.Query) > 0 {
		rs.Query = r.Query.Clone()
	}
	return rs
}

// Route rebuilds the route without a pattern.
func (rs RouteState) Route() Route {
	route := Route{ID: rs.ID, Hash: rs.Hash, Params: NewRouteParams(rs.Params)}
	if len(rs.Query) > 0 {
		route.Query = Query(rs.Query).Clone()
	}
	return route
}

// State snapshots history. It fails when persistence is disabled.
func (r *Router) State() (State, error) {
	if !r.cfg.Capabilities.Persistence {
		return State{}, newCapabilityError("persistence")
	}
	stack, current := r.history.Parts()
	st := State{
		Stack:           make([]RouteState, 0, len(stack)),
		CurrentIndex:    current,
		URLPathOverride: r.urlPathOverride,
	}
	for _, route := range stack {
		st.Stack = append(st.Stack, NewRouteState(route))
	}
	return st, nil
}

// Restore replaces history with st. Routes that are no longer registered are
// dropped and the current index moves to the nearest kept entry at or before
// it. Guards are not consulted and a pending navigation is dropped.
func (r *Router) Restore(st State) DispatchResult {
	from := r.currentPtr()
	res := DispatchResult{Command: Command{Kind: NavReset}, From: from}

	if !r.cfg.Capabilities.Persistence {
		res.Reason = BlockCapabilityDisabled
		return res
	}

	filtered := make([]Route, 0, len(st.Stack))
	current := 0
	for idx, rs := range st.Stack {
		if !r.registry.HasRoute(rs.ID) {
			continue
		}
		if idx <= st.CurrentIndex {
			current = len(filtered)
		}
		filtered = append(filtered, r.withPattern(rs.Route()))
	}
	if len(filtered) == 0 {
		res.Reason = BlockRouteMissing
		return res
	}

	r.dropPending("restored")
	r.urlPathOverride = st.URLPathOverride
	r.history = HistoryFromParts(filtered, current)

	to, _ := r.history.Current()
	res.Changed = true
	res.To = &to
	res.Action = ActionReset
	r.emitChange("", ActionReset, from, to)
	return res
}
