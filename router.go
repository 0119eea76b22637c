package router

import (
	"time"

	"github.com/google/uuid"
)

// Observer is notified around every dispatched navigation. A pending
// navigation finishes when it settles through Poll.
type Observer interface {
	NavigationStarted(navigationID string, cmd Command)
	NavigationFinished(result DispatchResult, elapsed time.Duration)
}

// Router ties the registry, history and guard pipeline together. It is not
// safe for concurrent use; asynchronous guard decisions reach it through
// Deferred values and Poll.
type Router struct {
	cfg      Config
	logger   Logger
	registry *RouteRegistry
	history  *NavigationHistory
	pipeline *GuardPipeline
	children map[RouteID]*Router

	urlPathOverride string

	listeners []func(RouteChange)
	observers []Observer
}

func New(opts ...Option) (*Router, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return newRouter(cfg), nil
}

// NewWithConfig builds a router from cfg, filling unset fields with defaults.
func NewWithConfig(cfg Config) (*Router, error) {
	cfg, err := normalizeConfig(cfg)
	if err != nil {
		return nil, err
	}
	return newRouter(cfg), nil
}

// MustNew is like New but panics on error.
func MustNew(opts ...Option) *Router {
	r, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func newRouter(cfg Config) *Router {
	pipeline := newGuardPipeline(cfg.Logger)
	pipeline.maxRedirects = cfg.MaxRedirects
	return &Router{
		cfg:       cfg,
		logger:    cfg.Logger,
		registry:  NewRouteRegistry(WithConflictMode(cfg.ConflictMode)),
		history:   NewEmptyHistory(),
		pipeline:  pipeline,
		children:  make(map[RouteID]*Router),
		observers: append([]Observer(nil), cfg.Observers...),
	}
}

func (r *Router) Config() Config {
	return r.cfg
}

func (r *Router) Capabilities() Capabilities {
	return r.cfg.Capabilities
}

// Registry exposes the route registry for lookups.
func (r *Router) Registry() *RouteRegistry {
	return r.registry
}

// Register binds id to pattern. An empty pattern registers an id-only route.
func (r *Router) Register(id RouteID, pattern string) error {
	if pattern == "" {
		r.registry.RegisterID(id)
		return nil
	}
	return r.registry.RegisterPattern(pattern, id)
}

func (r *Router) MustRegister(id RouteID, pattern string) *Router {
	if err := r.Register(id, pattern); err != nil {
		panic(err)
	}
	return r
}

func (r *Router) HasRoute(id RouteID) bool {
	return r.registry.HasRoute(id)
}

// ResolvePath resolves a path or URL without navigating.
func (r *Router) ResolvePath(path string) (Route, bool) {
	return r.registry.ResolveURL(path)
}

func (r *Router) AddGuard(g Guard) error {
	if !r.cfg.Capabilities.GuardsSync {
		return newCapabilityError("guards_sync")
	}
	r.pipeline.addGuard(syncGuardEntry(g))
	return nil
}

func (r *Router) AddAsyncGuard(g AsyncGuard) error {
	if !r.cfg.Capabilities.GuardsAsync {
		return newCapabilityError("guards_async")
	}
	r.pipeline.addGuard(asyncGuardEntry(g))
	return nil
}

func (r *Router) AddBeforeLeave(h BeforeLeaveHook) error {
	if !r.cfg.Capabilities.GuardsSync {
		return newCapabilityError("guards_sync")
	}
	r.pipeline.addLeave(syncLeaveEntry(h))
	return nil
}

func (r *Router) AddAsyncBeforeLeave(h AsyncBeforeLeaveHook) error {
	if !r.cfg.Capabilities.GuardsAsync {
		return newCapabilityError("guards_async")
	}
	r.pipeline.addLeave(asyncLeaveEntry(h))
	return nil
}

// ClearGuards removes every guard and hook and drops a pending navigation.
func (r *Router) ClearGuards() {
	r.pipeline.Clear()
}

// OnRouteChange registers a listener called after every committed change.
func (r *Router) OnRouteChange(fn func(RouteChange)) {
	r.listeners = append(r.listeners, fn)
}

func (r *Router) AddObserver(o Observer) {
	r.observers = append(r.observers, o)
}

// Current returns the active route.
func (r *Router) Current() (Route, bool) {
	return r.history.Current()
}

func (r *Router) currentPtr() *Route {
	cur, ok := r.history.Current()
	if !ok {
		return nil
	}
	return &cur
}

// Stack returns a copy of the history stack and the current index.
func (r *Router) Stack() ([]Route, int) {
	return r.history.Parts()
}

func (r *Router) Depth() int {
	return r.history.Depth()
}

func (r *Router) CanGoBack() bool {
	return r.history.CanGoBack()
}

func (r *Router) CanGoForward() bool {
	return r.history.CanGoForward()
}

// HasPending reports whether a navigation waits on an async decision.
func (r *Router) HasPending() bool {
	return r.pipeline.HasPending()
}

// Start shows the default route when history is empty. Guards do not run.
func (r *Router) Start() DispatchResult {
	if cur, ok := r.history.Current(); ok {
		return DispatchResult{Command: Reset(cur), From: &cur, To: &cur}
	}
	return r.DispatchUnguarded(Reset(NewRoute(r.cfg.DefaultRoute)))
}

// Dispatch runs cmd through the guard pipeline and commits it when allowed.
func (r *Router) Dispatch(cmd Command) DispatchResult {
	id := uuid.NewString()
	started := time.Now()
	r.notifyStarted(id, cmd)

	var res DispatchResult
	if r.pipeline.HasPending() {
		res = DispatchResult{ID: id, Command: cmd, From: r.currentPtr(), Reason: BlockInProgress}
		r.logger.Debug("navigation rejected while another is pending",
			"navigation_id", id, "command", cmd.String())
	} else {
		res = r.pipeline.run(r, cmd, id, 0, false, started)
	}

	if !res.Pending {
		r.notifyFinished(res, time.Since(started))
	}
	return res
}

// DispatchUnguarded commits cmd without consulting hooks or guards. A
// pending navigation was resolved against the old history, so it is dropped
// before cmd commits.
func (r *Router) DispatchUnguarded(cmd Command) DispatchResult {
	id := uuid.NewString()
	started := time.Now()
	r.notifyStarted(id, cmd)

	plan, ok := r.resolve(cmd, id)
	var res DispatchResult
	if ok {
		r.dropPending("superseded")
		res = r.commit(plan)
	} else {
		res = blockedResult(plan, inferBlockReason(cmd))
	}

	r.notifyFinished(res, time.Since(started))
	return res
}

// Poll advances a pending navigation. It returns true once the navigation
// committed, was blocked or was dropped because its decision was abandoned.
func (r *Router) Poll() (DispatchResult, bool) {
	res, pn, progressed := r.pipeline.poll(r)
	if !progressed {
		return DispatchResult{}, false
	}
	if res.Pending {
		return res, false
	}
	r.notifyFinished(res, time.Since(pn.started))
	return res, true
}

// CancelPending drops the pending navigation, if any. A decision that has
// already arrived but was not polled yet is discarded too.
func (r *Router) CancelPending() bool {
	return r.dropPending("cancelled")
}

// dropPending discards the pending navigation and reports it to observers
// as dropped.
func (r *Router) dropPending(cause string) bool {
	res, pn := r.pipeline.drop(cause)
	if pn == nil {
		return false
	}
	r.notifyFinished(res, time.Since(pn.started))
	return true
}

// Convenience wrappers around Dispatch.

func (r *Router) Navigate(id RouteID) DispatchResult {
	return r.Dispatch(GoToRoute(id))
}

func (r *Router) NavigateToPath(path string) DispatchResult {
	return r.Dispatch(GoToPath(path))
}

func (r *Router) Replace(id RouteID) DispatchResult {
	return r.Dispatch(ReplaceRoute(id))
}

func (r *Router) ReplacePath(path string) DispatchResult {
	return r.Dispatch(ReplacePath(path, true))
}

func (r *Router) Back() DispatchResult {
	return r.Dispatch(Back())
}

func (r *Router) Forward() DispatchResult {
	return r.Dispatch(Forward())
}

func (r *Router) notifyStarted(id string, cmd Command) {
	for _, o := range r.observers {
		o.NavigationStarted(id, cmd)
	}
}

func (r *Router) notifyFinished(res DispatchResult, elapsed time.Duration) {
	for _, o := range r.observers {
		o.NavigationFinished(res, elapsed)
	}
}

func (r *Router) emitChange(navigationID string, action ActionKind, from *Route, to Route) {
	change := RouteChange{NavigationID: navigationID, Action: action, From: from, To: to}
	for _, fn := range r.listeners {
		fn(change)
	}
}

// withPattern attaches the registered pattern when route has none.
func (r *Router) withPattern(route Route) Route {
	if route.Pattern == nil {
		if p, ok := r.registry.Pattern(route.ID); ok {
			route.Pattern = p
		}
	}
	return route
}

// resolve previews cmd. The returned plan always carries the command, the
// navigation id and the current route so blocked results can report them.
func (r *Router) resolve(cmd Command, navigationID string) (navPlan, bool) {
	plan := navPlan{
		cmd: cmd,
		ctx: NavContext{
			NavigationID: navigationID,
			Kind:         cmd.Kind,
			From:         r.currentPtr(),
		},
	}

	var (
		to Route
		ok bool
	)

	switch cmd.Kind {
	case NavNavigate, NavReplace, NavPush:
		to, ok = r.registry.Route(cmd.RouteID)
	case NavNavigateByPath, NavReplaceByPath:
		intent, found := r.resolvePathIntent(cmd.Path, cmd.Kind == NavReplaceByPath, cmd.ClearExtras)
		if found {
			plan.intent = intent
			plan.ctx.ToPath = intent.path
			to, ok = intent.route, true
		}
	case NavBack:
		to, ok = r.history.PeekBack()
	case NavForward:
		to, ok = r.history.PeekForward()
	case NavPop:
		to, ok = r.history.PeekPop()
	case NavPopTo:
		to, ok = r.history.PeekPopTo(cmd.RouteID)
	case NavPopToRoot:
		to, ok = r.history.PeekPopToRoot()
	case NavReset:
		if r.registry.HasRoute(cmd.Route.ID) {
			to, ok = r.withPattern(cmd.Route.Clone()), true
		}
	case NavSetStack:
		filtered := make([]Route, 0, len(cmd.Stack))
		for _, route := range cmd.Stack {
			if r.registry.HasRoute(route.ID) {
				filtered = append(filtered, r.withPattern(route.Clone()))
			}
		}
		if len(filtered) > 0 {
			plan.cmd.Stack = filtered
			to, ok = filtered[len(filtered)-1], true
		}
	}

	if !ok {
		return plan, false
	}
	plan.ctx.To = &to
	return plan, true
}

// commit applies an approved plan to history.
func (r *Router) commit(plan navPlan) DispatchResult {
	from := r.currentPtr()
	res := DispatchResult{
		ID:      plan.ctx.NavigationID,
		Command: plan.cmd,
		From:    from,
		To:      plan.ctx.To,
	}

	var changed bool
	switch plan.cmd.Kind {
	case NavNavigate, NavPush:
		r.urlPathOverride = ""
		r.history.Push(*plan.ctx.To)
		changed = true
	case NavReplace:
		r.urlPathOverride = ""
		r.history.Replace(*plan.ctx.To)
		changed = true
	case NavNavigateByPath, NavReplaceByPath:
		r.applyPathIntent(plan.intent)
		changed = true
	case NavBack:
		changed = r.history.Back()
	case NavForward:
		changed = r.history.Forward()
	case NavPop:
		changed = r.history.Pop()
	case NavPopTo:
		changed = r.history.PopTo(plan.cmd.RouteID)
	case NavPopToRoot:
		changed = r.history.PopToRoot()
	case NavReset:
		r.urlPathOverride = ""
		r.history.Reset(*plan.ctx.To)
		changed = true
	case NavSetStack:
		r.urlPathOverride = ""
		r.history.SetStack(plan.cmd.Stack)
		changed = true
	}

	if !changed {
		res.Reason = inferBlockReason(plan.cmd)
		return res
	}

	to, _ := r.history.Current()
	res.Changed = true
	res.To = &to
	res.Action = primaryAction(plan.cmd.Kind)
	r.emitChange(res.ID, res.Action, from, to)

	if plan.intent != nil {
		r.delegateIntent(plan.intent)
	}
	return res
}
