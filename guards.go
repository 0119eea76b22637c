package router

// NavKind classifies the request a guard is asked about.
type NavKind int

const (
	NavNavigate NavKind = iota
	NavReplace
	NavNavigateByPath
	NavReplaceByPath
	NavBack
	NavForward
	NavReset
	NavSetStack
	NavPush
	NavPop
	NavPopTo
	NavPopToRoot
)

var navKindNames = map[NavKind]string{
	NavNavigate:       "navigate",
	NavReplace:        "replace",
	NavNavigateByPath: "navigate_by_path",
	NavReplaceByPath:  "replace_by_path",
	NavBack:           "back",
	NavForward:        "forward",
	NavReset:          "reset",
	NavSetStack:       "set_stack",
	NavPush:           "push",
	NavPop:            "pop",
	NavPopTo:          "pop_to",
	NavPopToRoot:      "pop_to_root",
}

func (k NavKind) String() string {
	if name, ok := navKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// historyOnly reports kinds that move within existing history.
func (k NavKind) historyOnly() bool {
	switch k {
	case NavBack, NavForward, NavPop, NavPopTo, NavPopToRoot:
		return true
	}
	return false
}

// NavContext describes a navigation under evaluation. From is nil on the
// first navigation. ToPath is set for path based requests.
type NavContext struct {
	NavigationID string
	Kind         NavKind
	From         *Route
	To           *Route
	ToPath       string
}

// Leaving reports whether the active route id changes.
func (c NavContext) Leaving() bool {
	return c.From != nil && c.To != nil && c.From.ID != c.To.ID
}

// FromID returns the id of the route being left, or "".
func (c NavContext) FromID() RouteID {
	if c.From == nil {
		return ""
	}
	return c.From.ID
}

// ToID returns the id of the target route, or "".
func (c NavContext) ToID() RouteID {
	if c.To == nil {
		return ""
	}
	return c.To.ID
}

// GuardAction is the verdict carried by a GuardDecision.
type GuardAction int

const (
	GuardAllow GuardAction = iota
	GuardBlock
	GuardRedirect
)

func (a GuardAction) String() string {
	switch a {
	case GuardBlock:
		return "block"
	case GuardRedirect:
		return "redirect"
	default:
		return "allow"
	}
}

// RedirectTarget names a route by id or a path. Path wins when both are set.
type RedirectTarget struct {
	RouteID RouteID
	Path    string
}

func (t RedirectTarget) String() string {
	if t.Path != "" {
		return t.Path
	}
	return string(t.RouteID)
}

type GuardDecision struct {
	Action   GuardAction
	Redirect RedirectTarget
	// Replace makes the redirect replace the current entry instead of pushing.
	Replace bool
}

func Allow() GuardDecision {
	return GuardDecision{Action: GuardAllow}
}

func Block() GuardDecision {
	return GuardDecision{Action: GuardBlock}
}

// RedirectToRoute sends the navigation to id instead.
func RedirectToRoute(id RouteID, replace bool) GuardDecision {
	return GuardDecision{Action: GuardRedirect, Redirect: RedirectTarget{RouteID: id}, Replace: replace}
}

// RedirectToPath sends the navigation to path instead.
func RedirectToPath(path string, replace bool) GuardDecision {
	return GuardDecision{Action: GuardRedirect, Redirect: RedirectTarget{Path: path}, Replace: replace}
}

type LeaveDecision int

const (
	LeaveAllow LeaveDecision = iota
	LeaveBlock
)

func (d LeaveDecision) String() string {
	if d == LeaveBlock {
		return "block"
	}
	return "allow"
}

// Guard decides synchronously whether a navigation may proceed.
type Guard interface {
	Check(ctx NavContext) GuardDecision
}

type GuardFunc func(ctx NavContext) GuardDecision

func (f GuardFunc) Check(ctx NavContext) GuardDecision {
	return f(ctx)
}

// AsyncGuard may defer its decision.
type AsyncGuard interface {
	CheckAsync(ctx NavContext) Async[GuardDecision]
}

type AsyncGuardFunc func(ctx NavContext) Async[GuardDecision]

func (f AsyncGuardFunc) CheckAsync(ctx NavContext) Async[GuardDecision] {
	return f(ctx)
}

// BeforeLeaveHook runs when the active route is about to change.
type BeforeLeaveHook interface {
	BeforeLeave(ctx NavContext) LeaveDecision
}

type BeforeLeaveFunc func(ctx NavContext) LeaveDecision

func (f BeforeLeaveFunc) BeforeLeave(ctx NavContext) LeaveDecision {
	return f(ctx)
}

type AsyncBeforeLeaveHook interface {
	BeforeLeaveAsync(ctx NavContext) Async[LeaveDecision]
}

type AsyncBeforeLeaveFunc func(ctx NavContext) Async[LeaveDecision]

func (f AsyncBeforeLeaveFunc) BeforeLeaveAsync(ctx NavContext) Async[LeaveDecision] {
	return f(ctx)
}

// guardEntry and leaveEntry normalize sync and async callbacks so both kinds
// share one list in registration order.
type guardEntry struct {
	name  string
	async bool
	check func(NavContext) Async[GuardDecision]
}

type leaveEntry struct {
	name  string
	async bool
	check func(NavContext) Async[LeaveDecision]
}

func syncGuardEntry(g Guard) guardEntry {
	return guardEntry{
		name: callbackName(g),
		check: func(ctx NavContext) Async[GuardDecision] {
			return Immediate(g.Check(ctx))
		},
	}
}

func asyncGuardEntry(g AsyncGuard) guardEntry {
	return guardEntry{
		name:  callbackName(g),
		async: true,
		check: func(ctx NavContext) Async[GuardDecision] {
			if a := g.CheckAsync(ctx); !a.Missing() {
				return a
			}
			return Immediate(Block())
		},
	}
}

func syncLeaveEntry(h BeforeLeaveHook) leaveEntry {
	return leaveEntry{
		name: callbackName(h),
		check: func(ctx NavContext) Async[LeaveDecision] {
			return Immediate(h.BeforeLeave(ctx))
		},
	}
}

func asyncLeaveEntry(h AsyncBeforeLeaveHook) leaveEntry {
	return leaveEntry{
		name:  callbackName(h),
		async: true,
		check: func(ctx NavContext) Async[LeaveDecision] {
			if a := h.BeforeLeaveAsync(ctx); !a.Missing() {
				return a
			}
			return Immediate(LeaveBlock)
		},
	}
}
