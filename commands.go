package router

import (
	"fmt"
)

// Command is a navigation request handed to Router.Dispatch. Build commands
// with the constructors below.
type Command struct {
	Kind        NavKind
	RouteID     RouteID
	Path        string
	Route       Route
	Stack       []Route
	ClearExtras bool
}

// GoToRoute pushes the route registered as id.
func GoToRoute(id RouteID) Command {
	return Command{Kind: NavNavigate, RouteID: id}
}

// GoToPath resolves path (query and hash included) and pushes the result.
func GoToPath(path string) Command {
	return Command{Kind: NavNavigateByPath, Path: path, ClearExtras: true}
}

// ReplaceRoute replaces the current entry with id.
func ReplaceRoute(id RouteID) Command {
	return Command{Kind: NavReplace, RouteID: id}
}

// ReplacePath resolves path and replaces the current entry. When
// clearExtras is false a previous not-found URL override survives the
// replacement.
func ReplacePath(path string, clearExtras bool) Command {
	return Command{Kind: NavReplaceByPath, Path: path, ClearExtras: clearExtras}
}

func Back() Command {
	return Command{Kind: NavBack}
}

func Forward() Command {
	return Command{Kind: NavForward}
}

// Reset makes route the only history entry.
func Reset(route Route) Command {
	return Command{Kind: NavReset, Route: route}
}

// Push is GoToRoute with stack wording.
func Push(id RouteID) Command {
	return Command{Kind: NavPush, RouteID: id}
}

func Pop() Command {
	return Command{Kind: NavPop}
}

func PopTo(id RouteID) Command {
	return Command{Kind: NavPopTo, RouteID: id}
}

func PopToRoot() Command {
	return Command{Kind: NavPopToRoot}
}

// SetStack replaces the whole history. Unregistered routes are dropped.
func SetStack(routes ...Route) Command {
	return Command{Kind: NavSetStack, Stack: routes}
}

func (c Command) String() string {
	switch c.Kind {
	case NavNavigate, NavReplace, NavPush, NavPopTo:
		return fmt.Sprintf("%s(%s)", c.Kind, c.RouteID)
	case NavNavigateByPath, NavReplaceByPath:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Path)
	case NavReset:
		return fmt.Sprintf("%s(%s)", c.Kind, c.Route.ID)
	case NavSetStack:
		return fmt.Sprintf("%s(%d)", c.Kind, len(c.Stack))
	default:
		return c.Kind.String()
	}
}

// redirectCommand converts a guard redirect into the request it stands for.
func redirectCommand(target RedirectTarget, replace bool) Command {
	switch {
	case target.Path != "" && replace:
		return ReplacePath(target.Path, true)
	case target.Path != "":
		return GoToPath(target.Path)
	case replace:
		return ReplaceRoute(target.RouteID)
	default:
		return GoToRoute(target.RouteID)
	}
}

// inferBlockReason is used when a command could not be resolved.
func inferBlockReason(cmd Command) BlockReason {
	if cmd.Kind.historyOnly() {
		return BlockNoHistory
	}
	return BlockRouteMissing
}

// ActionKind is the primary effect reported for a committed navigation.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionNavigate
	ActionReplace
	ActionBack
	ActionForward
	ActionReset
)

func (a ActionKind) String() string {
	switch a {
	case ActionNavigate:
		return "navigate"
	case ActionReplace:
		return "replace"
	case ActionBack:
		return "back"
	case ActionForward:
		return "forward"
	case ActionReset:
		return "reset"
	default:
		return "none"
	}
}

func primaryAction(kind NavKind) ActionKind {
	switch kind {
	case NavNavigate, NavNavigateByPath, NavPush:
		return ActionNavigate
	case NavReplace, NavReplaceByPath:
		return ActionReplace
	case NavBack:
		return ActionBack
	case NavForward:
		return ActionForward
	case NavReset, NavSetStack:
		return ActionReset
	default:
		return ActionNone
	}
}

// DispatchResult reports what a dispatched command did. A pending result
// settles later through Router.Poll.
type DispatchResult struct {
	ID      string
	Command Command
	Changed bool
	Pending bool
	Dropped bool
	From    *Route
	To      *Route
	Action  ActionKind
	Reason  BlockReason
}

// Blocked reports whether the navigation was refused.
func (r DispatchResult) Blocked() bool {
	return r.Reason != BlockNone
}

// Err returns the block reason as an error, or nil.
func (r DispatchResult) Err() error {
	if r.Reason == BlockNone {
		return nil
	}
	return r.Reason.Error(map[string]any{
		"navigation_id": r.ID,
		"command":       r.Command.String(),
		"from":          describeRoute(r.From),
		"to":            describeRoute(r.To),
	})
}

// Outcome is a short label used by logs and metrics.
func (r DispatchResult) Outcome() string {
	switch {
	case r.Pending:
		return "pending"
	case r.Dropped:
		return "dropped"
	case r.Changed:
		return "committed"
	case r.Reason != BlockNone:
		return "blocked"
	default:
		return "unchanged"
	}
}

// RouteChange is delivered to OnRouteChange listeners after each commit.
type RouteChange struct {
	NavigationID string
	Action       ActionKind
	From         *Route
	To           Route
}
