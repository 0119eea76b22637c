package router

import (
	"time"
)

// MaxRedirects bounds how many guard redirects one navigation may follow.
const MaxRedirects = 8

type pipelinePhase int

const (
	phaseBeforeLeave pipelinePhase = iota
	phaseGuard
)

func (p pipelinePhase) String() string {
	if p == phaseBeforeLeave {
		return "before_leave"
	}
	return "guard"
}

// navPlan is a command resolved against the current history and registry.
// Nothing has been mutated yet.
type navPlan struct {
	cmd    Command
	ctx    NavContext
	intent *pathIntent
}

// navHost resolves and applies navigations for the pipeline.
type navHost interface {
	resolve(cmd Command, navigationID string) (navPlan, bool)
	commit(plan navPlan) DispatchResult
}

type pendingNavigation struct {
	plan      navPlan
	phase     pipelinePhase
	index     int
	redirects int
	leave     *Deferred[LeaveDecision]
	guard     *Deferred[GuardDecision]
	started   time.Time
}

// GuardPipeline runs before-leave hooks and guards for each navigation and
// holds at most one navigation suspended on an asynchronous decision.
type GuardPipeline struct {
	leave        []leaveEntry
	guards       []guardEntry
	pending      *pendingNavigation
	maxRedirects int
	logger       Logger
}

func newGuardPipeline(logger Logger) *GuardPipeline {
	if logger == nil {
		logger = &defaultLogger{}
	}
	return &GuardPipeline{maxRedirects: MaxRedirects, logger: logger}
}

func (p *GuardPipeline) addGuard(e guardEntry) {
	p.guards = append(p.guards, e)
}

func (p *GuardPipeline) addLeave(e leaveEntry) {
	p.leave = append(p.leave, e)
}

// Empty reports whether nothing is registered, which enables the fast path.
func (p *GuardPipeline) Empty() bool {
	return len(p.guards) == 0 && len(p.leave) == 0
}

func (p *GuardPipeline) HasPending() bool {
	return p.pending != nil
}

func (p *GuardPipeline) GuardCount() int {
	return len(p.guards)
}

func (p *GuardPipeline) HookCount() int {
	return len(p.leave)
}

// Clear removes every hook and guard and drops any pending navigation.
func (p *GuardPipeline) Clear() {
	p.guards = nil
	p.leave = nil
	p.pending = nil
}

func blockedResult(plan navPlan, reason BlockReason) DispatchResult {
	return DispatchResult{
		ID:      plan.ctx.NavigationID,
		Command: plan.cmd,
		From:    plan.ctx.From,
		To:      plan.ctx.To,
		Reason:  reason,
	}
}

func pendingResult(plan navPlan) DispatchResult {
	return DispatchResult{
		ID:      plan.ctx.NavigationID,
		Command: plan.cmd,
		Pending: true,
		From:    plan.ctx.From,
		To:      plan.ctx.To,
	}
}

// run evaluates cmd from the start. Redirects re-enter with skipLeave set so
// before-leave hooks are only consulted for the first request of a redirect chain.
func (p *GuardPipeline) run(host navHost, cmd Command, navigationID string, redirects int, skipLeave bool, started time.Time) DispatchResult {
	plan, ok := host.resolve(cmd, navigationID)
	if !ok {
		reason := inferBlockReason(cmd)
		p.logger.Debug("navigation target not resolved",
			"navigation_id", navigationID, "command", cmd.String(), "reason", reason.String())
		return blockedResult(plan, reason)
	}

	if !skipLeave && p.Empty() {
		return host.commit(plan)
	}

	if !skipLeave && plan.ctx.Leaving() {
		return p.runLeave(host, plan, 0, redirects, started)
	}
	return p.runGuards(host, plan, 0, redirects, started)
}

func (p *GuardPipeline) runLeave(host navHost, plan navPlan, start, redirects int, started time.Time) DispatchResult {
	for i := start; i < len(p.leave); i++ {
		entry := p.leave[i]
		decision := entry.check(plan.ctx)
		if decision.IsPending() {
			p.pending = &pendingNavigation{
				plan:      plan,
				phase:     phaseBeforeLeave,
				index:     i,
				redirects: redirects,
				leave:     decision.Deferred(),
				started:   started,
			}
			p.logger.Debug("navigation suspended",
				"navigation_id", plan.ctx.NavigationID, "phase", phaseBeforeLeave.String(), "hook", entry.name)
			return pendingResult(plan)
		}
		if decision.Value() == LeaveBlock {
			p.logger.Debug("navigation blocked by before-leave hook",
				"navigation_id", plan.ctx.NavigationID, "hook", entry.name,
				"from", describeRoute(plan.ctx.From), "to", describeRoute(plan.ctx.To))
			return blockedResult(plan, BlockBeforeLeave)
		}
	}
	return p.runGuards(host, plan, 0, redirects, started)
}

func (p *GuardPipeline) runGuards(host navHost, plan navPlan, start, redirects int, started time.Time) DispatchResult {
	for i := start; i < len(p.guards); i++ {
		entry := p.guards[i]
		decision := entry.check(plan.ctx)
		if decision.IsPending() {
			p.pending = &pendingNavigation{
				plan:      plan,
				phase:     phaseGuard,
				index:     i,
				redirects: redirects,
				guard:     decision.Deferred(),
				started:   started,
			}
			p.logger.Debug("navigation suspended",
				"navigation_id", plan.ctx.NavigationID, "phase", phaseGuard.String(), "guard", entry.name)
			return pendingResult(plan)
		}

		switch d := decision.Value(); d.Action {
		case GuardAllow:
			continue
		case GuardBlock:
			p.logger.Debug("navigation blocked by guard",
				"navigation_id", plan.ctx.NavigationID, "guard", entry.name,
				"from", describeRoute(plan.ctx.From), "to", describeRoute(plan.ctx.To))
			return blockedResult(plan, BlockGuard)
		case GuardRedirect:
			return p.redirect(host, plan, entry.name, d, redirects, started)
		}
	}
	return host.commit(plan)
}

func (p *GuardPipeline) redirect(host navHost, plan navPlan, guard string, d GuardDecision, redirects int, started time.Time) DispatchResult {
	if redirects >= p.maxRedirects {
		p.logger.Warn("guard redirect limit reached",
			"navigation_id", plan.ctx.NavigationID, "guard", guard,
			"redirects", redirects, "target", d.Redirect.String())
		return blockedResult(plan, BlockRedirectLimit)
	}
	p.logger.Debug("navigation redirected",
		"navigation_id", plan.ctx.NavigationID, "guard", guard, "target", d.Redirect.String(), "replace", d.Replace)
	next := redirectCommand(d.Redirect, d.Replace)
	return p.run(host, next, plan.ctx.NavigationID, redirects+1, true, started)
}

// drop discards the pending navigation without consulting its decision,
// even one that already arrived. cause is only logged.
func (p *GuardPipeline) drop(cause string) (DispatchResult, *pendingNavigation) {
	pn := p.pending
	if pn == nil {
		return DispatchResult{}, nil
	}
	p.pending = nil
	if pn.leave != nil {
		pn.leave.Abandon()
	}
	if pn.guard != nil {
		pn.guard.Abandon()
	}
	p.logger.Info("pending navigation dropped",
		"navigation_id", pn.plan.ctx.NavigationID, "phase", pn.phase.String(), "index", pn.index, "cause", cause)
	return DispatchResult{
		ID:      pn.plan.ctx.NavigationID,
		Command: pn.plan.cmd,
		Dropped: true,
		From:    pn.plan.ctx.From,
		To:      pn.plan.ctx.To,
	}, pn
}

// poll advances a suspended navigation. The second return value is false
// while no pending navigation exists or its decision has not arrived.
func (p *GuardPipeline) poll(host navHost) (DispatchResult, *pendingNavigation, bool) {
	pn := p.pending
	if pn == nil {
		return DispatchResult{}, nil, false
	}

	var state PollState
	var leave LeaveDecision
	var guard GuardDecision
	if pn.phase == phaseBeforeLeave {
		leave, state = pn.leave.Poll()
	} else {
		guard, state = pn.guard.Poll()
	}

	switch state {
	case PollPending:
		return DispatchResult{}, pn, false
	case PollAbandoned:
		res, _ := p.drop("abandoned")
		return res, pn, true
	}

	p.pending = nil
	plan := pn.plan

	if pn.phase == phaseBeforeLeave {
		if leave == LeaveBlock {
			p.logger.Debug("navigation blocked by before-leave hook",
				"navigation_id", plan.ctx.NavigationID, "hook", p.leaveName(pn.index))
			return blockedResult(plan, BlockBeforeLeave), pn, true
		}
		return p.runLeave(host, plan, pn.index+1, pn.redirects, pn.started), pn, true
	}

	switch guard.Action {
	case GuardBlock:
		p.logger.Debug("navigation blocked by guard",
			"navigation_id", plan.ctx.NavigationID, "guard", p.guardName(pn.index))
		return blockedResult(plan, BlockGuard), pn, true
	case GuardRedirect:
		return p.redirect(host, plan, p.guardName(pn.index), guard, pn.redirects, pn.started), pn, true
	default:
		return p.runGuards(host, plan, pn.index+1, pn.redirects, pn.started), pn, true
	}
}

func (p *GuardPipeline) guardName(i int) string {
	if i < len(p.guards) {
		return p.guards[i].name
	}
	return "unknown"
}

func (p *GuardPipeline) leaveName(i int) string {
	if i < len(p.leave) {
		return p.leave[i].name
	}
	return "unknown"
}
