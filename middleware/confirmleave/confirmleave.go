// Package confirmleave asks for confirmation before leaving a route with
// unsaved state. The confirmation runs on its own goroutine and the router
// picks the answer up through Poll.
package confirmleave

import (
	router "github.com/goliatone/go-navrouter"
)

type Config struct {
	Skip func(ctx router.NavContext) bool
	// Dirty reports whether leaving would lose state. Nil means always ask.
	Dirty func(ctx router.NavContext) bool
	// Confirm blocks until the user answers. Nil allows every navigation.
	Confirm func(ctx router.NavContext) bool
}

var ConfigDefault = Config{}

type hook struct {
	cfg Config
}

func New(config ...Config) router.AsyncBeforeLeaveHook {
	return &hook{cfg: configDefault(config...)}
}

func (h *hook) Name() string { return "confirmleave" }

func (h *hook) BeforeLeaveAsync(ctx router.NavContext) router.Async[router.LeaveDecision] {
	if h.cfg.Skip != nil && h.cfg.Skip(ctx) {
		return router.Immediate(router.LeaveAllow)
	}
	if h.cfg.Confirm == nil {
		return router.Immediate(router.LeaveAllow)
	}
	if h.cfg.Dirty != nil && !h.cfg.Dirty(ctx) {
		return router.Immediate(router.LeaveAllow)
	}

	confirm := h.cfg.Confirm
	return router.Pending(router.Go(func() router.LeaveDecision {
		if confirm(ctx) {
			return router.LeaveAllow
		}
		return router.LeaveBlock
	}))
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}
	return config[0]
}
