// Package pathguard scopes guards and before-leave hooks to paths or route
// ids selected by glob patterns. Patterns use "/" as separator, so "*"
// matches within one segment and "**" across segments.
package pathguard

import (
	"strings"

	"github.com/gobwas/glob"
	router "github.com/goliatone/go-navrouter"
)

type Option func(*config)

type config struct {
	include  []glob.Glob
	exclude  []glob.Glob
	patterns []string
	routeIDs bool
}

// WithInclude limits the wrapped callback to matching targets. Without any
// include pattern every target matches.
func WithInclude(patterns ...string) Option {
	return func(cfg *config) {
		for _, p := range patterns {
			cfg.include = append(cfg.include, glob.MustCompile(p, '/'))
			cfg.patterns = append(cfg.patterns, p)
		}
	}
}

// WithExclude skips targets matching any pattern. Excludes win over includes.
func WithExclude(patterns ...string) Option {
	return func(cfg *config) {
		for _, p := range patterns {
			cfg.exclude = append(cfg.exclude, glob.MustCompile(p, '/'))
			cfg.patterns = append(cfg.patterns, "!"+p)
		}
	}
}

// WithRouteIDs matches patterns against route ids instead of paths.
func WithRouteIDs() Option {
	return func(cfg *config) {
		cfg.routeIDs = true
	}
}

func newConfig(opts ...Option) config {
	cfg := config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	return cfg
}

func (cfg config) matches(subject string) bool {
	for _, g := range cfg.exclude {
		if g.Match(subject) {
			return false
		}
	}
	if len(cfg.include) == 0 {
		return true
	}
	for _, g := range cfg.include {
		if g.Match(subject) {
			return true
		}
	}
	return false
}

func (cfg config) name() string {
	return "pathguard[" + strings.Join(cfg.patterns, ",") + "]"
}

// subject returns what patterns are matched against for route.
func (cfg config) subject(route *router.Route, path string) string {
	if route == nil {
		return ""
	}
	if cfg.routeIDs {
		return string(route.ID)
	}
	if path != "" {
		return path
	}
	if p, ok := route.Path(); ok {
		return p
	}
	return "/" + string(route.ID)
}

type scopedGuard struct {
	cfg   config
	inner router.Guard
}

// Guard runs g only for navigations whose target matches.
func Guard(g router.Guard, opts ...Option) router.Guard {
	return &scopedGuard{cfg: newConfig(opts...), inner: g}
}

func (s *scopedGuard) Name() string { return s.cfg.name() }

func (s *scopedGuard) Check(ctx router.NavContext) router.GuardDecision {
	if !s.cfg.matches(s.cfg.subject(ctx.To, ctx.ToPath)) {
		return router.Allow()
	}
	return s.inner.Check(ctx)
}

type scopedAsyncGuard struct {
	cfg   config
	inner router.AsyncGuard
}

// AsyncGuard runs g only for navigations whose target matches.
func AsyncGuard(g router.AsyncGuard, opts ...Option) router.AsyncGuard {
	return &scopedAsyncGuard{cfg: newConfig(opts...), inner: g}
}

func (s *scopedAsyncGuard) Name() string { return s.cfg.name() }

func (s *scopedAsyncGuard) CheckAsync(ctx router.NavContext) router.Async[router.GuardDecision] {
	if !s.cfg.matches(s.cfg.subject(ctx.To, ctx.ToPath)) {
		return router.Immediate(router.Allow())
	}
	return s.inner.CheckAsync(ctx)
}

type scopedLeave struct {
	cfg   config
	inner router.BeforeLeaveHook
}

// BeforeLeave runs h only when the route being left matches.
func BeforeLeave(h router.BeforeLeaveHook, opts ...Option) router.BeforeLeaveHook {
	return &scopedLeave{cfg: newConfig(opts...), inner: h}
}

func (s *scopedLeave) Name() string { return s.cfg.name() }

func (s *scopedLeave) BeforeLeave(ctx router.NavContext) router.LeaveDecision {
	if !s.cfg.matches(s.cfg.subject(ctx.From, "")) {
		return router.LeaveAllow
	}
	return s.inner.BeforeLeave(ctx)
}
