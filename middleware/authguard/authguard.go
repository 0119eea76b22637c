// Package authguard redirects navigations to protected routes to a login
// route while the user is not authenticated.
package authguard

import (
	"github.com/gobwas/glob"
	router "github.com/goliatone/go-navrouter"
)

type Config struct {
	Skip func(ctx router.NavContext) bool
	// Authenticated reports the session state. Without it every navigation
	// is allowed.
	Authenticated func(ctx router.NavContext) bool
	// Protected holds route id globs. Empty protects every route except the
	// login route.
	Protected  []string
	LoginRoute router.RouteID
	// LoginPath, when set, redirects by path and carries the requested path
	// in the NextParam query parameter.
	LoginPath string
	NextParam string
	// Replace makes the redirect replace the current entry.
	Replace bool
}

var ConfigDefault = Config{
	Skip:       nil,
	LoginRoute: "login",
	NextParam:  "next",
	Replace:    true,
}

type guard struct {
	cfg       Config
	protected []glob.Glob
	loginPath string
}

func New(config ...Config) router.Guard {
	cfg := configDefault(config...)

	g := &guard{cfg: cfg}
	if cfg.LoginPath != "" {
		g.loginPath = router.NormalizePath(cfg.LoginPath)
	}
	for _, p := range cfg.Protected {
		g.protected = append(g.protected, glob.MustCompile(p))
	}
	return g
}

func (g *guard) Name() string { return "authguard" }

func (g *guard) Check(ctx router.NavContext) router.GuardDecision {
	if g.cfg.Skip != nil && g.cfg.Skip(ctx) {
		return router.Allow()
	}
	if g.cfg.Authenticated == nil || ctx.To == nil {
		return router.Allow()
	}
	if g.isLogin(ctx) || !g.isProtected(ctx.To.ID) {
		return router.Allow()
	}
	if g.cfg.Authenticated(ctx) {
		return router.Allow()
	}

	if g.cfg.LoginPath == "" {
		return router.RedirectToRoute(g.cfg.LoginRoute, g.cfg.Replace)
	}

	target := ctx.ToPath
	if target == "" {
		if p, ok := ctx.To.Path(); ok {
			target = p
		}
	}
	login := router.ParseURL(g.cfg.LoginPath)
	query := login.QueryMap()
	if target != "" && g.cfg.NextParam != "" {
		if query == nil {
			query = router.Query{}
		}
		query[g.cfg.NextParam] = target
	}
	return router.RedirectToPath(login.Path+router.BuildQueryString(query)+login.Hash, g.cfg.Replace)
}

// isLogin reports whether ctx targets the login route or LoginPath. The
// path may resolve to a route with another id.
func (g *guard) isLogin(ctx router.NavContext) bool {
	if ctx.To.ID == g.cfg.LoginRoute {
		return true
	}
	if g.loginPath == "" {
		return false
	}
	target := ctx.ToPath
	if target == "" {
		target, _ = ctx.To.Path()
	}
	return target != "" && router.NormalizePath(target) == g.loginPath
}

func (g *guard) isProtected(id router.RouteID) bool {
	if len(g.protected) == 0 {
		return true
	}
	for _, p := range g.protected {
		if p.Match(string(id)) {
			return true
		}
	}
	return false
}

func configDefault(config ...Config) Config {
	if len(config) == 0 {
		return ConfigDefault
	}

	cfg := config[0]

	if cfg.LoginRoute == "" {
		cfg.LoginRoute = ConfigDefault.LoginRoute
	}

	if cfg.NextParam == "" {
		cfg.NextParam = ConfigDefault.NextParam
	}

	return cfg
}
