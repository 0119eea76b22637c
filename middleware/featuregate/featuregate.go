package featuregate

import (
	"context"
	"errors"
	"strings"

	"github.com/gobwas/glob"
	"github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-featuregate/gate/guard"
	"github.com/goliatone/go-featuregate/scope"
	router "github.com/goliatone/go-navrouter"
)

type Option func(*config)

type ClaimsResolver func(router.NavContext) (gate.ActorClaims, error)

type ActorResolver func(router.NavContext) gate.ActorRef

type ContextResolver func(router.NavContext) context.Context

type feature struct {
	pattern   string
	match     glob.Glob
	key       string
	overrides []string
}

type config struct {
	features        []feature
	contextResolver ContextResolver
	claimsResolver  ClaimsResolver
	actorResolver   ActorResolver
	strict          bool
	redirect        *router.RedirectTarget
	replace         bool
	logger          router.Logger
}

type actorContextKey struct{}

var actorKey actorContextKey

type featureGuard struct {
	gate gate.FeatureGate
	cfg  config
}

// New returns a guard that checks fg for every navigation whose target
// route id matches a WithFeature pattern. A nil gate allows everything.
func New(fg gate.FeatureGate, opts ...Option) router.Guard {
	return &featureGuard{gate: fg, cfg: newConfig(opts...)}
}

// WithFeature gates route ids matching pattern behind key. Overrides are
// alternate keys that grant access when key is disabled. The first matching
// pattern wins.
func WithFeature(pattern, key string, overrides ...string) Option {
	return func(cfg *config) {
		cfg.features = append(cfg.features, feature{
			pattern:   pattern,
			match:     glob.MustCompile(pattern),
			key:       key,
			overrides: overrides,
		})
	}
}

// WithContext sets the base context handed to the gate. It defaults to
// context.Background().
func WithContext(resolver ContextResolver) Option {
	return func(cfg *config) {
		cfg.contextResolver = resolver
	}
}

func WithClaimsResolver(resolver ClaimsResolver) Option {
	return func(cfg *config) {
		cfg.claimsResolver = resolver
	}
}

func WithActorResolver(resolver ActorResolver) Option {
	return func(cfg *config) {
		cfg.actorResolver = resolver
	}
}

// WithStrict blocks navigations whose claims carry no tenant, org or
// user identifier.
func WithStrict(strict bool) Option {
	return func(cfg *config) {
		cfg.strict = strict
	}
}

// WithRedirectRoute sends denied navigations to id instead of blocking them.
func WithRedirectRoute(id router.RouteID, replace bool) Option {
	return func(cfg *config) {
		cfg.redirect = &router.RedirectTarget{RouteID: id}
		cfg.replace = replace
	}
}

// WithRedirectPath sends denied navigations to path instead of blocking them.
func WithRedirectPath(path string, replace bool) Option {
	return func(cfg *config) {
		cfg.redirect = &router.RedirectTarget{Path: path}
		cfg.replace = replace
	}
}

func WithLogger(logger router.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
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

func (g *featureGuard) Name() string { return "featuregate" }

func (g *featureGuard) Check(nav router.NavContext) router.GuardDecision {
	if g.gate == nil || nav.To == nil {
		return router.Allow()
	}
	if g.isRedirectTarget(nav) {
		return router.Allow()
	}
	f, ok := g.featureFor(nav.To.ID)
	if !ok {
		return router.Allow()
	}

	ctx, err := g.context(nav)
	if err != nil {
		g.log("featuregate claims rejected", nav, f, err)
		return router.Block()
	}

	err = guard.Require(ctx, g.gate, f.key, guard.WithOverrides(f.overrides...))
	switch {
	case err == nil:
		return router.Allow()
	case errors.Is(err, guard.ErrFeatureDisabled):
		g.log("feature disabled", nav, f, nil)
		return g.deny()
	default:
		g.log("feature gate failed", nav, f, err)
		return router.Block()
	}
}

func (g *featureGuard) featureFor(id router.RouteID) (feature, bool) {
	for _, f := range g.cfg.features {
		if f.match.Match(string(id)) {
			return f, true
		}
	}
	return feature{}, false
}

func (g *featureGuard) isRedirectTarget(nav router.NavContext) bool {
	target := g.cfg.redirect
	if target == nil {
		return false
	}
	if target.RouteID != "" {
		return nav.To.ID == target.RouteID
	}
	path := nav.ToPath
	if path == "" {
		path, _ = nav.To.Path()
	}
	return path != "" && router.NormalizePath(path) == router.NormalizePath(router.ParseURL(target.Path).Path)
}

func (g *featureGuard) deny() router.GuardDecision {
	target := g.cfg.redirect
	switch {
	case target == nil:
		return router.Block()
	case target.RouteID != "":
		return router.RedirectToRoute(target.RouteID, g.cfg.replace)
	default:
		return router.RedirectToPath(target.Path, g.cfg.replace)
	}
}

// context builds the gate context for nav. Claims land in the
// go-featuregate scope keys and the actor is stored for ActorFromContext.
func (g *featureGuard) context(nav router.NavContext) (context.Context, error) {
	ctx := context.Background()
	if g.cfg.contextResolver != nil {
		if c := g.cfg.contextResolver(nav); c != nil {
			ctx = c
		}
	}

	if g.cfg.claimsResolver != nil {
		claims, err := g.cfg.claimsResolver(nav)
		if err != nil {
			return nil, err
		}
		if g.cfg.strict && claimsEmpty(claims) {
			return nil, errMissingClaims
		}
		ctx = applyClaims(ctx, claims)
	} else if g.cfg.strict && claimsEmpty(scope.ClaimsFromContext(ctx)) {
		return nil, errMissingClaims
	}

	if g.cfg.actorResolver != nil {
		ctx = withActorRef(ctx, g.cfg.actorResolver(nav))
	}
	return ctx, nil
}

func (g *featureGuard) log(msg string, nav router.NavContext, f feature, err error) {
	if g.cfg.logger == nil {
		return
	}
	args := []any{
		"navigation_id", nav.NavigationID,
		"route_id", nav.To.ID,
		"feature", f.key,
		"pattern", f.pattern,
	}
	if err != nil {
		args = append(args, "error", err)
		g.cfg.logger.Warn(msg, args...)
		return
	}
	g.cfg.logger.Debug(msg, args...)
}

var errMissingClaims = errors.New("featuregate claims missing required identifiers: " +
	strings.Join([]string{scope.MetadataTenantID, scope.MetadataOrgID, scope.MetadataUserID}, ", "))

// ActorFromContext returns the actor reference stored by the guard.
func ActorFromContext(ctx context.Context) (gate.ActorRef, bool) {
	if ctx == nil {
		return gate.ActorRef{}, false
	}
	actor, ok := ctx.Value(actorKey).(gate.ActorRef)
	if !ok || actorRefEmpty(actor) {
		return gate.ActorRef{}, false
	}
	return actor, true
}

func applyClaims(ctx context.Context, claims gate.ActorClaims) context.Context {
	ctx = scope.WithTenantID(ctx, claims.TenantID)
	ctx = scope.WithOrgID(ctx, claims.OrgID)
	return scope.WithUserID(ctx, claims.SubjectID)
}

func claimsEmpty(claims gate.ActorClaims) bool {
	return strings.TrimSpace(claims.TenantID) == "" &&
		strings.TrimSpace(claims.OrgID) == "" &&
		strings.TrimSpace(claims.SubjectID) == ""
}

func withActorRef(ctx context.Context, actor gate.ActorRef) context.Context {
	if actorRefEmpty(actor) {
		return ctx
	}
	return context.WithValue(ctx, actorKey, actor)
}

func actorRefEmpty(actor gate.ActorRef) bool {
	return strings.TrimSpace(actor.ID) == "" &&
		strings.TrimSpace(actor.Type) == "" &&
		strings.TrimSpace(actor.Name) == ""
}
