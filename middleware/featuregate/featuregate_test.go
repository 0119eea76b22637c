package featuregate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-featuregate/gate"
	"github.com/goliatone/go-featuregate/resolver"
	"github.com/goliatone/go-featuregate/scope"
	"github.com/goliatone/go-featuregate/store"
	router "github.com/goliatone/go-navrouter"
	"github.com/goliatone/go-navrouter/middleware/featuregate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGate struct {
	values map[string]bool
	err    error
	calls  []string
	last   context.Context
}

func (s *stubGate) Enabled(ctx context.Context, key string, _ ...gate.ResolveOption) (bool, error) {
	s.calls = append(s.calls, key)
	s.last = ctx
	if s.err != nil {
		return false, s.err
	}
	return s.values[key], nil
}

type defaults map[string]bool

func (d defaults) Default(_ context.Context, key string) (resolver.DefaultResult, error) {
	v, ok := d[key]
	return resolver.DefaultResult{Set: ok, Value: v}, nil
}

func newRouter(t *testing.T, fg gate.FeatureGate, opts ...featuregate.Option) *router.Router {
	t.Helper()
	r := router.MustNew(router.WithGuards(), router.WithDefaultRoute("home"))
	r.MustRegister("home", "/").
		MustRegister("about", "/about").
		MustRegister("upgrade", "/upgrade").
		MustRegister("billing", "/billing").
		MustRegister("billing_invoice", "/billing/invoices/:id").
		MustRegister("reports", "/reports")
	require.NoError(t, r.AddGuard(featuregate.New(fg, opts...)))
	r.Start()
	return r
}

func stack(r *router.Router) []router.RouteID {
	routes, _ := r.Stack()
	out := make([]router.RouteID, 0, len(routes))
	for _, route := range routes {
		out = append(out, route.ID)
	}
	return out
}

func TestFeatureGate_BlocksDisabledRoute(t *testing.T) {
	fg := &stubGate{values: map[string]bool{"reports": true}}
	r := newRouter(t, fg,
		featuregate.WithFeature("billing*", "billing.v2"),
		featuregate.WithFeature("reports", "reports"),
	)

	res := r.NavigateToPath("/billing/invoices/42")
	assert.False(t, res.Changed)
	assert.True(t, res.Blocked())
	assert.Equal(t, "/", r.CurrentPath())

	assert.True(t, r.Navigate("reports").Changed)
	assert.True(t, r.Navigate("about").Changed)
	assert.Equal(t, []string{"billing.v2", "reports"}, fg.calls, "ungated routes never reach the gate")
}

func TestFeatureGate_FirstMatchingPatternWins(t *testing.T) {
	fg := &stubGate{values: map[string]bool{"billing.invoices": true}}
	r := newRouter(t, fg,
		featuregate.WithFeature("billing_invoice", "billing.invoices"),
		featuregate.WithFeature("billing*", "billing.v2"),
	)

	assert.True(t, r.NavigateToPath("/billing/invoices/7").Changed)
	assert.False(t, r.Navigate("billing").Changed)
}

func TestFeatureGate_RedirectRoute(t *testing.T) {
	fg := &stubGate{values: map[string]bool{}}
	r := newRouter(t, fg,
		featuregate.WithFeature("*", "beta"),
		featuregate.WithRedirectRoute("upgrade", true),
	)

	// the redirect target is never gated
	res := r.Navigate("billing")
	require.True(t, res.Changed)
	require.NotNil(t, res.To)
	assert.Equal(t, router.RouteID("upgrade"), res.To.ID)
	assert.Equal(t, []router.RouteID{"upgrade"}, stack(r))
}

func TestFeatureGate_RedirectPath(t *testing.T) {
	fg := &stubGate{values: map[string]bool{}}
	r := newRouter(t, fg,
		featuregate.WithFeature("billing", "billing.v2"),
		featuregate.WithRedirectPath("/upgrade?from=billing", false),
	)

	res := r.Navigate("billing")
	require.True(t, res.Changed)
	assert.Equal(t, router.RouteID("upgrade"), res.To.ID)
	assert.Equal(t, "/upgrade?from=billing", r.CurrentURL())
	assert.Equal(t, []router.RouteID{"home", "upgrade"}, stack(r))
}

func TestFeatureGate_OverrideKeyGrantsAccess(t *testing.T) {
	fg := &stubGate{values: map[string]bool{"billing.beta_testers": true}}
	r := newRouter(t, fg, featuregate.WithFeature("billing", "billing.v2", "billing.beta_testers"))

	assert.True(t, r.Navigate("billing").Changed)
	assert.Equal(t, []string{"billing.v2", "billing.beta_testers"}, fg.calls)
}

func TestFeatureGate_ClaimsAndActorReachGate(t *testing.T) {
	fg := &stubGate{values: map[string]bool{"billing.v2": true}}
	r := newRouter(t, fg,
		featuregate.WithFeature("billing", "billing.v2"),
		featuregate.WithClaimsResolver(func(router.NavContext) (gate.ActorClaims, error) {
			return gate.ActorClaims{TenantID: "tenant-1", OrgID: "org-1", SubjectID: "user-1"}, nil
		}),
		featuregate.WithActorResolver(func(router.NavContext) gate.ActorRef {
			return gate.ActorRef{ID: "user-1", Type: "user", Name: "User One"}
		}),
	)

	require.True(t, r.Navigate("billing").Changed)
	require.NotNil(t, fg.last)
	assert.Equal(t, "tenant-1", scope.TenantID(fg.last))
	assert.Equal(t, "org-1", scope.OrgID(fg.last))
	assert.Equal(t, "user-1", scope.UserID(fg.last))

	actor, ok := featuregate.ActorFromContext(fg.last)
	require.True(t, ok)
	assert.Equal(t, "User One", actor.Name)
}

func TestFeatureGate_ContextResolverIsBase(t *testing.T) {
	fg := &stubGate{values: map[string]bool{"billing.v2": true}}
	r := newRouter(t, fg,
		featuregate.WithFeature("billing", "billing.v2"),
		featuregate.WithContext(func(router.NavContext) context.Context {
			return scope.WithUserID(context.Background(), "from-base")
		}),
		featuregate.WithActorResolver(func(router.NavContext) gate.ActorRef {
			return gate.ActorRef{}
		}),
	)

	require.True(t, r.Navigate("billing").Changed)
	assert.Equal(t, "from-base", scope.UserID(fg.last))
	_, ok := featuregate.ActorFromContext(fg.last)
	assert.False(t, ok, "empty actor is not stored")
}

func TestFeatureGate_StrictMode(t *testing.T) {
	fg := &stubGate{values: map[string]bool{"billing.v2": true}}
	claims := gate.ActorClaims{}
	r := newRouter(t, fg,
		featuregate.WithFeature("billing", "billing.v2"),
		featuregate.WithStrict(true),
		featuregate.WithClaimsResolver(func(router.NavContext) (gate.ActorClaims, error) {
			return claims, nil
		}),
	)

	assert.False(t, r.Navigate("billing").Changed)
	assert.Empty(t, fg.calls, "missing claims never reach the gate")

	claims = gate.ActorClaims{TenantID: "tenant-1"}
	assert.True(t, r.Navigate("billing").Changed)
}

func TestFeatureGate_NonStrictAllowsEmptyClaims(t *testing.T) {
	fg := &stubGate{values: map[string]bool{"billing.v2": true}}
	r := newRouter(t, fg,
		featuregate.WithFeature("billing", "billing.v2"),
		featuregate.WithClaimsResolver(func(router.NavContext) (gate.ActorClaims, error) {
			return gate.ActorClaims{}, nil
		}),
	)

	assert.True(t, r.Navigate("billing").Changed)
}

func TestFeatureGate_ErrorsBlock(t *testing.T) {
	t.Run("claims resolver", func(t *testing.T) {
		fg := &stubGate{values: map[string]bool{"billing.v2": true}}
		r := newRouter(t, fg,
			featuregate.WithFeature("billing", "billing.v2"),
			featuregate.WithRedirectRoute("upgrade", true),
			featuregate.WithClaimsResolver(func(router.NavContext) (gate.ActorClaims, error) {
				return gate.ActorClaims{}, errors.New("resolver failed")
			}),
		)

		res := r.Navigate("billing")
		assert.False(t, res.Changed)
		assert.True(t, res.Blocked())
		assert.Empty(t, fg.calls)
	})

	t.Run("gate", func(t *testing.T) {
		fg := &stubGate{err: errors.New("store unavailable")}
		r := newRouter(t, fg,
			featuregate.WithFeature("billing", "billing.v2"),
			featuregate.WithRedirectRoute("upgrade", true),
		)

		res := r.Navigate("billing")
		assert.False(t, res.Changed, "gate errors block instead of redirecting")
		assert.Equal(t, "/", r.CurrentPath())
	})
}

func TestFeatureGate_NilGateAllows(t *testing.T) {
	r := newRouter(t, nil, featuregate.WithFeature("*", "beta"))
	assert.True(t, r.Navigate("billing").Changed)
}

func TestFeatureGate_WithResolver(t *testing.T) {
	overrides := store.NewMemoryStore()
	require.NoError(t, overrides.Set(context.Background(), "billing.v2",
		gate.ScopeRef{Kind: gate.ScopeUser, ID: "user-1"}, true, gate.ActorRef{ID: "admin"}))

	fg := resolver.New(
		resolver.WithDefaults(defaults{"billing.v2": false}),
		resolver.WithOverrideStore(overrides),
	)

	user := "user-2"
	r := newRouter(t, fg,
		featuregate.WithFeature("billing*", "billing.v2"),
		featuregate.WithClaimsResolver(func(router.NavContext) (gate.ActorClaims, error) {
			return gate.ActorClaims{SubjectID: user}, nil
		}),
	)

	assert.False(t, r.Navigate("billing").Changed, "default is off")

	user = "user-1"
	assert.True(t, r.Navigate("billing").Changed, "user override is on")
}
