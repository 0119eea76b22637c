package telemetry_test

import (
	"fmt"
	"strings"
	"testing"

	router "github.com/goliatone/go-navrouter"
	"github.com/goliatone/go-navrouter/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newRouter(t *testing.T, obs router.Observer) *router.Router {
	t.Helper()
	r := router.MustNew(
		router.WithGuards(),
		router.WithDefaultRoute("home"),
		router.WithObserver(obs),
	)
	r.MustRegister("home", "/").
		MustRegister("admin", "/admin").
		MustRegister("about", "/about")
	return r
}

func TestMetrics_RecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(telemetry.WithRegistry(reg), telemetry.WithSubsystem("app"))
	r := newRouter(t, m)

	require.NoError(t, r.AddGuard(router.GuardFunc(func(ctx router.NavContext) router.GuardDecision {
		if ctx.ToID() == "admin" {
			return router.Block()
		}
		return router.Allow()
	})))

	r.Start()
	r.Navigate("about")
	r.Navigate("admin")
	r.Forward()

	count, err := testutil.GatherAndCount(reg, "navrouter_app_navigations_total")
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	problems, err := testutil.GatherAndLint(reg)
	require.NoError(t, err)
	assert.Empty(t, problems)

	assert.Equal(t, 1, testutil.CollectAndCount(reg, "navrouter_app_navigations_in_flight"))
	assert.Equal(t, 2, testutil.CollectAndCount(reg, "navrouter_app_navigations_blocked_total"))
}

func TestMetrics_PendingNavigationStaysInFlight(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(telemetry.WithRegistry(reg), telemetry.WithNamespace("test"))
	r := newRouter(t, m)
	r.Start()

	d := router.NewDeferred[router.GuardDecision]()
	require.NoError(t, r.AddAsyncGuard(router.AsyncGuardFunc(func(router.NavContext) router.Async[router.GuardDecision] {
		return router.Pending(d)
	})))

	require.True(t, r.Navigate("about").Pending)
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(inFlight(1)), "test_navigations_in_flight"))

	d.Resolve(router.Allow())
	_, done := r.Poll()
	require.True(t, done)

	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(inFlight(0)), "test_navigations_in_flight"))
}

func inFlight(n int) string {
	return fmt.Sprintf(`
# HELP test_navigations_in_flight Dispatched navigations that have not settled
# TYPE test_navigations_in_flight gauge
test_navigations_in_flight %d
`, n)
}

func TestTracer_SpansPerNavigation(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := telemetry.NewTracer(telemetry.WithTracerProvider(tp))
	r := newRouter(t, tr)

	require.NoError(t, r.AddGuard(router.GuardFunc(func(ctx router.NavContext) router.GuardDecision {
		if ctx.ToID() == "admin" {
			return router.Block()
		}
		return router.Allow()
	})))

	r.Start()
	r.NavigateToPath("/about")
	r.Navigate("admin")

	spans := sr.Ended()
	require.Len(t, spans, 3)
	assert.Equal(t, "navigation.reset", spans[0].Name())
	assert.Equal(t, "navigation.navigate_by_path", spans[1].Name())
	assert.Equal(t, codes.Ok, spans[1].Status().Code)
	assert.Contains(t, spans[1].Attributes(), attribute.String("navigation.path", "/about"))
	assert.Contains(t, spans[1].Attributes(), attribute.String("navigation.to", "about"))

	assert.Equal(t, codes.Error, spans[2].Status().Code)
	assert.Contains(t, spans[2].Attributes(), attribute.String("navigation.block_reason", "guard_blocked"))
	assert.Equal(t, 0, tr.Open())
}

func TestTracer_PendingSpanEndsOnPoll(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tr := telemetry.NewTracer(telemetry.WithTracerProvider(tp), telemetry.WithIncludeRoutes(false))
	r := newRouter(t, tr)
	r.Start()

	d := router.NewDeferred[router.GuardDecision]()
	require.NoError(t, r.AddAsyncGuard(router.AsyncGuardFunc(func(router.NavContext) router.Async[router.GuardDecision] {
		return router.Pending(d)
	})))

	require.True(t, r.Navigate("about").Pending)
	assert.Equal(t, 1, tr.Open())
	assert.Len(t, sr.Ended(), 1)

	d.Abandon()
	_, done := r.Poll()
	require.True(t, done)

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Contains(t, spans[1].Attributes(), attribute.String("navigation.outcome", "dropped"))
	for _, kv := range spans[1].Attributes() {
		assert.NotEqual(t, attribute.Key("navigation.to"), kv.Key)
	}
	assert.Equal(t, 0, tr.Open())
}
