package telemetry

import (
	"time"

	router "github.com/goliatone/go-navrouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "navrouter").
	Namespace string

	Subsystem string

	// ConstLabels are added to every metric, e.g. to tell routers apart.
	ConstLabels prometheus.Labels

	// Buckets for the navigation duration histogram.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

type MetricsOption func(*MetricsConfig)

func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "navrouter",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is a router.Observer recording navigation counts, outcomes and
// durations.
//
// Metrics collected:
//   - navrouter_navigations_total: navigations by command kind and outcome
//   - navrouter_navigation_duration_seconds: time from dispatch to settle
//   - navrouter_navigations_blocked_total: blocked navigations by reason
//   - navrouter_navigations_in_flight: dispatched navigations not yet settled
type Metrics struct {
	navigations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	blocked     *prometheus.CounterVec
	inFlight    prometheus.Gauge
}

var _ router.Observer = (*Metrics)(nil)

// NewMetrics registers the navigation metrics. Registering twice against the
// same registry panics, as with any promauto collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.DefaultRegisterer
	}
	if len(config.Buckets) == 0 {
		config.Buckets = prometheus.DefBuckets
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_total",
			Help:        "Total number of settled navigations",
			ConstLabels: config.ConstLabels,
		}, []string{"kind", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigation_duration_seconds",
			Help:        "Time from dispatch until a navigation settled",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),

		blocked: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_blocked_total",
			Help:        "Total number of blocked navigations by reason",
			ConstLabels: config.ConstLabels,
		}, []string{"reason"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "navigations_in_flight",
			Help:        "Dispatched navigations that have not settled",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) NavigationStarted(_ string, _ router.Command) {
	m.inFlight.Inc()
}

func (m *Metrics) NavigationFinished(res router.DispatchResult, elapsed time.Duration) {
	m.inFlight.Dec()

	kind := res.Command.Kind.String()
	m.navigations.WithLabelValues(kind, res.Outcome()).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if res.Blocked() {
		m.blocked.WithLabelValues(res.Reason.String()).Inc()
	}
}
