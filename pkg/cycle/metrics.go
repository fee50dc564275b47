package cycle

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the render-cycle metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for diff and apply durations.
	// Default: exponential from 10µs to about 160ms.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the render-cycle metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "vtree",
		Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for render cycles.
type Metrics struct {
	cyclesTotal   *prometheus.CounterVec
	patchesTotal  *prometheus.CounterVec
	diffDuration  prometheus.Histogram
	applyDuration prometheus.Histogram
}

// NewMetrics creates and registers the render-cycle collectors:
//   - vtree_cycles_total{result}: cycles by outcome
//   - vtree_patches_total{kind}: patches emitted by kind
//   - vtree_diff_duration_seconds: time spent diffing
//   - vtree_apply_duration_seconds: time spent in Mount or Apply
//
// Registering twice on the same registry panics, as with promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		cyclesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "cycles_total",
			Help:        "Total number of render cycles by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "patches_total",
			Help:        "Total number of patches emitted by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		diffDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "diff_duration_seconds",
			Help:        "Time spent computing patch lists in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		applyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "apply_duration_seconds",
			Help:        "Time spent mounting or applying patches in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// The nil-receiver checks let a Driver run without metrics.

func (m *Metrics) recordCycle(result string) {
	if m == nil {
		return
	}
	m.cyclesTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) recordPatches(counts map[string]int) {
	if m == nil {
		return
	}
	for kind, n := range counts {
		m.patchesTotal.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) observeDiff(seconds float64) {
	if m == nil {
		return
	}
	m.diffDuration.Observe(seconds)
}

func (m *Metrics) observeApply(seconds float64) {
	if m == nil {
		return
	}
	m.applyDuration.Observe(seconds)
}
