package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks provider spend and waterfall outcomes. Every method is safe
// on a nil receiver so services can run without metrics in tests.
type Metrics struct {
	ProviderOutcomes  *prometheus.CounterVec
	ProviderLatency   *prometheus.HistogramVec
	ProviderRetries   *prometheus.CounterVec
	WaterfallOutcomes *prometheus.CounterVec
	WaterfallDuration prometheus.Histogram
	ProvidersTried    prometheus.Histogram
}

// New registers the enrichment metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the enrichment metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ProviderOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirfinder_provider_outcomes_total",
			Help: "Provider calls by outcome (success or failure kind)",
		}, []string{"provider", "outcome"}),
		ProviderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heirfinder_provider_call_duration_seconds",
			Help:    "Duration of single provider calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
		ProviderRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirfinder_provider_retries_total",
			Help: "Bounded retries issued after transient provider failures",
		}, []string{"provider"}),
		WaterfallOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirfinder_waterfall_outcomes_total",
			Help: "Waterfall runs by final source (none when exhausted)",
		}, []string{"source"}),
		WaterfallDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "heirfinder_waterfall_duration_seconds",
			Help:    "End-to-end duration of an enrichment waterfall",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		ProvidersTried: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "heirfinder_waterfall_providers_tried",
			Help:    "Number of providers attempted per waterfall run",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		}),
	}
}

// ObserveProviderCall records one provider attempt. outcome is "success" or
// the failure kind.
func (m *Metrics) ObserveProviderCall(provider, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.ProviderOutcomes.WithLabelValues(provider, outcome).Inc()
	m.ProviderLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncRetry(provider string) {
	if m == nil {
		return
	}
	m.ProviderRetries.WithLabelValues(provider).Inc()
}

// ObserveWaterfall records a finished run. source is "" when nothing was found.
func (m *Metrics) ObserveWaterfall(source string, tried int, start time.Time) {
	if m == nil {
		return
	}
	if source == "" {
		source = "none"
	}
	m.WaterfallOutcomes.WithLabelValues(source).Inc()
	m.WaterfallDuration.Observe(time.Since(start).Seconds())
	m.ProvidersTried.Observe(float64(tried))
}
