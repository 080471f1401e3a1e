package heirsearch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeFailed  = "failed"
	outcomeInvalid = "invalid"
	outcomeCached  = "cached"
)

type Metrics struct {
	Searches       *prometheus.CounterVec
	SearchDuration prometheus.Histogram
	CandidatesSeen prometheus.Histogram
	Pages          *prometheus.CounterVec
	PageLatency    *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Searches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirfinder_heir_searches_total",
			Help: "Bulk heir searches by outcome",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "heirfinder_heir_search_duration_seconds",
			Help:    "End-to-end duration of a bulk heir search",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		CandidatesSeen: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "heirfinder_heir_search_candidates",
			Help:    "Deduplicated candidates found per search",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		}),
		Pages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "heirfinder_heir_search_pages_total",
			Help: "Bulk provider page fetches by provider and outcome",
		}, []string{"provider", "outcome"}),
		PageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "heirfinder_heir_search_page_duration_seconds",
			Help:    "Duration of single bulk page fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider"}),
	}
}

func (m *Metrics) ObserveSearch(outcome string, found int, start time.Time) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
	m.SearchDuration.Observe(time.Since(start).Seconds())
	if outcome == outcomeSuccess {
		m.CandidatesSeen.Observe(float64(found))
	}
}

func (m *Metrics) ObservePage(provider, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.Pages.WithLabelValues(provider, outcome).Inc()
	m.PageLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())
}
