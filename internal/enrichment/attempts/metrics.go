package attempts

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for attempt record delivery.
type Metrics struct {
	Persisted           prometheus.Counter
	Dropped             prometheus.Counter
	PersistFailures     prometheus.Counter
	FallbackWrites      prometheus.Counter
	CircuitBreakerState prometheus.Gauge
}

func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Persisted: factory.NewCounter(prometheus.CounterOpts{
			Name: "heirfinder_attempts_persisted_total",
			Help: "Attempt records written to the primary sink",
		}),
		Dropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "heirfinder_attempts_dropped_total",
			Help: "Attempt records dropped because the async buffer was full",
		}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "heirfinder_attempts_persist_failures_total",
			Help: "Attempt record writes that failed on the primary sink",
		}),
		FallbackWrites: factory.NewCounter(prometheus.CounterOpts{
			Name: "heirfinder_attempts_fallback_writes_total",
			Help: "Attempt records routed to the fallback sink",
		}),
		CircuitBreakerState: factory.NewGauge(prometheus.GaugeOpts{
			Name: "heirfinder_attempts_circuit_breaker_state",
			Help: "Primary sink circuit breaker state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) IncPersisted() {
	if m != nil {
		m.Persisted.Inc()
	}
}

func (m *Metrics) IncDropped() {
	if m != nil {
		m.Dropped.Inc()
	}
}

func (m *Metrics) IncPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) IncFallbackWrites() {
	if m != nil {
		m.FallbackWrites.Inc()
	}
}

func (m *Metrics) SetCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitBreakerState.Set(1)
		return
	}
	m.CircuitBreakerState.Set(0)
}
