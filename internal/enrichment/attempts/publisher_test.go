package attempts_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/models"
	"heirfinder/pkg/platform/circuit"
)

type recordingSink struct {
	mu      sync.Mutex
	records []models.AttemptRecord
	err     error
	block   chan struct{}
}

func (s *recordingSink) Append(_ context.Context, rec models.AttemptRecord) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, rec)
	return nil
}

func (s *recordingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r.ID)
	}
	return out
}

func record(id string) models.AttemptRecord {
	return models.AttemptRecord{
		ID:            id,
		RequesterID:   "user-1",
		HeirName:      "Jane Doe",
		APIsAttempted: []models.ProviderID{"apollo"},
		RecordedAt:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPublisherSyncWritesImmediately(t *testing.T) {
	sink := &recordingSink{}
	m := attempts.NewMetricsWithRegistry(prometheus.NewRegistry())
	p := attempts.NewPublisher(sink, attempts.WithMetrics(m))

	p.Record(context.Background(), record("a"))

	assert.Equal(t, []string{"a"}, sink.ids())
	assert.Equal(t, 1.0, promtest.ToFloat64(m.Persisted))
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	sink := &recordingSink{}
	p := attempts.NewPublisher(sink, attempts.WithAsyncBuffer(10))

	for _, id := range []string{"a", "b", "c"} {
		p.Record(context.Background(), record(id))
	}
	p.Close()

	assert.Equal(t, []string{"a", "b", "c"}, sink.ids())
}

func TestPublisherDropsWhenBufferFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	m := attempts.NewMetricsWithRegistry(prometheus.NewRegistry())
	p := attempts.NewPublisher(sink, attempts.WithAsyncBuffer(1), attempts.WithMetrics(m))

	// The worker takes the first record and blocks inside Append; the second
	// fills the buffer. Anything after that is dropped.
	p.Record(context.Background(), record("a"))
	require.Eventually(t, func() bool {
		p.Record(context.Background(), record("b"))
		return promtest.ToFloat64(m.Dropped) >= 1
	}, time.Second, 5*time.Millisecond)

	close(sink.block)
	p.Close()

	assert.Contains(t, sink.ids(), "a")
}

func TestPublisherFailingSinkDoesNotPanic(t *testing.T) {
	sink := &recordingSink{err: errors.New("disk full")}
	m := attempts.NewMetricsWithRegistry(prometheus.NewRegistry())
	p := attempts.NewPublisher(sink, attempts.WithMetrics(m))

	assert.NotPanics(t, func() { p.Record(context.Background(), record("a")) })
	assert.Equal(t, 1.0, promtest.ToFloat64(m.PersistFailures))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.Persisted))
}

func TestPublisherRoutesToFallbackWhileCircuitOpen(t *testing.T) {
	primary := &recordingSink{err: errors.New("connection refused")}
	fallback := &recordingSink{}
	m := attempts.NewMetricsWithRegistry(prometheus.NewRegistry())
	breaker := circuit.New("attempts-test",
		circuit.WithFailureThreshold(1),
		circuit.WithCooldown(time.Hour),
	)
	p := attempts.NewPublisher(primary,
		attempts.WithFallback(fallback),
		attempts.WithBreaker(breaker),
		attempts.WithMetrics(m),
	)

	p.Record(context.Background(), record("a"))
	require.True(t, breaker.IsOpen())
	assert.Equal(t, 1.0, promtest.ToFloat64(m.CircuitBreakerState))

	p.Record(context.Background(), record("b"))

	assert.Equal(t, []string{"a", "b"}, fallback.ids())
	assert.Equal(t, 1.0, promtest.ToFloat64(m.PersistFailures), "open breaker skips the primary")
	assert.Equal(t, 2.0, promtest.ToFloat64(m.FallbackWrites))
}

func TestPublisherCountsDropWhenOpenWithoutFallback(t *testing.T) {
	primary := &recordingSink{err: errors.New("connection refused")}
	m := attempts.NewMetricsWithRegistry(prometheus.NewRegistry())
	breaker := circuit.New("attempts-test",
		circuit.WithFailureThreshold(1),
		circuit.WithCooldown(time.Hour),
	)
	p := attempts.NewPublisher(primary, attempts.WithBreaker(breaker), attempts.WithMetrics(m))

	p.Record(context.Background(), record("a"))
	p.Record(context.Background(), record("b"))

	assert.Equal(t, 1.0, promtest.ToFloat64(m.Dropped))
}

func TestPublisherWritesSynchronouslyAfterClose(t *testing.T) {
	sink := &recordingSink{}
	p := attempts.NewPublisher(sink, attempts.WithAsyncBuffer(4))
	p.Close()
	p.Close()

	p.Record(context.Background(), record("late"))

	assert.Equal(t, []string{"late"}, sink.ids())
}
