package attempts

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"heirfinder/internal/enrichment/models"
	"heirfinder/pkg/platform/circuit"
)

const defaultWriteTimeout = 5 * time.Second

// Publisher delivers attempt records to a Sink. With an async buffer the
// write happens on a background worker; Close drains whatever is queued.
// A circuit breaker on the primary sink routes records to an optional
// fallback sink while the primary is failing.
type Publisher struct {
	sink         Sink
	fallback     Sink
	breaker      *circuit.Breaker
	logger       *slog.Logger
	metrics      *Metrics
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	buffer chan models.AttemptRecord
	wg     sync.WaitGroup
	once   sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer enables asynchronous delivery with a queue of size n.
func WithAsyncBuffer(n int) PublisherOption {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan models.AttemptRecord, n)
		}
	}
}

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithMetrics(m *Metrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

// WithFallback sets the sink used while the primary's breaker is open or
// when a primary write fails.
func WithFallback(s Sink) PublisherOption {
	return func(p *Publisher) { p.fallback = s }
}

func WithBreaker(b *circuit.Breaker) PublisherOption {
	return func(p *Publisher) {
		if b != nil {
			p.breaker = b
		}
	}
}

func WithWriteTimeout(d time.Duration) PublisherOption {
	return func(p *Publisher) {
		if d > 0 {
			p.writeTimeout = d
		}
	}
}

func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		sink:         sink,
		breaker:      circuit.New("attempts"),
		logger:       slog.Default(),
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Record queues or writes rec. It never blocks on a full buffer and never
// returns an error; a dropped record is logged with its identifying fields.
func (p *Publisher) Record(ctx context.Context, rec models.AttemptRecord) {
	p.mu.RLock()
	if p.buffer == nil || p.closed {
		p.mu.RUnlock()
		p.persist(ctx, rec)
		return
	}
	select {
	case p.buffer <- rec:
		p.mu.RUnlock()
	default:
		p.mu.RUnlock()
		p.metrics.IncDropped()
		p.logger.WarnContext(ctx, "attempt buffer full, dropping record",
			append(recordAttrs(rec), "buffer_capacity", cap(p.buffer))...)
	}
}

// Close stops accepting queued records and waits for the worker to drain.
// Records arriving after Close are written synchronously.
func (p *Publisher) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		if p.buffer != nil {
			close(p.buffer)
		}
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for rec := range p.buffer {
		p.persist(context.Background(), rec)
	}
}

func (p *Publisher) persist(ctx context.Context, rec models.AttemptRecord) {
	ctx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	allowed := p.breaker.Allow()
	if allowed {
		err := p.sink.Append(ctx, rec)
		if err == nil {
			p.metrics.IncPersisted()
			if _, change := p.breaker.RecordSuccess(); change.Closed {
				p.metrics.SetCircuitOpen(false)
				p.logger.InfoContext(ctx, "attempt sink recovered", "breaker", p.breaker.Name())
			}
			return
		}
		p.metrics.IncPersistFailures()
		p.logger.ErrorContext(ctx, "attempt record write failed",
			append(recordAttrs(rec), "error", err)...)
		if _, change := p.breaker.RecordFailure(); change.Opened {
			p.metrics.SetCircuitOpen(true)
			p.logger.WarnContext(ctx, "attempt sink circuit opened", "breaker", p.breaker.Name())
		}
	}

	if p.fallback == nil {
		if !allowed {
			p.metrics.IncDropped()
			p.logger.WarnContext(ctx, "attempt sink circuit open, record not written", recordAttrs(rec)...)
		}
		return
	}
	if err := p.fallback.Append(ctx, rec); err != nil {
		p.logger.ErrorContext(ctx, "attempt record fallback write failed",
			append(recordAttrs(rec), "error", err)...)
		return
	}
	p.metrics.IncFallbackWrites()
}

// recordAttrs is the diagnostic footprint of a record that could not be
// written. Contact values are never part of a record, only flags.
func recordAttrs(rec models.AttemptRecord) []any {
	source := ""
	if rec.SuccessfulSource != nil {
		source = rec.SuccessfulSource.String()
	}
	return []any{
		"attempt_id", rec.ID,
		"requester_id", rec.RequesterID,
		"apis_attempted", ProviderStrings(rec.APIsAttempted),
		"successful_source", source,
		"success", rec.Success,
		"has_phone", rec.HasPhone,
		"has_email", rec.HasEmail,
	}
}
