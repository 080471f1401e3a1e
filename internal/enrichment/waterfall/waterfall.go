// Package waterfall runs contact enrichment across providers in priority
// order, stopping once the merged contact is sufficient.
package waterfall

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"heirfinder/internal/enrichment/metrics"
	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/normalize"
	"heirfinder/internal/enrichment/providers"
	"heirfinder/internal/enrichment/registry"
	"heirfinder/pkg/requestcontext"
)

const (
	DefaultCallTimeout = 10 * time.Second
	maxRetries         = 1
	maxRetryBackoff    = 2 * time.Second
)

// ProviderSource yields the ordered, credential-filtered providers for an
// account.
type ProviderSource interface {
	AvailableProviders(ctx context.Context, accountID string) registry.Selection
}

// AttemptLogger receives one record per completed run. It must not block
// the caller and has no way to report failure.
type AttemptLogger interface {
	Record(ctx context.Context, rec models.AttemptRecord)
}

type Orchestrator struct {
	providers    ProviderSource
	attempts     AttemptLogger
	sufficient   SufficiencyPolicy
	callTimeout  time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	newID        func() string
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithAttemptLogger(l AttemptLogger) Option {
	return func(o *Orchestrator) { o.attempts = l }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithCallTimeout bounds each provider call.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.callTimeout = d
		}
	}
}

// WithRetry enables a bounded retry for network and rate-limit failures.
// At most one retry is allowed and the backoff is capped at two seconds.
func WithRetry(retries int, backoff time.Duration) Option {
	return func(o *Orchestrator) {
		o.maxRetries = min(max(retries, 0), maxRetries)
		o.retryBackoff = min(max(backoff, 0), maxRetryBackoff)
	}
}

func WithSufficiency(p SufficiencyPolicy) Option {
	return func(o *Orchestrator) {
		if p != nil {
			o.sufficient = p
		}
	}
}

func withIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) { o.newID = fn }
}

func New(source ProviderSource, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers:   source,
		sufficient:  BothChannels,
		callTimeout: DefaultCallTimeout,
		logger:      slog.Default(),
		tracer:      otel.Tracer("heirfinder/enrichment/waterfall"),
		newID:       func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Enrich runs the waterfall for one person. An invalid request returns a
// domain error and touches no provider. Every other outcome, including
// total provider failure, is reported in the result with a nil error.
func (o *Orchestrator) Enrich(ctx context.Context, requesterID string, req models.EnrichmentRequest) (models.EnrichmentResult, error) {
	validated, err := req.Validate()
	if err != nil {
		return models.EnrichmentResult{}, err
	}

	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "waterfall.Enrich")
	defer span.End()

	accountID := requestcontext.AccountID(ctx)
	if accountID == "" {
		accountID = requesterID
	}
	sel := o.providers.AvailableProviders(ctx, accountID)
	available := make([]string, 0, len(sel.Providers))
	for _, id := range sel.IDs() {
		available = append(available, id.String())
	}
	span.SetAttributes(
		attribute.Int("providers.available", len(sel.Providers)),
		attribute.StringSlice("providers.order", available),
	)
	o.logger.DebugContext(ctx, "providers selected",
		"request_id", requestcontext.RequestID(ctx),
		"providers", available,
	)

	r := newRun(len(sel.Providers))
	for i, p := range sel.Providers {
		if ctx.Err() != nil {
			o.logger.WarnContext(ctx, "enrichment cancelled before provider",
				"request_id", requestcontext.RequestID(ctx),
				"provider", p.ID(),
				"error", ctx.Err(),
			)
			break
		}
		r.try(i, p.ID())
		contact, perr := o.attempt(ctx, p, sel.Credentials, validated)
		if perr != nil {
			continue
		}
		r.merge(p.ID(), contact)
		if o.sufficient(r.merged) {
			break
		}
	}

	result := r.finish()
	source := ""
	if result.Source != nil {
		source = result.Source.String()
	}
	o.metrics.ObserveWaterfall(source, len(result.APIsAttempted), start)
	span.SetAttributes(
		attribute.String("waterfall.state", r.state.String()),
		attribute.String("waterfall.source", source),
		attribute.Int("waterfall.attempted", len(result.APIsAttempted)),
	)
	o.logger.InfoContext(ctx, "enrichment finished",
		"request_id", requestcontext.RequestID(ctx),
		"requester_id", requesterID,
		"state", r.state.String(),
		"source", source,
		"apis_attempted", result.APIsAttempted,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	o.recordAttempt(ctx, models.NewAttemptRecord(o.newID(), requesterID, validated, result, requestcontext.Now(ctx)))
	return result, nil
}

// attempt calls one provider, retrying once when configured and the failure
// is transient.
func (o *Orchestrator) attempt(ctx context.Context, p providers.Provider, creds providers.Credentials, req models.EnrichmentRequest) (models.CanonicalContact, *providers.ProviderError) {
	for try := 0; ; try++ {
		contact, perr := o.call(ctx, p, creds, req)
		if perr == nil {
			return contact, nil
		}
		if try >= o.maxRetries || !perr.Retryable || ctx.Err() != nil {
			return models.CanonicalContact{}, perr
		}
		o.metrics.IncRetry(p.ID().String())
		if o.retryBackoff > 0 {
			select {
			case <-ctx.Done():
				return models.CanonicalContact{}, perr
			case <-time.After(o.retryBackoff):
			}
		}
	}
}

type callResult struct {
	contact models.CanonicalContact
	err     error
}

// call makes exactly one provider call bounded by the call timeout. The
// adapter runs on its own goroutine so one that ignores its context still
// cannot hold the waterfall past the deadline.
func (o *Orchestrator) call(ctx context.Context, p providers.Provider, creds providers.Credentials, req models.EnrichmentRequest) (models.CanonicalContact, *providers.ProviderError) {
	id := p.ID()
	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()
	callCtx, span := o.tracer.Start(callCtx, "provider.AttemptEnrichment",
		trace.WithAttributes(attribute.String("provider", id.String())))
	defer span.End()

	done := make(chan callResult, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- callResult{err: providers.NewProviderError(providers.KindNetwork, id, "provider panicked", fmt.Errorf("%v", rec))}
			}
		}()
		contact, err := p.AttemptEnrichment(callCtx, creds, req)
		done <- callResult{contact: contact, err: err}
	}()

	var res callResult
	select {
	case res = <-done:
	case <-callCtx.Done():
		res = callResult{err: providers.NewProviderError(providers.KindNetwork, id, "call timed out", callCtx.Err())}
	}

	var perr *providers.ProviderError
	if res.err == nil {
		res.contact = normalize.Contact(res.contact)
		if res.contact.IsEmpty() {
			perr = providers.NewProviderError(providers.KindNotFound, id, "empty contact", nil)
		}
	} else {
		perr = providers.AsProviderError(id, res.err)
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && perr.Kind != providers.KindNetwork {
			perr = providers.NewProviderError(providers.KindNetwork, id, "call timed out", res.err)
		}
	}

	if perr == nil {
		o.metrics.ObserveProviderCall(id.String(), "success", start)
		span.SetAttributes(attribute.String("outcome", "success"))
		o.logger.DebugContext(ctx, "provider returned contact",
			"request_id", requestcontext.RequestID(ctx),
			"provider", id,
			"has_email", res.contact.HasEmail(),
			"has_phone", res.contact.HasPhone(),
		)
		return res.contact, nil
	}

	o.metrics.ObserveProviderCall(id.String(), string(perr.Kind), start)
	span.SetAttributes(attribute.String("outcome", string(perr.Kind)))
	o.logFailure(ctx, perr)
	if perr.Kind != providers.KindNotFound {
		span.SetStatus(codes.Error, string(perr.Kind))
	}
	return models.CanonicalContact{}, perr
}

func (o *Orchestrator) logFailure(ctx context.Context, perr *providers.ProviderError) {
	args := []any{
		"request_id", requestcontext.RequestID(ctx),
		"provider", perr.ProviderID,
		"kind", perr.Kind,
		"error", perr.Error(),
	}
	switch perr.Kind {
	case providers.KindNotFound:
		o.logger.DebugContext(ctx, "provider found no match", args...)
	case providers.KindRateLimited:
		o.logger.WarnContext(ctx, "provider rate limited", args...)
	case providers.KindAuth:
		o.logger.WarnContext(ctx, "provider rejected credentials", args...)
	case providers.KindInvalidRequest:
		o.logger.InfoContext(ctx, "provider could not express request", args...)
	default:
		o.logger.WarnContext(ctx, "provider call failed", args...)
	}
}

// recordAttempt hands the record to the attempt logger. Logging never
// affects the result: panics are recovered and the request's cancellation
// is detached so asynchronous sinks can finish.
func (o *Orchestrator) recordAttempt(ctx context.Context, rec models.AttemptRecord) {
	if o.attempts == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			o.logger.ErrorContext(ctx, "attempt logger panicked",
				"request_id", requestcontext.RequestID(ctx),
				"attempt_id", rec.ID,
				"panic", fmt.Sprint(r),
			)
		}
	}()
	o.attempts.Record(context.WithoutCancel(ctx), rec)
}
