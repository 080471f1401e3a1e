package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"heirfinder/internal/enrichment/models"
)

// maxResponseBytes bounds provider payloads read into memory.
const maxResponseBytes = 4 << 20

// Caller performs one HTTP exchange for an adapter. It applies the optional
// client-side rate limit and converts transport failures into
// ProviderErrors; status interpretation is left to the adapter's parser.
type Caller struct {
	ProviderID models.ProviderID
	Client     *http.Client
	Limiter    *rate.Limiter
}

// Settings is the per-provider transport configuration loaded from the
// provider file.
type Settings struct {
	BaseURL string
	Timeout time.Duration
	// RPS <= 0 disables client-side limiting.
	RPS   float64
	Burst int
}

// NewCaller builds a Caller from settings.
func NewCaller(id models.ProviderID, s Settings) *Caller {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Caller{
		ProviderID: id,
		Client:     &http.Client{Timeout: timeout},
	}
	if s.RPS > 0 {
		burst := s.Burst
		if burst <= 0 {
			burst = 1
		}
		c.Limiter = rate.NewLimiter(rate.Limit(s.RPS), burst)
	}
	return c
}

// Do sends req and returns the status and body. A non-nil error is always a
// *ProviderError.
func (c *Caller) Do(ctx context.Context, req *http.Request) (int, []byte, error) {
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return 0, nil, NewProviderError(KindNetwork, c.ProviderID, "cancelled waiting for rate limiter", ctx.Err())
			}
			return 0, nil, NewProviderError(KindRateLimited, c.ProviderID, "client-side rate limit exceeds call budget", err)
		}
	}

	resp, err := c.Client.Do(req.WithContext(ctx))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, NewProviderError(KindNetwork, c.ProviderID, "call timed out", err)
		}
		return 0, nil, NewProviderError(KindNetwork, c.ProviderID, "transport failure", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, NewProviderError(KindNetwork, c.ProviderID, fmt.Sprintf("read body (http %d)", resp.StatusCode), err)
	}
	return resp.StatusCode, body, nil
}
