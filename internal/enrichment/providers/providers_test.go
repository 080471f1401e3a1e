package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks Provider,BulkProvider,BulkSource

func TestClassifyStatus(t *testing.T) {
	cases := []struct {
		status int
		kind   ErrorKind
	}{
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAuth},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusPaymentRequired, KindRateLimited},
		{http.StatusNotFound, KindNotFound},
		{http.StatusBadRequest, KindInvalidRequest},
		{http.StatusUnprocessableEntity, KindInvalidRequest},
		{http.StatusInternalServerError, KindNetwork},
		{http.StatusBadGateway, KindNetwork},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("status %d", tc.status), func(t *testing.T) {
			err := ClassifyStatus("apollo", tc.status, nil)
			assert.Equal(t, tc.kind, err.Kind)
			assert.Equal(t, tc.kind == KindNetwork || tc.kind == KindRateLimited, err.Retryable)
		})
	}
}

func TestClassifyStatusRedactsBody(t *testing.T) {
	err := ClassifyStatus("pdl", http.StatusUnauthorized, []byte(`{"error":"bad key","api_key=sk-live-123"}`))
	assert.NotContains(t, err.Error(), "sk-live-123")
}

func TestKindOfAndRetryable(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewProviderError(KindRateLimited, "apollo", "slow down", nil))
	assert.Equal(t, KindRateLimited, KindOf(wrapped))
	assert.True(t, IsRetryable(wrapped))

	assert.Equal(t, KindNetwork, KindOf(errors.New("plain")))
	assert.False(t, IsRetryable(errors.New("plain")))

	auth := NewProviderError(KindAuth, "apollo", "denied", nil)
	assert.False(t, IsRetryable(auth))
}

func TestAsProviderError(t *testing.T) {
	assert.Nil(t, AsProviderError("apollo", nil))

	pe := AsProviderError("apollo", context.DeadlineExceeded)
	assert.Equal(t, KindNetwork, pe.Kind)
	assert.ErrorIs(t, pe, context.DeadlineExceeded)

	orig := NewProviderError(KindNotFound, "pdl", "no match", nil)
	assert.Same(t, orig, AsProviderError("apollo", orig))
}

func TestCredentials(t *testing.T) {
	creds := Credentials{"apollo": {APIKey: "k"}}
	c, ok := creds.For("apollo")
	require.True(t, ok)
	assert.Equal(t, "k", c.APIKey)
	_, ok = creds.For("pdl")
	assert.False(t, ok)
}

func TestCaller(t *testing.T) {
	t.Run("returns status and body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}))
		defer srv.Close()

		c := NewCaller("apollo", Settings{Timeout: time.Second})
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		status, body, err := c.Do(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusTeapot, status)
		assert.Equal(t, "short and stout", string(body))
	})

	t.Run("deadline becomes network error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		c := NewCaller("apollo", Settings{Timeout: 5 * time.Second})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
		require.NoError(t, err)

		_, _, err = c.Do(ctx, req)
		require.Error(t, err)
		assert.Equal(t, KindNetwork, KindOf(err))
	})

	t.Run("limiter wait beyond deadline is rate limited", func(t *testing.T) {
		c := NewCaller("pdl", Settings{})
		c.Limiter = rate.NewLimiter(rate.Every(time.Hour), 1)
		c.Limiter.Allow() // drain the only token

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()
		req, err := http.NewRequest(http.MethodGet, "http://unused.invalid", nil)
		require.NoError(t, err)

		_, _, err = c.Do(ctx, req)
		require.Error(t, err)
		assert.Equal(t, KindRateLimited, KindOf(err))
	})
}
