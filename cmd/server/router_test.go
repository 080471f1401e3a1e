package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	jwttoken "heirfinder/internal/jwt_token"
	"heirfinder/internal/platform/httpserver"
	"heirfinder/internal/platform/metrics"
	"heirfinder/pkg/platform/httputil"
	"heirfinder/pkg/requestcontext"
	"heirfinder/pkg/testutil"
)

type whoami struct{}

func (whoami) Register(r chi.Router) {
	r.Get("/v1/whoami", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{
			"requester_id": requestcontext.RequesterID(r.Context()),
			"account_id":   requestcontext.AccountID(r.Context()),
		})
	})
	r.Post("/v1/whoami", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRouter(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtService := jwttoken.NewJWTService("router-test-key", "heirfinder", "heirfinder-api")
	token, err := jwtService.GenerateAccessToken("req-1", "acct-1", time.Hour)
	require.NoError(t, err)

	newRouterWith := func(checks ...httpserver.Check) http.Handler {
		return newRouter(log, metrics.NewWithRegistry(prometheus.NewRegistry()),
			jwttoken.NewValidator(jwtService), checks, whoami{})
	}
	authed := func(req *http.Request) *http.Request {
		req.Header.Set("Authorization", "Bearer "+token)
		return req
	}

	testutil.Given(t, "the API router", func(t *testing.T) {
		router := newRouterWith(httpserver.Check{Name: "postgres", Probe: func(context.Context) error { return nil }})

		testutil.When(t, "probing health", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
			testutil.Then(t, "it reports ok without authentication", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "status", "ok")
			})
		})

		testutil.When(t, "scraping metrics", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))
			testutil.Then(t, "it serves the exposition format", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
			})
		})

		testutil.When(t, "calling an API route without a token", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/whoami"))
			testutil.Then(t, "it is rejected", func(t *testing.T) {
				testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
			})
		})

		testutil.When(t, "calling an API route with a valid token", func(t *testing.T) {
			rr := testutil.DoRequest(router, authed(testutil.NewRequest(t, http.MethodGet, "/v1/whoami")))
			testutil.Then(t, "the identity reaches the handler", func(t *testing.T) {
				testutil.AssertStatusOK(t, rr)
				testutil.AssertJSONContains(t, rr, "requester_id", "req-1")
			})
			require.NotEmpty(t, rr.Header().Get("X-Request-ID"))
		})

		testutil.When(t, "posting a non-JSON body", func(t *testing.T) {
			req := authed(testutil.NewRequestWithBody(t, http.MethodPost, "/v1/whoami", "name=x"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rr := testutil.DoRequest(router, req)
			testutil.Then(t, "it is unsupported", func(t *testing.T) {
				testutil.AssertStatus(t, rr, http.StatusUnsupportedMediaType)
			})
		})
	})

	testutil.Given(t, "a failing dependency", func(t *testing.T) {
		router := newRouterWith(httpserver.Check{Name: "redis", Probe: func(context.Context) error { return errors.New("down") }})
		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/health"))
		testutil.Then(t, "health is degraded", func(t *testing.T) {
			testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
		})
	})
}
