// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets the values; services read them without importing net/http.
//
//	requesterID := requestcontext.RequesterID(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Tests inject values directly:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

type (
	requesterIDKey struct{}
	accountIDKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// RequesterID returns the authenticated caller, or "" when unauthenticated.
func RequesterID(ctx context.Context) string {
	if v, ok := ctx.Value(requesterIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequesterID stores the authenticated caller id.
func WithRequesterID(ctx context.Context, requesterID string) context.Context {
	return context.WithValue(ctx, requesterIDKey{}, requesterID)
}

// AccountID returns the account whose provider credentials apply to this
// request. It falls back to the requester id for single-user accounts.
func AccountID(ctx context.Context) string {
	if v, ok := ctx.Value(accountIDKey{}).(string); ok && v != "" {
		return v
	}
	return RequesterID(ctx)
}

// WithAccountID stores the billing/credentials account.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey{}, accountID)
}

// RequestID returns the correlation id for this request.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// WithRequestID stores the correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the request-scoped time, or time.Now() when none was captured.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
