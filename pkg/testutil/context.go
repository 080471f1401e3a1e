package testutil

import (
	"net/http"
	"time"

	"heirfinder/pkg/requestcontext"
)

// WithRequester simulates the auth middleware for an authenticated request.
func WithRequester(req *http.Request, requesterID string) *http.Request {
	return req.WithContext(requestcontext.WithRequesterID(req.Context(), requesterID))
}

// WithAccount sets the account whose provider credentials apply.
func WithAccount(req *http.Request, requesterID, accountID string) *http.Request {
	ctx := requestcontext.WithRequesterID(req.Context(), requesterID)
	ctx = requestcontext.WithAccountID(ctx, accountID)
	return req.WithContext(ctx)
}

// WithTime pins the request-scoped clock.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
