package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"heirfinder/internal/enrichment/models"
	"heirfinder/pkg/platform/redact"
)

// ErrorKind is the normalized failure taxonomy every adapter maps into.
type ErrorKind string

const (
	// KindNotFound means the provider searched and matched nobody. Routine.
	KindNotFound ErrorKind = "not_found"

	// KindRateLimited means provider-side throttling or an exhausted quota.
	KindRateLimited ErrorKind = "rate_limited"

	// KindAuth means the account's credentials for this provider were rejected.
	KindAuth ErrorKind = "auth_error"

	// KindNetwork covers transport failures, timeouts and provider 5xx.
	KindNetwork ErrorKind = "network_error"

	// KindInvalidRequest means the request could not be expressed to, or was
	// rejected as malformed by, the provider.
	KindInvalidRequest ErrorKind = "invalid_request"
)

// ProviderError wraps an adapter failure with its normalized kind.
type ProviderError struct {
	Kind       ErrorKind
	ProviderID models.ProviderID
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("provider %s [%s]: %s: %v", e.ProviderID, e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("provider %s [%s]: %s", e.ProviderID, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// NewProviderError builds a ProviderError. Network and rate-limit failures
// are the only retryable kinds.
func NewProviderError(kind ErrorKind, providerID models.ProviderID, message string, underlying error) *ProviderError {
	return &ProviderError{
		Kind:       kind,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
		Retryable:  kind == KindNetwork || kind == KindRateLimited,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return false
}

// KindOf extracts the kind from an error. Context deadlines count as network
// failures; anything unclassified is treated as a network failure so the
// waterfall moves on.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindNetwork
}

// AsProviderError coerces any adapter error into a ProviderError.
func AsProviderError(providerID models.ProviderID, err error) *ProviderError {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewProviderError(KindNetwork, providerID, "call timed out", err)
	}
	return NewProviderError(KindNetwork, providerID, "unclassified failure", err)
}

// ClassifyStatus maps a non-2xx HTTP status to a ProviderError. The body is
// only used as a redacted hint.
func ClassifyStatus(providerID models.ProviderID, status int, body []byte) *ProviderError {
	hint := redact.Snippet(body, 256)
	msg := fmt.Sprintf("http %d", status)
	if hint != "" {
		msg += ": " + hint
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewProviderError(KindAuth, providerID, msg, nil)
	case status == http.StatusTooManyRequests || status == http.StatusPaymentRequired:
		return NewProviderError(KindRateLimited, providerID, msg, nil)
	case status == http.StatusNotFound:
		return NewProviderError(KindNotFound, providerID, msg, nil)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return NewProviderError(KindInvalidRequest, providerID, msg, nil)
	default:
		return NewProviderError(KindNetwork, providerID, msg, nil)
	}
}

// Sentinel errors for registry-level conditions.
var (
	ErrNoProvidersAvailable = errors.New("no providers available for this account")
	ErrAllProvidersFailed   = errors.New("all providers failed")
)
