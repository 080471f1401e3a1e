package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and caches return these
// (optionally wrapped); services decide what they mean for the caller.
//
//   - ErrNotFound: no row / key for the lookup
//   - ErrUnavailable: backing store is down or unreachable
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
