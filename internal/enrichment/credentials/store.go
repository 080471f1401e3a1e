// Package credentials resolves an account's provider keys. Keys are stored
// recoverable because they are replayed to the providers on every call.
package credentials

import (
	"context"
	"os"
	"strings"
	"sync"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
)

// InMemoryStore keeps per-account credentials in a map. Used in tests and
// for single-tenant deployments seeded from the environment.
type InMemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]providers.Credentials
	// fallback applies to accounts with no explicit entry.
	fallback providers.Credentials
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{accounts: make(map[string]providers.Credentials)}
}

// Static returns a store that hands the same credentials to every account.
func Static(creds providers.Credentials) *InMemoryStore {
	s := NewInMemoryStore()
	s.fallback = creds
	return s
}

// Put sets one provider credential for an account.
func (s *InMemoryStore) Put(_ context.Context, accountID string, id models.ProviderID, cred providers.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	creds, ok := s.accounts[accountID]
	if !ok {
		creds = providers.Credentials{}
		s.accounts[accountID] = creds
	}
	creds[id] = cred
	return nil
}

// Credentials returns a copy of the account's credentials; an unknown
// account gets the fallback set (possibly empty).
func (s *InMemoryStore) Credentials(_ context.Context, accountID string) (providers.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.accounts[accountID]
	if !ok {
		src = s.fallback
	}
	out := make(providers.Credentials, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out, nil
}

// FromEnv reads operator credentials: APOLLO_API_KEY, PDL_API_KEY,
// ENDATO_PROFILE_NAME and ENDATO_PROFILE_PASSWORD. Blank variables are
// skipped.
func FromEnv() providers.Credentials {
	creds := providers.Credentials{}
	if v := strings.TrimSpace(os.Getenv("APOLLO_API_KEY")); v != "" {
		creds["apollo"] = providers.Credential{APIKey: v}
	}
	if v := strings.TrimSpace(os.Getenv("PDL_API_KEY")); v != "" {
		creds["pdl"] = providers.Credential{APIKey: v}
	}
	name := strings.TrimSpace(os.Getenv("ENDATO_PROFILE_NAME"))
	pass := strings.TrimSpace(os.Getenv("ENDATO_PROFILE_PASSWORD"))
	if name != "" && pass != "" {
		creds["endato"] = providers.Credential{APIKey: name, Secret: pass}
	}
	return creds
}
