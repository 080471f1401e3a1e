// Package registry decides which providers a given account may use, in
// priority order. The answer is recomputed on every call so credential
// changes apply to the next request without a restart.
package registry

import (
	"context"
	"fmt"
	"log/slog"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
)

// CredentialSource resolves an account's provider keys.
type CredentialSource interface {
	Credentials(ctx context.Context, accountID string) (providers.Credentials, error)
}

// Config fixes provider priority. IDs that are not registered are ignored.
type Config struct {
	Priority     []models.ProviderID
	BulkPriority []models.ProviderID
}

// DefaultConfig is apollo, then pdl, then endato; endato alone for bulk.
func DefaultConfig() Config {
	return Config{
		Priority:     []models.ProviderID{"apollo", "pdl", "endato"},
		BulkPriority: []models.ProviderID{"endato"},
	}
}

// Selection is the ordered provider list for one run plus the credentials
// that made them eligible.
type Selection struct {
	Providers   []providers.Provider
	Credentials providers.Credentials
}

// IDs returns the provider ids in order.
func (s Selection) IDs() []models.ProviderID {
	ids := make([]models.ProviderID, 0, len(s.Providers))
	for _, p := range s.Providers {
		ids = append(ids, p.ID())
	}
	return ids
}

type Registry struct {
	cfg       Config
	creds     CredentialSource
	providers map[models.ProviderID]providers.Provider
	bulk      map[models.ProviderID]providers.BulkProvider
	logger    *slog.Logger
}

type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a registry. Adapters are registered afterwards with Register
// and RegisterBulk.
func New(cfg Config, creds CredentialSource, opts ...Option) *Registry {
	r := &Registry{
		cfg:       cfg,
		creds:     creds,
		providers: make(map[models.ProviderID]providers.Provider),
		bulk:      make(map[models.ProviderID]providers.BulkProvider),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a single-contact provider.
func (r *Registry) Register(p providers.Provider) error {
	id := p.ID()
	if _, exists := r.providers[id]; exists {
		return fmt.Errorf("provider %s already registered", id)
	}
	r.providers[id] = p
	return nil
}

// RegisterBulk adds a bulk relative-search provider.
func (r *Registry) RegisterBulk(p providers.BulkProvider) error {
	id := p.ID()
	if _, exists := r.bulk[id]; exists {
		return fmt.Errorf("bulk provider %s already registered", id)
	}
	r.bulk[id] = p
	return nil
}

// AvailableProviders returns the account's configured providers in
// priority order. An empty selection is legal. A credential lookup failure
// is logged and yields an empty selection for this call only.
func (r *Registry) AvailableProviders(ctx context.Context, accountID string) Selection {
	creds := r.lookup(ctx, accountID)
	sel := Selection{Credentials: creds}
	for _, id := range r.cfg.Priority {
		p, ok := r.providers[id]
		if !ok || !p.Configured(creds) {
			continue
		}
		sel.Providers = append(sel.Providers, p)
	}
	return sel
}

// BulkSources returns the account's configured bulk providers, bound to its
// credentials, in bulk priority order.
func (r *Registry) BulkSources(ctx context.Context, accountID string) []providers.BulkSource {
	creds := r.lookup(ctx, accountID)
	var out []providers.BulkSource
	for _, id := range r.cfg.BulkPriority {
		p, ok := r.bulk[id]
		if !ok || !p.Configured(creds) {
			continue
		}
		out = append(out, providers.Bind(p, creds))
	}
	return out
}

func (r *Registry) lookup(ctx context.Context, accountID string) providers.Credentials {
	if r.creds == nil {
		return providers.Credentials{}
	}
	creds, err := r.creds.Credentials(ctx, accountID)
	if err != nil {
		r.logger.WarnContext(ctx, "credential lookup failed; treating account as unconfigured",
			"account_id", accountID,
			"error", err,
		)
		return providers.Credentials{}
	}
	if creds == nil {
		return providers.Credentials{}
	}
	return creds
}
