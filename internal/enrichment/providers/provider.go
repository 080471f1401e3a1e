// Package providers defines the adapter contract for external contact-data
// sources and the plumbing they share: the failure taxonomy, credential
// shapes, and a rate-limited HTTP caller that classifies transport failures.
package providers

import (
	"context"

	"heirfinder/internal/enrichment/models"
)

// Credential is one provider's API key material for an account.
type Credential struct {
	APIKey string
	// Secret is used by providers that authenticate with a key pair.
	Secret string
}

// Credentials maps provider ids to the account's keys.
type Credentials map[models.ProviderID]Credential

// For returns the credential for one provider.
func (c Credentials) For(id models.ProviderID) (Credential, bool) {
	cred, ok := c[id]
	return cred, ok
}

// Provider is the single capability every contact source implements.
type Provider interface {
	// ID returns the stable provider identifier used in results and audit rows.
	ID() models.ProviderID

	// Configured reports, without any network call, whether creds carry what
	// this provider needs.
	Configured(creds Credentials) bool

	// AttemptEnrichment makes exactly one outbound call and returns a
	// normalized contact or a *ProviderError. It never retries.
	AttemptEnrichment(ctx context.Context, creds Credentials, req models.EnrichmentRequest) (models.CanonicalContact, error)
}

// BulkProvider searches for many candidate relatives of a decedent.
type BulkProvider interface {
	ID() models.ProviderID
	Configured(creds Credentials) bool
	SearchRelatives(ctx context.Context, creds Credentials, q models.PageQuery) (models.Page, error)
}

// BulkSource is a BulkProvider already bound to one account's credentials.
type BulkSource interface {
	ID() models.ProviderID
	SearchRelatives(ctx context.Context, q models.PageQuery) (models.Page, error)
}

// Bind attaches creds to a bulk provider.
func Bind(p BulkProvider, creds Credentials) BulkSource {
	return boundSource{provider: p, creds: creds}
}

type boundSource struct {
	provider BulkProvider
	creds    Credentials
}

func (b boundSource) ID() models.ProviderID { return b.provider.ID() }

func (b boundSource) SearchRelatives(ctx context.Context, q models.PageQuery) (models.Page, error) {
	return b.provider.SearchRelatives(ctx, b.creds, q)
}
