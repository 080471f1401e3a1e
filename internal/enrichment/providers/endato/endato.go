// Package endato adapts the Endato (Enformion) person APIs. Person search
// backs the bulk heir search; contact enrichment is the last-resort
// single-contact source.
package endato

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
)

const (
	ProviderID     models.ProviderID = "endato"
	DefaultBaseURL                   = "https://devapi.endato.com"

	personSearchPath  = "/PersonSearch"
	contactEnrichPath = "/Contact/Enrich"

	searchTypeHeader = "galaxy-search-type"
)

// Provider uses the account's profile name as APIKey and the profile
// password as Secret.
type Provider struct {
	baseURL string
	caller  *providers.Caller
}

func New(s providers.Settings) *Provider {
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Provider{
		baseURL: base,
		caller:  providers.NewCaller(ProviderID, s),
	}
}

func (p *Provider) ID() models.ProviderID { return ProviderID }

func (p *Provider) Configured(creds providers.Credentials) bool {
	c, ok := creds.For(ProviderID)
	return ok && strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.Secret) != ""
}

func (p *Provider) post(ctx context.Context, cred providers.Credential, path, searchType string, payload any) (int, []byte, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, providers.NewProviderError(providers.KindInvalidRequest, ProviderID, "encode request", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return 0, nil, providers.NewProviderError(providers.KindInvalidRequest, ProviderID, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("galaxy-ap-name", cred.APIKey)
	httpReq.Header.Set("galaxy-ap-password", cred.Secret)
	httpReq.Header.Set(searchTypeHeader, searchType)
	return p.caller.Do(ctx, httpReq)
}

func (p *Provider) credential(creds providers.Credentials) (providers.Credential, error) {
	if !p.Configured(creds) {
		return providers.Credential{}, providers.NewProviderError(providers.KindAuth, ProviderID, "profile name and password required", nil)
	}
	c, _ := creds.For(ProviderID)
	return c, nil
}

// splitName returns first and last name tokens; Endato needs both.
func splitName(full, last string) (string, string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	if last == "" && len(parts) > 1 {
		last = parts[len(parts)-1]
	}
	return parts[0], last
}

// addressLine2 is Endato's free-form "city/county, state" locator.
func addressLine2(county, state string) string {
	parts := make([]string, 0, 2)
	if county != "" {
		parts = append(parts, county)
	}
	if state != "" {
		parts = append(parts, state)
	}
	return strings.Join(parts, ", ")
}

// endatoError is the in-band error envelope Endato returns with HTTP 200.
type endatoError struct {
	IsError bool `json:"isError"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// classifyEnvelope turns an in-band error into a ProviderError.
func classifyEnvelope(env endatoError) *providers.ProviderError {
	if !env.IsError {
		return nil
	}
	msg := ""
	if env.Error != nil {
		msg = env.Error.Message
	}
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "no match") || strings.Contains(lower, "not found"):
		return providers.NewProviderError(providers.KindNotFound, ProviderID, msg, nil)
	case strings.Contains(lower, "unauthorized") || strings.Contains(lower, "invalid access profile"):
		return providers.NewProviderError(providers.KindAuth, ProviderID, msg, nil)
	case strings.Contains(lower, "limit") || strings.Contains(lower, "quota"):
		return providers.NewProviderError(providers.KindRateLimited, ProviderID, msg, nil)
	default:
		return providers.NewProviderError(providers.KindInvalidRequest, ProviderID, msg, nil)
	}
}
