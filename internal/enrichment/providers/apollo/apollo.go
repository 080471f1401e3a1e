// Package apollo adapts the Apollo people-match API, the primary
// single-contact source.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/normalize"
	"heirfinder/internal/enrichment/providers"
)

const (
	ProviderID     models.ProviderID = "apollo"
	DefaultBaseURL                   = "https://api.apollo.io"
	matchPath                        = "/api/v1/people/match"
)

// Provider calls Apollo's people match endpoint.
type Provider struct {
	baseURL string
	caller  *providers.Caller
}

// New creates an Apollo adapter. An empty BaseURL uses the public API.
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
	return ok && strings.TrimSpace(c.APIKey) != ""
}

type matchRequest struct {
	Name                 string `json:"name,omitempty"`
	FirstName            string `json:"first_name,omitempty"`
	LastName             string `json:"last_name,omitempty"`
	Location             string `json:"location,omitempty"`
	RevealPersonalEmails bool   `json:"reveal_personal_emails"`
	RevealPhoneNumber    bool   `json:"reveal_phone_number"`
}

func (p *Provider) AttemptEnrichment(ctx context.Context, creds providers.Credentials, req models.EnrichmentRequest) (models.CanonicalContact, error) {
	cred, ok := creds.For(ProviderID)
	if !ok || cred.APIKey == "" {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindAuth, ProviderID, "no api key configured", nil)
	}

	payload, err := json.Marshal(matchRequest{
		Name:                 req.FullName,
		FirstName:            req.FirstName(),
		LastName:             req.Surname(),
		Location:             location(req),
		RevealPersonalEmails: true,
		RevealPhoneNumber:    true,
	})
	if err != nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindInvalidRequest, ProviderID, "encode request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+matchPath, bytes.NewReader(payload))
	if err != nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindInvalidRequest, ProviderID, "build request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")
	httpReq.Header.Set("X-Api-Key", cred.APIKey)

	status, body, err := p.caller.Do(ctx, httpReq)
	if err != nil {
		return models.CanonicalContact{}, err
	}
	return parseApolloResponse(status, body)
}

func location(req models.EnrichmentRequest) string {
	parts := make([]string, 0, 2)
	if req.County != "" {
		parts = append(parts, req.County)
	}
	if req.State != "" {
		parts = append(parts, req.State)
	}
	return strings.Join(parts, ", ")
}

type apolloResponse struct {
	Person *struct {
		Email          string   `json:"email"`
		EmailStatus    string   `json:"email_status"`
		PersonalEmails []string `json:"personal_emails"`
		PhoneNumbers   []struct {
			RawNumber       string `json:"raw_number"`
			SanitizedNumber string `json:"sanitized_number"`
			Type            string `json:"type"`
		} `json:"phone_numbers"`
		Organization *struct {
			Phone string `json:"phone"`
		} `json:"organization"`
	} `json:"person"`
}

// parseApolloResponse maps a people-match payload onto the canonical
// contact. A null person or a person with no reachable channel is NotFound.
func parseApolloResponse(status int, body []byte) (models.CanonicalContact, error) {
	if status < 200 || status >= 300 {
		return models.CanonicalContact{}, providers.ClassifyStatus(ProviderID, status, body)
	}

	var resp apolloResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNetwork, ProviderID, "malformed response body", err)
	}
	if resp.Person == nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNotFound, ProviderID, "no matching person", nil)
	}

	person := resp.Person
	var contact models.CanonicalContact
	if strings.EqualFold(person.EmailStatus, "verified") {
		contact.VerifiedEmail = normalize.Email(person.Email)
	}
	contact.PersonalEmail = normalize.FirstNonEmpty(normalize.Email, person.PersonalEmails...)

	var mobiles, others []string
	for _, ph := range person.PhoneNumbers {
		num := ph.SanitizedNumber
		if num == "" {
			num = ph.RawNumber
		}
		switch strings.ToLower(ph.Type) {
		case "mobile":
			mobiles = append(mobiles, num)
		default:
			others = append(others, num)
		}
	}
	if person.Organization != nil {
		others = append(others, person.Organization.Phone)
	}
	contact.MobilePhone = normalize.FirstNonEmpty(normalize.Phone, mobiles...)
	contact.WorkPhone = normalize.FirstNonEmpty(normalize.Phone, others...)

	if contact.IsEmpty() {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNotFound, ProviderID, "person matched without contact channels", nil)
	}
	return contact, nil
}
