// Package pdl adapts the People Data Labs person-enrichment API, the
// fallback single-contact source.
package pdl

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/normalize"
	"heirfinder/internal/enrichment/providers"
)

const (
	ProviderID     models.ProviderID = "pdl"
	DefaultBaseURL                   = "https://api.peopledatalabs.com"
	enrichPath                       = "/v5/person/enrich"

	// minLikelihood is the lowest match score PDL should return.
	minLikelihood = "6"
)

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
	return ok && strings.TrimSpace(c.APIKey) != ""
}

func (p *Provider) AttemptEnrichment(ctx context.Context, creds providers.Credentials, req models.EnrichmentRequest) (models.CanonicalContact, error) {
	cred, ok := creds.For(ProviderID)
	if !ok || cred.APIKey == "" {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindAuth, ProviderID, "no api key configured", nil)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+enrichPath+"?"+query(req).Encode(), nil)
	if err != nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindInvalidRequest, ProviderID, "build request", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Api-Key", cred.APIKey)

	status, body, err := p.caller.Do(ctx, httpReq)
	if err != nil {
		return models.CanonicalContact{}, err
	}
	return parsePDLResponse(status, body)
}

func query(req models.EnrichmentRequest) url.Values {
	q := url.Values{}
	q.Set("name", req.FullName)
	if first := req.FirstName(); first != "" {
		q.Set("first_name", first)
	}
	if last := req.Surname(); last != "" {
		q.Set("last_name", last)
	}
	if req.State != "" {
		q.Set("region", req.State)
	}
	if req.County != "" {
		q.Set("locality", req.County)
	}
	q.Set("min_likelihood", minLikelihood)
	return q
}

type pdlResponse struct {
	Status int `json:"status"`
	Data   *struct {
		WorkEmail      string   `json:"work_email"`
		PersonalEmails []string `json:"personal_emails"`
		Emails         []struct {
			Address string `json:"address"`
			Type    string `json:"type"`
		} `json:"emails"`
		MobilePhone  string   `json:"mobile_phone"`
		PhoneNumbers []string `json:"phone_numbers"`
	} `json:"data"`
}

// parsePDLResponse maps a person-enrich payload. PDL reports misses both as
// HTTP 404 and as a 200 envelope carrying status 404.
func parsePDLResponse(status int, body []byte) (models.CanonicalContact, error) {
	if status < 200 || status >= 300 {
		return models.CanonicalContact{}, providers.ClassifyStatus(ProviderID, status, body)
	}

	var resp pdlResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNetwork, ProviderID, "malformed response body", err)
	}
	if resp.Status != 0 && (resp.Status < 200 || resp.Status >= 300) {
		return models.CanonicalContact{}, providers.ClassifyStatus(ProviderID, resp.Status, nil)
	}
	if resp.Data == nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNotFound, ProviderID, "no matching person", nil)
	}

	data := resp.Data
	work := []string{data.WorkEmail}
	personal := append([]string{}, data.PersonalEmails...)
	for _, e := range data.Emails {
		switch strings.ToLower(e.Type) {
		case "personal":
			personal = append(personal, e.Address)
		case "professional", "current_professional":
			work = append(work, e.Address)
		}
	}

	var contact models.CanonicalContact
	// PDL does not verify deliverability; professional addresses stand in for
	// the verified slot.
	contact.VerifiedEmail = normalize.FirstNonEmpty(normalize.Email, work...)
	contact.PersonalEmail = normalize.FirstNonEmpty(normalize.Email, personal...)
	contact.MobilePhone = normalize.Phone(data.MobilePhone)
	for _, ph := range data.PhoneNumbers {
		if n := normalize.Phone(ph); n != "" && n != contact.MobilePhone {
			contact.WorkPhone = n
			break
		}
	}

	if contact.IsEmpty() {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNotFound, ProviderID, "person matched without contact channels", nil)
	}
	return contact, nil
}
