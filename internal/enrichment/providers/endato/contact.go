package endato

import (
	"context"
	"encoding/json"
	"strings"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/normalize"
	"heirfinder/internal/enrichment/providers"
)

type enrichRequest struct {
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
	Address   struct {
		AddressLine2 string `json:"addressLine2,omitempty"`
	} `json:"Address"`
}

// AttemptEnrichment queries contact enrichment. A name without a surname
// cannot be expressed to Endato and fails as InvalidRequest without a call.
func (p *Provider) AttemptEnrichment(ctx context.Context, creds providers.Credentials, req models.EnrichmentRequest) (models.CanonicalContact, error) {
	cred, err := p.credential(creds)
	if err != nil {
		return models.CanonicalContact{}, err
	}
	first, last := splitName(req.FullName, req.LastName)
	if first == "" || last == "" {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindInvalidRequest, ProviderID, "first and last name required", nil)
	}

	payload := enrichRequest{FirstName: first, LastName: last}
	payload.Address.AddressLine2 = addressLine2(req.County, req.State)

	status, body, err := p.post(ctx, cred, contactEnrichPath, "DevAPIContactEnrich", payload)
	if err != nil {
		return models.CanonicalContact{}, err
	}
	return parseEnrichResponse(status, body)
}

type enrichResponse struct {
	endatoError
	Person *struct {
		Emails []struct {
			Email       string `json:"email"`
			IsValidated bool   `json:"isValidated"`
			IsBusiness  bool   `json:"isBusiness"`
		} `json:"emails"`
		Phones []struct {
			Number string `json:"number"`
			Type   string `json:"type"`
		} `json:"phones"`
	} `json:"person"`
}

func parseEnrichResponse(status int, body []byte) (models.CanonicalContact, error) {
	if status < 200 || status >= 300 {
		return models.CanonicalContact{}, providers.ClassifyStatus(ProviderID, status, body)
	}
	var resp enrichResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNetwork, ProviderID, "malformed response body", err)
	}
	if pe := classifyEnvelope(resp.endatoError); pe != nil {
		return models.CanonicalContact{}, pe
	}
	if resp.Person == nil {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNotFound, ProviderID, "no matching person", nil)
	}

	var verified, personal, mobile, other []string
	for _, e := range resp.Person.Emails {
		switch {
		case e.IsValidated:
			verified = append(verified, e.Email)
		case !e.IsBusiness:
			personal = append(personal, e.Email)
		}
	}
	for _, ph := range resp.Person.Phones {
		if strings.EqualFold(ph.Type, "mobile") || strings.EqualFold(ph.Type, "wireless") {
			mobile = append(mobile, ph.Number)
			continue
		}
		other = append(other, ph.Number)
	}

	contact := models.CanonicalContact{
		VerifiedEmail: normalize.FirstNonEmpty(normalize.Email, verified...),
		PersonalEmail: normalize.FirstNonEmpty(normalize.Email, personal...),
		MobilePhone:   normalize.FirstNonEmpty(normalize.Phone, mobile...),
		WorkPhone:     normalize.FirstNonEmpty(normalize.Phone, other...),
	}
	if contact.IsEmpty() {
		return models.CanonicalContact{}, providers.NewProviderError(providers.KindNotFound, ProviderID, "person matched without contact channels", nil)
	}
	return contact, nil
}
