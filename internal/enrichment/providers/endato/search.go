package endato

import (
	"context"
	"encoding/json"
	"strings"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
)

// Relative confidence by degree of relation to the decedent.
var degreeConfidence = map[string]float64{
	"1st degree": 0.9,
	"2nd degree": 0.6,
	"3rd degree": 0.4,
}

const unknownDegreeConfidence = 0.3

type searchRequest struct {
	FirstName      string          `json:"FirstName"`
	LastName       string          `json:"LastName"`
	Addresses      []searchAddress `json:"Addresses,omitempty"`
	Page           int             `json:"Page"`
	ResultsPerPage int             `json:"ResultsPerPage"`
}

type searchAddress struct {
	AddressLine1 string `json:"AddressLine1,omitempty"`
	AddressLine2 string `json:"AddressLine2,omitempty"`
}

// SearchRelatives runs one page of person search for the decedent and
// flattens each matched person's relatives into hits.
func (p *Provider) SearchRelatives(ctx context.Context, creds providers.Credentials, q models.PageQuery) (models.Page, error) {
	cred, err := p.credential(creds)
	if err != nil {
		return models.Page{}, err
	}
	first, last := splitName(q.DecedentName, "")
	if first == "" || last == "" {
		return models.Page{}, providers.NewProviderError(providers.KindInvalidRequest, ProviderID, "decedent first and last name required", nil)
	}

	payload := searchRequest{
		FirstName:      first,
		LastName:       last,
		Page:           q.Page,
		ResultsPerPage: q.PageSize,
	}
	if q.County != "" || q.LastKnownAddress != "" {
		payload.Addresses = []searchAddress{{
			AddressLine1: q.LastKnownAddress,
			AddressLine2: q.County,
		}}
	}

	status, body, err := p.post(ctx, cred, personSearchPath, "Person", payload)
	if err != nil {
		return models.Page{}, err
	}
	return parseSearchResponse(status, body, q.DecedentName)
}

type searchResponse struct {
	endatoError
	Persons []struct {
		FullName  string `json:"fullName"`
		Addresses []struct {
			FullAddress string `json:"fullAddress"`
			County      string `json:"county"`
		} `json:"addresses"`
		RelativesSummary []struct {
			FirstName     string `json:"firstName"`
			MiddleName    string `json:"middleName"`
			LastName      string `json:"lastName"`
			RelativeLevel string `json:"relativeLevel"`
			Address       string `json:"address"`
			County        string `json:"county"`
		} `json:"relativesSummary"`
	} `json:"persons"`
	Pagination struct {
		CurrentPageNumber int `json:"currentPageNumber"`
		TotalPages        int `json:"totalPages"`
		TotalResults      int `json:"totalResults"`
	} `json:"pagination"`
}

// parseSearchResponse maps a person-search page onto relative hits. An
// empty or "no match" page is an empty success, not a failure.
func parseSearchResponse(status int, body []byte, query string) (models.Page, error) {
	if status == 404 {
		return models.Page{}, nil
	}
	if status < 200 || status >= 300 {
		return models.Page{}, providers.ClassifyStatus(ProviderID, status, body)
	}
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.Page{}, providers.NewProviderError(providers.KindNetwork, ProviderID, "malformed response body", err)
	}
	if pe := classifyEnvelope(resp.endatoError); pe != nil {
		if pe.Kind == providers.KindNotFound {
			return models.Page{}, nil
		}
		return models.Page{}, pe
	}

	page := models.Page{
		HasMore: resp.Pagination.CurrentPageNumber < resp.Pagination.TotalPages,
		Total:   resp.Pagination.TotalResults,
	}
	for _, person := range resp.Persons {
		var county string
		if len(person.Addresses) > 0 {
			county = person.Addresses[0].County
		}
		for _, rel := range person.RelativesSummary {
			name := strings.Join(strings.Fields(strings.Join([]string{rel.FirstName, rel.MiddleName, rel.LastName}, " ")), " ")
			if name == "" {
				continue
			}
			degree, relation := splitRelativeLevel(rel.RelativeLevel)
			conf, ok := degreeConfidence[degree]
			if !ok {
				conf = unknownDegreeConfidence
			}
			relCounty := rel.County
			if relCounty == "" {
				relCounty = county
			}
			page.Hits = append(page.Hits, models.RelativeHit{
				Name:       name,
				Relation:   relation,
				Confidence: conf,
				Address:    rel.Address,
				County:     relCounty,
				Query:      query,
			})
		}
	}
	return page, nil
}

// splitRelativeLevel parses "1st Degree - Brother" into ("1st degree", "Brother").
func splitRelativeLevel(level string) (string, string) {
	degree, relation, found := strings.Cut(level, "-")
	if !found {
		return strings.ToLower(strings.TrimSpace(level)), "relative"
	}
	relation = strings.TrimSpace(relation)
	if relation == "" {
		relation = "relative"
	}
	return strings.ToLower(strings.TrimSpace(degree)), relation
}
