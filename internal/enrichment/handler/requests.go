package handler

import (
	"strings"

	"heirfinder/internal/enrichment/models"
	dErrors "heirfinder/pkg/domain-errors"
)

type EnrichContactRequest struct {
	FullName         string `json:"full_name"`
	LastName         string `json:"last_name,omitempty"`
	County           string `json:"county,omitempty"`
	State            string `json:"state,omitempty"`
	DecedentName     string `json:"decedent_name,omitempty"`
	PossibleRelation string `json:"possible_relation,omitempty"`
}

func (r *EnrichContactRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	if r.FullName == "" {
		return dErrors.New(dErrors.CodeInvalidRequest, "full_name is required")
	}
	if len(r.FullName) > 200 || len(r.DecedentName) > 200 {
		return dErrors.New(dErrors.CodeInvalidRequest, "names must be at most 200 characters")
	}
	return nil
}

func (r *EnrichContactRequest) ToModel() models.EnrichmentRequest {
	return models.EnrichmentRequest{
		FullName:         r.FullName,
		LastName:         r.LastName,
		County:           r.County,
		State:            stateCode(r.State),
		DecedentName:     r.DecedentName,
		PossibleRelation: r.PossibleRelation,
	}
}

var stateCodes = map[string]string{
	"alabama": "AL", "alaska": "AK", "arizona": "AZ", "arkansas": "AR", "california": "CA",
	"colorado": "CO", "connecticut": "CT", "delaware": "DE", "district of columbia": "DC",
	"florida": "FL", "georgia": "GA", "hawaii": "HI", "idaho": "ID", "illinois": "IL",
	"indiana": "IN", "iowa": "IA", "kansas": "KS", "kentucky": "KY", "louisiana": "LA",
	"maine": "ME", "maryland": "MD", "massachusetts": "MA", "michigan": "MI", "minnesota": "MN",
	"mississippi": "MS", "missouri": "MO", "montana": "MT", "nebraska": "NE", "nevada": "NV",
	"new hampshire": "NH", "new jersey": "NJ", "new mexico": "NM", "new york": "NY",
	"north carolina": "NC", "north dakota": "ND", "ohio": "OH", "oklahoma": "OK", "oregon": "OR",
	"pennsylvania": "PA", "rhode island": "RI", "south carolina": "SC", "south dakota": "SD",
	"tennessee": "TN", "texas": "TX", "utah": "UT", "vermont": "VT", "virginia": "VA",
	"washington": "WA", "west virginia": "WV", "wisconsin": "WI", "wyoming": "WY",
}

// stateCode maps full US state names to postal codes and uppercases
// two-letter input. Anything else is passed through trimmed.
func stateCode(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if len(s) == 2 {
		return strings.ToUpper(s)
	}
	if code, ok := stateCodes[strings.ToLower(s)]; ok {
		return code
	}
	return s
}
