package models

import (
	"strings"

	dErrors "heirfinder/pkg/domain-errors"
)

const (
	DefaultMaxResults = 10
	MaxMaxResults     = 50
)

// BulkSearchRequest asks for candidate heirs of one decedent.
type BulkSearchRequest struct {
	DecedentName     string
	County           string
	LastKnownAddress string
	MaxResults       int
}

// Normalize trims fields and clamps MaxResults into [1, MaxMaxResults],
// defaulting to DefaultMaxResults when unset.
func (r BulkSearchRequest) Normalize() (BulkSearchRequest, error) {
	out := BulkSearchRequest{
		DecedentName:     strings.TrimSpace(r.DecedentName),
		County:           strings.TrimSpace(r.County),
		LastKnownAddress: strings.TrimSpace(r.LastKnownAddress),
		MaxResults:       r.MaxResults,
	}
	switch {
	case out.MaxResults <= 0:
		out.MaxResults = DefaultMaxResults
	case out.MaxResults > MaxMaxResults:
		out.MaxResults = MaxMaxResults
	}
	if out.DecedentName == "" {
		return out, dErrors.New(dErrors.CodeInvalidRequest, "decedentName is required")
	}
	return out, nil
}

// PageQuery is one page of a bulk relative search against a provider.
type PageQuery struct {
	DecedentName     string
	County           string
	LastKnownAddress string
	Page             int
	PageSize         int
}

// RelativeHit is one raw match as returned by a bulk provider, before
// normalization and deduplication.
type RelativeHit struct {
	Name       string
	Relation   string
	Confidence float64
	Address    string
	County     string
	Query      string
}

// Page is one page of hits plus whether more pages exist.
type Page struct {
	Hits    []RelativeHit
	HasMore bool
	Total   int
}

// HeirCandidate is one deduplicated row of a bulk search response.
type HeirCandidate struct {
	Name       string   `json:"name"`
	Relation   string   `json:"relation"`
	Confidence float64  `json:"confidence"`
	Address    string   `json:"address,omitempty"`
	County     string   `json:"county,omitempty"`
	Provenance []string `json:"provenance"`
}

// BulkSearchResult has the same shape on success and on failure; callers
// tell them apart by Success and Error only.
type BulkSearchResult struct {
	Success         bool            `json:"success"`
	DecedentName    string          `json:"decedent_name"`
	SearchCounty    *string         `json:"search_county"`
	TotalFound      int             `json:"total_found"`
	PotentialHeirs  []HeirCandidate `json:"potential_heirs"`
	SearchTimestamp string          `json:"search_timestamp"`
	Error           string          `json:"error,omitempty"`
}
