// Package models holds the canonical shapes exchanged by the enrichment
// waterfall: the request, the provider-agnostic contact, the result, and the
// attempt record written for ROI accounting. No behavior beyond validation
// and small predicates lives here.
package models

import (
	"strings"
	"time"

	dErrors "heirfinder/pkg/domain-errors"
)

// ProviderID names a contact-data provider ("apollo", "pdl", ...).
type ProviderID string

func (p ProviderID) String() string { return string(p) }

// EnrichmentRequest identifies one person to enrich. Treat it as a read-only
// query key once validated.
type EnrichmentRequest struct {
	FullName         string
	LastName         string
	County           string
	State            string
	DecedentName     string
	PossibleRelation string
}

// Validate trims every field and rejects a blank FullName.
func (r EnrichmentRequest) Validate() (EnrichmentRequest, error) {
	out := EnrichmentRequest{
		FullName:         strings.TrimSpace(r.FullName),
		LastName:         strings.TrimSpace(r.LastName),
		County:           strings.TrimSpace(r.County),
		State:            strings.TrimSpace(r.State),
		DecedentName:     strings.TrimSpace(r.DecedentName),
		PossibleRelation: strings.TrimSpace(r.PossibleRelation),
	}
	if out.FullName == "" {
		return EnrichmentRequest{}, dErrors.New(dErrors.CodeInvalidRequest, "full_name is required")
	}
	return out, nil
}

// FirstName is the leading token of FullName.
func (r EnrichmentRequest) FirstName() string {
	parts := strings.Fields(r.FullName)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

// Surname prefers the explicit LastName and falls back to the trailing token
// of FullName.
func (r EnrichmentRequest) Surname() string {
	if r.LastName != "" {
		return r.LastName
	}
	parts := strings.Fields(r.FullName)
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-1]
}

// CanonicalContact is the normalized contact regardless of origin provider.
// Each field is checked for sufficiency independently.
type CanonicalContact struct {
	VerifiedEmail string `json:"verified_email,omitempty"`
	PersonalEmail string `json:"personal_email,omitempty"`
	MobilePhone   string `json:"mobile_phone,omitempty"`
	WorkPhone     string `json:"work_phone,omitempty"`
}

// ContactField enumerates the canonical fields in merge order.
type ContactField int

const (
	FieldVerifiedEmail ContactField = iota
	FieldPersonalEmail
	FieldMobilePhone
	FieldWorkPhone
)

// ContactFields lists every canonical field.
var ContactFields = []ContactField{FieldVerifiedEmail, FieldPersonalEmail, FieldMobilePhone, FieldWorkPhone}

func (f ContactField) String() string {
	switch f {
	case FieldVerifiedEmail:
		return "verified_email"
	case FieldPersonalEmail:
		return "personal_email"
	case FieldMobilePhone:
		return "mobile_phone"
	case FieldWorkPhone:
		return "work_phone"
	default:
		return "unknown"
	}
}

// Get returns the value of one canonical field.
func (c CanonicalContact) Get(f ContactField) string {
	switch f {
	case FieldVerifiedEmail:
		return c.VerifiedEmail
	case FieldPersonalEmail:
		return c.PersonalEmail
	case FieldMobilePhone:
		return c.MobilePhone
	case FieldWorkPhone:
		return c.WorkPhone
	default:
		return ""
	}
}

// With returns a copy with one field set.
func (c CanonicalContact) With(f ContactField, v string) CanonicalContact {
	switch f {
	case FieldVerifiedEmail:
		c.VerifiedEmail = v
	case FieldPersonalEmail:
		c.PersonalEmail = v
	case FieldMobilePhone:
		c.MobilePhone = v
	case FieldWorkPhone:
		c.WorkPhone = v
	}
	return c
}

func (c CanonicalContact) HasEmail() bool {
	return c.VerifiedEmail != "" || c.PersonalEmail != ""
}

func (c CanonicalContact) HasPhone() bool {
	return c.MobilePhone != "" || c.WorkPhone != ""
}

// IsEmpty reports whether no channel was recovered.
func (c CanonicalContact) IsEmpty() bool {
	return !c.HasEmail() && !c.HasPhone()
}

// EnrichmentResult is produced exactly once per waterfall run and handed to
// the caller. APIsAttempted is never nil so it serializes as [].
type EnrichmentResult struct {
	Success       bool              `json:"success"`
	Source        *ProviderID       `json:"source"`
	APIsAttempted []ProviderID      `json:"apis_attempted"`
	Contact       *CanonicalContact `json:"contact"`
}

// AttemptRecord is the audit row for one waterfall run.
type AttemptRecord struct {
	ID               string
	RequesterID      string
	HeirName         string
	DecedentName     string
	APIsAttempted    []ProviderID
	SuccessfulSource *ProviderID
	Success          bool
	HasPhone         bool
	HasEmail         bool
	RecordedAt       time.Time
}

// NewAttemptRecord derives the audit row from a finished result.
func NewAttemptRecord(id, requesterID string, req EnrichmentRequest, result EnrichmentResult, at time.Time) AttemptRecord {
	rec := AttemptRecord{
		ID:            id,
		RequesterID:   requesterID,
		HeirName:      req.FullName,
		DecedentName:  req.DecedentName,
		APIsAttempted: append([]ProviderID{}, result.APIsAttempted...),
		Success:       result.Success,
		RecordedAt:    at,
	}
	if result.Source != nil {
		src := *result.Source
		rec.SuccessfulSource = &src
	}
	if result.Contact != nil {
		rec.HasPhone = result.Contact.HasPhone()
		rec.HasEmail = result.Contact.HasEmail()
	}
	return rec
}
