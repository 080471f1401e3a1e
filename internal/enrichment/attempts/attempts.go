// Package attempts records one row per enrichment run for cost and ROI
// accounting. Writes are best-effort: the Publisher never reports failure to
// its caller, but every failed or dropped write leaves a log line.
package attempts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"heirfinder/internal/enrichment/models"
)

// Sink accepts attempt record writes.
type Sink interface {
	Append(ctx context.Context, rec models.AttemptRecord) error
}

// Store is a Sink that can also be read back for the ROI view.
type Store interface {
	Sink
	ListByRequester(ctx context.Context, requesterID string, limit int) ([]models.AttemptRecord, error)
	ListRecent(ctx context.Context, limit int) ([]models.AttemptRecord, error)
}

// DefaultListLimit applies when a caller passes limit <= 0.
const DefaultListLimit = 50

// MaxListLimit caps list queries.
const MaxListLimit = 500

// ClampLimit applies the list defaults.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// payload is the persisted/wire shape of an attempt record.
type payload struct {
	ID               string   `json:"id"`
	RequesterID      string   `json:"requester_id"`
	HeirName         string   `json:"heir_name"`
	DecedentName     string   `json:"decedent_name"`
	APIsAttempted    []string `json:"apis_attempted"`
	SuccessfulSource *string  `json:"successful_source"`
	Success          bool     `json:"success"`
	HasPhone         bool     `json:"has_phone"`
	HasEmail         bool     `json:"has_email"`
	RecordedAt       string   `json:"recorded_at"`
}

// Encode serializes a record for message transports.
func Encode(rec models.AttemptRecord) ([]byte, error) {
	p := payload{
		ID:            rec.ID,
		RequesterID:   rec.RequesterID,
		HeirName:      rec.HeirName,
		DecedentName:  rec.DecedentName,
		APIsAttempted: ProviderStrings(rec.APIsAttempted),
		Success:       rec.Success,
		HasPhone:      rec.HasPhone,
		HasEmail:      rec.HasEmail,
		RecordedAt:    rec.RecordedAt.UTC().Format(time.RFC3339Nano),
	}
	if rec.SuccessfulSource != nil {
		src := rec.SuccessfulSource.String()
		p.SuccessfulSource = &src
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode attempt record: %w", err)
	}
	return b, nil
}

// Decode parses a record produced by Encode.
func Decode(b []byte) (models.AttemptRecord, error) {
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return models.AttemptRecord{}, fmt.Errorf("decode attempt record: %w", err)
	}
	rec := models.AttemptRecord{
		ID:            p.ID,
		RequesterID:   p.RequesterID,
		HeirName:      p.HeirName,
		DecedentName:  p.DecedentName,
		APIsAttempted: ProviderIDs(p.APIsAttempted),
		Success:       p.Success,
		HasPhone:      p.HasPhone,
		HasEmail:      p.HasEmail,
	}
	if p.SuccessfulSource != nil {
		src := models.ProviderID(*p.SuccessfulSource)
		rec.SuccessfulSource = &src
	}
	if p.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339Nano, p.RecordedAt)
		if err != nil {
			return models.AttemptRecord{}, fmt.Errorf("decode attempt record time: %w", err)
		}
		rec.RecordedAt = t
	}
	return rec, nil
}

func ProviderStrings(ids []models.ProviderID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func ProviderIDs(ss []string) []models.ProviderID {
	out := make([]models.ProviderID, len(ss))
	for i, s := range ss {
		out[i] = models.ProviderID(s)
	}
	return out
}
