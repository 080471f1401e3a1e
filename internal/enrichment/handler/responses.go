package handler

import (
	"time"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/models"
)

type AttemptResponse struct {
	ID               string   `json:"id"`
	HeirName         string   `json:"heir_name"`
	DecedentName     string   `json:"decedent_name,omitempty"`
	APIsAttempted    []string `json:"apis_attempted"`
	SuccessfulSource *string  `json:"successful_source"`
	Success          bool     `json:"success"`
	HasPhone         bool     `json:"has_phone"`
	HasEmail         bool     `json:"has_email"`
	RecordedAt       string   `json:"recorded_at"`
}

type ListAttemptsResponse struct {
	Attempts []AttemptResponse `json:"attempts"`
	Count    int               `json:"count"`
}

func toListResponse(records []models.AttemptRecord) ListAttemptsResponse {
	out := ListAttemptsResponse{Attempts: make([]AttemptResponse, 0, len(records))}
	for _, rec := range records {
		var source *string
		if rec.SuccessfulSource != nil {
			s := rec.SuccessfulSource.String()
			source = &s
		}
		out.Attempts = append(out.Attempts, AttemptResponse{
			ID:               rec.ID,
			HeirName:         rec.HeirName,
			DecedentName:     rec.DecedentName,
			APIsAttempted:    attempts.ProviderStrings(rec.APIsAttempted),
			SuccessfulSource: source,
			Success:          rec.Success,
			HasPhone:         rec.HasPhone,
			HasEmail:         rec.HasEmail,
			RecordedAt:       rec.RecordedAt.UTC().Format(time.RFC3339),
		})
	}
	out.Count = len(out.Attempts)
	return out
}
