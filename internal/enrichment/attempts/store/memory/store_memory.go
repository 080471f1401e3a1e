package memory

import (
	"context"
	"sync"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/models"
)

// InMemoryStore keeps attempt records in append order.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []models.AttemptRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, rec models.AttemptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec.APIsAttempted = append([]models.ProviderID{}, rec.APIsAttempted...)
	s.records = append(s.records, rec)
	return nil
}

// ListByRequester returns the requester's records, most recent first.
func (s *InMemoryStore) ListByRequester(_ context.Context, requesterID string, limit int) ([]models.AttemptRecord, error) {
	limit = attempts.ClampLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AttemptRecord, 0)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if s.records[i].RequesterID == requesterID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}

// ListRecent returns the most recent records across requesters.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]models.AttemptRecord, error) {
	limit = attempts.ClampLimit(limit)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AttemptRecord, 0, min(limit, len(s.records)))
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[i])
	}
	return out, nil
}

// Clear drops every record.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
}
