package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/models"
)

// Store persists attempt records in the enrichment_attempts table.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the table and its lookup index when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS enrichment_attempts (
  id                uuid PRIMARY KEY,
  requester_id      text NOT NULL,
  heir_name         text NOT NULL,
  decedent_name     text NOT NULL DEFAULT '',
  apis_attempted    text[] NOT NULL DEFAULT '{}',
  successful_source text,
  success           boolean NOT NULL,
  has_phone         boolean NOT NULL,
  has_email         boolean NOT NULL,
  recorded_at       timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS enrichment_attempts_requester_idx
  ON enrichment_attempts (requester_id, recorded_at DESC);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure enrichment_attempts: %w", err)
	}
	return nil
}

// Append inserts a record. Re-delivered records (same id) are ignored.
func (s *Store) Append(ctx context.Context, rec models.AttemptRecord) error {
	var source sql.NullString
	if rec.SuccessfulSource != nil {
		source = sql.NullString{String: rec.SuccessfulSource.String(), Valid: true}
	}
	query := `
		INSERT INTO enrichment_attempts (
			id, requester_id, heir_name, decedent_name, apis_attempted,
			successful_source, success, has_phone, has_email, recorded_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID,
		rec.RequesterID,
		rec.HeirName,
		rec.DecedentName,
		pq.Array(attempts.ProviderStrings(rec.APIsAttempted)),
		source,
		rec.Success,
		rec.HasPhone,
		rec.HasEmail,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt record: %w", err)
	}
	return nil
}

const selectColumns = `id, requester_id, heir_name, decedent_name, apis_attempted,
	successful_source, success, has_phone, has_email, recorded_at`

func (s *Store) ListByRequester(ctx context.Context, requesterID string, limit int) ([]models.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM enrichment_attempts
		 WHERE requester_id = $1 ORDER BY recorded_at DESC LIMIT $2`,
		requesterID, attempts.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list attempts by requester: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]models.AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM enrichment_attempts ORDER BY recorded_at DESC LIMIT $1`,
		attempts.ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list recent attempts: %w", err)
	}
	return scanRecords(rows)
}

func scanRecords(rows *sql.Rows) ([]models.AttemptRecord, error) {
	defer rows.Close()
	out := make([]models.AttemptRecord, 0)
	for rows.Next() {
		var (
			rec       models.AttemptRecord
			attempted []string
			source    sql.NullString
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.RequesterID,
			&rec.HeirName,
			&rec.DecedentName,
			pq.Array(&attempted),
			&source,
			&rec.Success,
			&rec.HasPhone,
			&rec.HasEmail,
			&rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt record: %w", err)
		}
		rec.APIsAttempted = attempts.ProviderIDs(attempted)
		if source.Valid {
			src := models.ProviderID(source.String)
			rec.SuccessfulSource = &src
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempt records: %w", err)
	}
	return out, nil
}
