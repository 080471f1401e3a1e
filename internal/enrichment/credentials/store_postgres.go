package credentials

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
)

// PostgresStore reads provider_credentials rows through a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the credentials table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS provider_credentials (
  account_id  text NOT NULL,
  provider_id text NOT NULL,
  api_key     text NOT NULL,
  secret      text NOT NULL DEFAULT '',
  updated_at  timestamptz NOT NULL DEFAULT now(),
  PRIMARY KEY (account_id, provider_id)
);`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure provider_credentials: %w", err)
	}
	return nil
}

func (s *PostgresStore) Put(ctx context.Context, accountID string, id models.ProviderID, cred providers.Credential) error {
	_, err := s.pool.Exec(ctx, `
INSERT INTO provider_credentials (account_id, provider_id, api_key, secret)
VALUES ($1, $2, $3, $4)
ON CONFLICT (account_id, provider_id)
DO UPDATE SET api_key = EXCLUDED.api_key, secret = EXCLUDED.secret, updated_at = now()`,
		accountID, string(id), cred.APIKey, cred.Secret)
	if err != nil {
		return fmt.Errorf("put credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) Credentials(ctx context.Context, accountID string) (providers.Credentials, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT provider_id, api_key, secret FROM provider_credentials WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, fmt.Errorf("query credentials: %w", err)
	}
	defer rows.Close()

	creds := providers.Credentials{}
	for rows.Next() {
		var id string
		var cred providers.Credential
		if err := rows.Scan(&id, &cred.APIKey, &cred.Secret); err != nil {
			return nil, fmt.Errorf("scan credential: %w", err)
		}
		creds[models.ProviderID(id)] = cred
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate credentials: %w", err)
	}
	return creds, nil
}
