//go:build integration

package credentials

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"heirfinder/internal/enrichment/providers"
	"heirfinder/pkg/testutil/containers"
)

type PostgresCredentialSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	pool  *pgxpool.Pool
	store *PostgresStore
}

func TestPostgresCredentialSuite(t *testing.T) {
	suite.Run(t, new(PostgresCredentialSuite))
}

func (s *PostgresCredentialSuite) SetupSuite() {
	ctx := context.Background()
	s.pg = containers.GetManager().GetPostgres(s.T())
	pool, err := pgxpool.New(ctx, s.pg.DSN)
	s.Require().NoError(err)
	s.pool = pool
	s.store = NewPostgresStore(pool)
	s.Require().NoError(s.store.EnsureSchema(ctx))
}

func (s *PostgresCredentialSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresCredentialSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateTables(context.Background(), "provider_credentials"))
}

func (s *PostgresCredentialSuite) TestPutAndRead() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "acct", "apollo", providers.Credential{APIKey: "a1"}))
	s.Require().NoError(s.store.Put(ctx, "acct", "endato", providers.Credential{APIKey: "profile", Secret: "pw"}))
	s.Require().NoError(s.store.Put(ctx, "other", "pdl", providers.Credential{APIKey: "p"}))

	creds, err := s.store.Credentials(ctx, "acct")
	s.Require().NoError(err)
	s.Equal(providers.Credentials{
		"apollo": {APIKey: "a1"},
		"endato": {APIKey: "profile", Secret: "pw"},
	}, creds)
}

func (s *PostgresCredentialSuite) TestPutOverwrites() {
	ctx := context.Background()
	s.Require().NoError(s.store.Put(ctx, "acct", "apollo", providers.Credential{APIKey: "old"}))
	s.Require().NoError(s.store.Put(ctx, "acct", "apollo", providers.Credential{APIKey: "new"}))

	creds, err := s.store.Credentials(ctx, "acct")
	s.Require().NoError(err)
	s.Equal("new", creds["apollo"].APIKey)
}

func (s *PostgresCredentialSuite) TestUnknownAccountIsEmpty() {
	creds, err := s.store.Credentials(context.Background(), "nobody")
	s.Require().NoError(err)
	s.Empty(creds)
}
