package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"heirfinder/internal/enrichment/credentials"
	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/enrichment/providers"
	"heirfinder/internal/enrichment/providers/mocks"
)

type failingSource struct{}

func (failingSource) Credentials(context.Context, string) (providers.Credentials, error) {
	return nil, errors.New("db down")
}

// keyProvider is configured when its id has an API key.
func keyProvider(ctrl *gomock.Controller, id models.ProviderID) *mocks.MockProvider {
	p := mocks.NewMockProvider(ctrl)
	p.EXPECT().ID().Return(id).AnyTimes()
	p.EXPECT().Configured(gomock.Any()).DoAndReturn(func(creds providers.Credentials) bool {
		c, ok := creds.For(id)
		return ok && c.APIKey != ""
	}).AnyTimes()
	return p
}

func TestAvailableProviders(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	quiet := WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	store := credentials.NewInMemoryStore()
	require.NoError(t, store.Put(ctx, "acct", "pdl", providers.Credential{APIKey: "p"}))
	require.NoError(t, store.Put(ctx, "acct", "apollo", providers.Credential{APIKey: "a"}))

	newRegistry := func(src CredentialSource) *Registry {
		r := New(DefaultConfig(), src, quiet)
		require.NoError(t, r.Register(keyProvider(ctrl, "pdl")))
		require.NoError(t, r.Register(keyProvider(ctrl, "endato")))
		require.NoError(t, r.Register(keyProvider(ctrl, "apollo")))
		return r
	}

	t.Run("priority order and credential filter", func(t *testing.T) {
		sel := newRegistry(store).AvailableProviders(ctx, "acct")
		assert.Equal(t, []models.ProviderID{"apollo", "pdl"}, sel.IDs())
		assert.Equal(t, "a", sel.Credentials["apollo"].APIKey)
	})

	t.Run("recomputed per call", func(t *testing.T) {
		r := newRegistry(store)
		assert.Len(t, r.AvailableProviders(ctx, "acct").Providers, 2)

		require.NoError(t, store.Put(ctx, "acct", "endato", providers.Credential{APIKey: "e"}))
		assert.Equal(t, []models.ProviderID{"apollo", "pdl", "endato"}, r.AvailableProviders(ctx, "acct").IDs())
	})

	t.Run("unknown account gets an empty list", func(t *testing.T) {
		sel := newRegistry(store).AvailableProviders(ctx, "stranger")
		assert.Empty(t, sel.Providers)
	})

	t.Run("credential failure means no providers", func(t *testing.T) {
		sel := newRegistry(failingSource{}).AvailableProviders(ctx, "acct")
		assert.Empty(t, sel.Providers)
		assert.NotNil(t, sel.Credentials)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		r := newRegistry(store)
		assert.Error(t, r.Register(keyProvider(ctrl, "apollo")))
	})
}

func TestBulkSources(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	bulk := mocks.NewMockBulkProvider(ctrl)
	bulk.EXPECT().ID().Return(models.ProviderID("endato")).AnyTimes()
	bulk.EXPECT().Configured(gomock.Any()).DoAndReturn(func(creds providers.Credentials) bool {
		_, ok := creds["endato"]
		return ok
	}).AnyTimes()

	creds := providers.Credentials{"endato": {APIKey: "n", Secret: "s"}}
	r := New(DefaultConfig(), credentials.Static(creds))
	require.NoError(t, r.RegisterBulk(bulk))

	bulk.EXPECT().
		SearchRelatives(gomock.Any(), creds, models.PageQuery{DecedentName: "Robert Hale", Page: 1}).
		Return(models.Page{}, nil)

	sources := r.BulkSources(ctx, "acct")
	require.Len(t, sources, 1)
	_, err := sources[0].SearchRelatives(ctx, models.PageQuery{DecedentName: "Robert Hale", Page: 1})
	require.NoError(t, err)

	empty := New(DefaultConfig(), credentials.NewInMemoryStore())
	require.NoError(t, empty.RegisterBulk(bulk))
	assert.Empty(t, empty.BulkSources(ctx, "acct"))
}
