package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heirfinder/internal/enrichment/models"
	"heirfinder/pkg/platform/sentinel"
)

func sampleResult() models.BulkSearchResult {
	county := "Travis"
	return models.BulkSearchResult{
		Success:      true,
		DecedentName: "Robert Smith",
		SearchCounty: &county,
		TotalFound:   1,
		PotentialHeirs: []models.HeirCandidate{{
			Name:       "Alice Smith",
			Relation:   "Daughter",
			Confidence: 0.9,
			Provenance: []string{"endato:targeted"},
		}},
		SearchTimestamp: "2026-01-02T03:04:05Z",
	}
}

func TestMemoryCacheExpires(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, c.Set(ctx, "k", sampleResult(), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)

	now = now.Add(time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestMemoryCacheSetSweepsExpiredEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	for i := range 1000 {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("search-%d", i), sampleResult(), time.Minute))
	}
	assert.Equal(t, 1000, c.Len())

	now = now.Add(time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", sampleResult(), time.Minute))
	assert.Equal(t, 1, c.Len())

	got, err := c.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, sampleResult(), got)
}

func TestMemoryCacheSweepKeepsLiveEntries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", sampleResult(), time.Minute))
	require.NoError(t, c.Set(ctx, "long", sampleResult(), time.Hour))

	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Set(ctx, "new", sampleResult(), time.Minute))
	assert.Equal(t, 2, c.Len())
	_, err := c.Get(ctx, "long")
	assert.NoError(t, err)
}
