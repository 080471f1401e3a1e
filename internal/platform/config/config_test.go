package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("HEIRFINDER_ADDR", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("ATTEMPT_BUFFER_SIZE", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 1024, cfg.Attempts.BufferSize)
	assert.Equal(t, 15*time.Minute, cfg.Attempts.HeirCacheTTL)
	assert.NotEmpty(t, cfg.JWTSigningKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("HEIRFINDER_ADDR", ":9090")
	t.Setenv("KAFKA_BROKERS", " broker-a:9092, ,broker-b:9092")
	t.Setenv("ATTEMPT_BUFFER_SIZE", "64")
	t.Setenv("HEIR_SEARCH_CACHE_TTL", "2m")
	t.Setenv("REDIS_POOL_SIZE", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, []string{"broker-a:9092", "broker-b:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 64, cfg.Attempts.BufferSize)
	assert.Equal(t, 2*time.Minute, cfg.Attempts.HeirCacheTTL)
	assert.Equal(t, 10, cfg.Redis.PoolSize)
}

func TestParseProviders(t *testing.T) {
	cfg, err := ParseProviders([]byte(`
priority: [pdl, apollo]
call_timeout: 4s
retry:
  max_retries: 1
  backoff: 250ms
providers:
  Apollo:
    base_url: http://apollo.local
    rps: 2.5
    burst: 3
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"pdl", "apollo"}, cfg.Priority)
	assert.Equal(t, []string{"endato"}, cfg.BulkPriority)
	assert.Equal(t, 4*time.Second, cfg.CallTimeout)
	assert.Equal(t, RetryPolicy{MaxRetries: 1, Backoff: 250 * time.Millisecond}, cfg.Retry)
	assert.Equal(t, ProviderSettings{BaseURL: "http://apollo.local", RPS: 2.5, Burst: 3}, cfg.Settings("apollo"))
	assert.Zero(t, cfg.Settings("pdl"))
}

func TestParseProvidersRejectsBadInput(t *testing.T) {
	_, err := ParseProviders([]byte("priority: {"))
	assert.Error(t, err)

	_, err = ParseProviders([]byte("providers:\n  pdl:\n    rps: -1\n"))
	assert.Error(t, err)
}

func TestLoadProviders(t *testing.T) {
	cfg, err := LoadProviders("")
	require.NoError(t, err)
	assert.Equal(t, DefaultProviders(), cfg)

	cfg, err = LoadProviders(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultProviders().Priority, cfg.Priority)

	path := filepath.Join(t.TempDir(), "providers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bulk_priority: [endato, other]\n"), 0o600))
	cfg, err = LoadProviders(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"endato", "other"}, cfg.BulkPriority)
}
