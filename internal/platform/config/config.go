package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr            string
	LogLevel        string
	LogFormat       string
	JWTSigningKey   string
	JWTIssuer       string
	JWTAudience     string
	DatabaseURL     string
	ProvidersFile   string
	ShutdownTimeout time.Duration

	Redis    RedisConfig
	Kafka    KafkaConfig
	Attempts AttemptsConfig
}

type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the attempt stream when Brokers is non-empty.
type KafkaConfig struct {
	Brokers       []string
	AttemptsTopic string
	ConsumerGroup string
}

type AttemptsConfig struct {
	BufferSize   int
	HeirCacheTTL time.Duration
	// ConsumeInline runs the Kafka to Postgres materializer inside the server.
	ConsumeInline bool
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() Server {
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// development default, override in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	return Server{
		Addr:            envOr("HEIRFINDER_ADDR", ":8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		LogFormat:       envOr("LOG_FORMAT", "json"),
		JWTSigningKey:   jwtSigningKey,
		JWTIssuer:       envOr("JWT_ISSUER", "heirfinder"),
		JWTAudience:     envOr("JWT_AUDIENCE", "heirfinder-api"),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		ProvidersFile:   os.Getenv("PROVIDERS_FILE"),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(os.Getenv("KAFKA_BROKERS")),
			AttemptsTopic: envOr("KAFKA_ATTEMPTS_TOPIC", "heirfinder.enrichment.attempts"),
			ConsumerGroup: envOr("KAFKA_ATTEMPTS_GROUP", "heirfinder-attempts-writer"),
		},
		Attempts: AttemptsConfig{
			BufferSize:    envInt("ATTEMPT_BUFFER_SIZE", 1024),
			HeirCacheTTL:  envDuration("HEIR_SEARCH_CACHE_TTL", 15*time.Minute),
			ConsumeInline: os.Getenv("ATTEMPTS_CONSUME_INLINE") != "false",
		},
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return n
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil && d > 0 {
		return d
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
