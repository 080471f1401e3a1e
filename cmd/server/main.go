package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"

	"heirfinder/internal/enrichment/bootstrap"
	"heirfinder/internal/enrichment/credentials"
	enrichmenthandler "heirfinder/internal/enrichment/handler"
	enrichmentmetrics "heirfinder/internal/enrichment/metrics"
	"heirfinder/internal/enrichment/registry"
	"heirfinder/internal/enrichment/waterfall"
	"heirfinder/internal/heirsearch"
	heircache "heirfinder/internal/heirsearch/cache"
	heirhandler "heirfinder/internal/heirsearch/handler"
	jwttoken "heirfinder/internal/jwt_token"
	"heirfinder/internal/platform/config"
	"heirfinder/internal/platform/httpserver"
	"heirfinder/internal/platform/logger"
	"heirfinder/internal/platform/metrics"
	"heirfinder/internal/platform/middleware"
	redisclient "heirfinder/internal/platform/redis"
)

// main wires dependencies, serves the API and drains background writers on
// shutdown. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providerFile, err := config.LoadProviders(cfg.ProvidersFile)
	if err != nil {
		return err
	}

	var checks []httpserver.Check

	var (
		db    *sql.DB
		creds registry.CredentialSource = credentials.Static(credentials.FromEnv())
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()
		store := credentials.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		creds = store
		checks = append(checks, httpserver.Check{Name: "postgres", Probe: pool.Ping})

		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info("using postgres for credentials and attempts")
	}

	reg, err := bootstrap.Registry(providerFile, creds, log)
	if err != nil {
		return err
	}

	pipeline, err := newAttemptPipeline(ctx, cfg, db, log)
	if err != nil {
		return err
	}
	defer pipeline.Close()
	checks = append(checks, pipeline.checks...)

	orchestrator := waterfall.New(reg, append(bootstrap.WaterfallOptions(providerFile),
		waterfall.WithLogger(log),
		waterfall.WithMetrics(enrichmentmetrics.New()),
		waterfall.WithAttemptLogger(pipeline.publisher),
	)...)

	var cache heirsearch.Cache = heircache.NewMemory()
	rdb, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		cache = heircache.NewRedis(rdb.Client)
		checks = append(checks, httpserver.Check{Name: "redis", Probe: rdb.Health})
	}
	search := heirsearch.New(reg,
		heirsearch.WithLogger(log),
		heirsearch.WithMetrics(heirsearch.NewMetrics()),
		heirsearch.WithCache(cache, cfg.Attempts.HeirCacheTTL),
	)

	jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	router := newRouter(log, metrics.New(), jwttoken.NewValidator(jwtService), checks,
		enrichmenthandler.New(orchestrator, pipeline.reader, log),
		heirhandler.New(search, log),
	)

	srv := httpserver.New(cfg.Addr, router)
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting heirfinder", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

type registrar interface {
	Register(r chi.Router)
}

func newRouter(log *slog.Logger, m *metrics.Metrics, validator middleware.JWTValidator, checks []httpserver.Check, handlers ...registrar) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logger(log))
	r.Use(middleware.LatencyMiddleware(m))

	r.Get("/health", httpserver.Health(checks...))
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, log))
		r.Use(middleware.ContentTypeJSON)
		r.Use(middleware.Timeout(requestTimeout))
		for _, h := range handlers {
			h.Register(r)
		}
	})
	return r
}

// requestTimeout leaves room for a full waterfall with one retry per provider.
const requestTimeout = 75 * time.Second
