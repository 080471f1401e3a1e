package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	"heirfinder/internal/enrichment/attempts"
	kafkasink "heirfinder/internal/enrichment/attempts/store/kafka"
	"heirfinder/internal/enrichment/attempts/store/memory"
	"heirfinder/internal/enrichment/attempts/store/postgres"
	"heirfinder/internal/platform/config"
	"heirfinder/internal/platform/httpserver"
	"heirfinder/internal/platform/kafka/admin"
	"heirfinder/internal/platform/kafka/consumer"
	"heirfinder/internal/platform/kafka/producer"
	"heirfinder/pkg/platform/circuit"
)

// attemptPipeline owns the attempt log write path. With Kafka configured
// records go to the topic and a consumer materializes them into the store;
// the store itself is the fallback while the broker is unavailable.
type attemptPipeline struct {
	publisher *attempts.Publisher
	reader    attempts.Store
	checks    []httpserver.Check

	producer *producer.Producer
	consumer *consumer.Consumer
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func newAttemptPipeline(ctx context.Context, cfg config.Server, db *sql.DB, log *slog.Logger) (*attemptPipeline, error) {
	p := &attemptPipeline{}

	var store attempts.Store = memory.NewInMemoryStore()
	if db != nil {
		pg := postgres.New(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		store = pg
	}
	p.reader = store

	opts := []attempts.PublisherOption{
		attempts.WithAsyncBuffer(cfg.Attempts.BufferSize),
		attempts.WithLogger(log),
		attempts.WithMetrics(attempts.NewMetrics()),
	}

	if len(cfg.Kafka.Brokers) == 0 {
		p.publisher = attempts.NewPublisher(store, opts...)
		return p, nil
	}

	prod, err := producer.New(cfg.Kafka.Brokers)
	if err != nil {
		return nil, err
	}
	p.producer = prod
	if err := admin.EnsureTopic(ctx, prod.Client(), cfg.Kafka.AttemptsTopic, 3, 1); err != nil {
		log.WarnContext(ctx, "attempt topic bootstrap failed", "topic", cfg.Kafka.AttemptsTopic, "error", err)
	}
	p.checks = append(p.checks, httpserver.Check{Name: "kafka", Probe: prod.Ping})

	opts = append(opts,
		attempts.WithFallback(store),
		attempts.WithBreaker(circuit.New("attempts-kafka")),
	)
	p.publisher = attempts.NewPublisher(kafkasink.NewSink(prod, cfg.Kafka.AttemptsTopic), opts...)

	if cfg.Attempts.ConsumeInline {
		cons, err := consumer.New(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup,
			[]string{cfg.Kafka.AttemptsTopic}, kafkasink.NewHandler(store, log), log)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.consumer = cons
		runCtx, cancel := context.WithCancel(context.Background())
		p.cancel = cancel
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			if err := cons.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("attempt consumer stopped", "error", err)
			}
		}()
	}
	return p, nil
}

// Close drains buffered records before the Kafka clients go away.
func (p *attemptPipeline) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
	if p.cancel != nil {
		p.cancel()
	}
	if p.consumer != nil {
		p.consumer.Close()
	}
	p.wg.Wait()
	if p.producer != nil {
		p.producer.Close()
	}
}
