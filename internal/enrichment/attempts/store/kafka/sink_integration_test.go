//go:build integration

package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"heirfinder/internal/enrichment/attempts/store/memory"
	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/platform/kafka/admin"
	"heirfinder/internal/platform/kafka/consumer"
	"heirfinder/internal/platform/kafka/producer"
	"heirfinder/pkg/testutil/containers"
)

type AttemptStreamSuite struct {
	suite.Suite
	brokers  []string
	producer *producer.Producer
}

func TestAttemptStreamSuite(t *testing.T) {
	suite.Run(t, new(AttemptStreamSuite))
}

func (s *AttemptStreamSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
	p, err := producer.New(s.brokers)
	s.Require().NoError(err)
	s.producer = p
}

func (s *AttemptStreamSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close()
	}
}

func (s *AttemptStreamSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	topic := "attempts-" + uuid.NewString()
	s.Require().NoError(admin.EnsureTopic(ctx, s.producer.Client(), topic, 1, 1))
	s.Require().NoError(admin.EnsureTopic(ctx, s.producer.Client(), topic, 1, 1))
}

func (s *AttemptStreamSuite) TestPublishedRecordIsMaterialized() {
	ctx := context.Background()
	topic := "attempts-" + uuid.NewString()
	s.Require().NoError(admin.EnsureTopic(ctx, s.producer.Client(), topic, 1, 1))

	src := models.ProviderID("apollo")
	rec := models.AttemptRecord{
		ID:               uuid.NewString(),
		RequesterID:      "req-stream",
		HeirName:         "Jane Doe",
		APIsAttempted:    []models.ProviderID{"apollo"},
		SuccessfulSource: &src,
		Success:          true,
		HasPhone:         true,
		RecordedAt:       time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(NewSink(s.producer, topic).Append(ctx, rec))

	store := memory.NewInMemoryStore()
	cons, err := consumer.New(s.brokers, "group-"+uuid.NewString(), []string{topic}, NewHandler(store, nil), nil)
	s.Require().NoError(err)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- cons.Run(runCtx) }()

	s.Eventually(func() bool {
		got, err := store.ListByRequester(ctx, "req-stream", 10)
		return err == nil && len(got) == 1
	}, 30*time.Second, 200*time.Millisecond)

	got, err := store.ListByRequester(ctx, "req-stream", 10)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(rec.ID, got[0].ID)
	s.Equal(rec.SuccessfulSource, got[0].SuccessfulSource)
	s.True(got[0].HasPhone)

	cancel()
	cons.Close()
	select {
	case err := <-done:
		if err != nil {
			s.True(errors.Is(err, context.Canceled))
		}
	case <-time.After(10 * time.Second):
		s.Fail("consumer did not stop")
	}
}
