package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"heirfinder/internal/enrichment/attempts"
	"heirfinder/internal/enrichment/attempts/store/memory"
	"heirfinder/internal/enrichment/models"
	"heirfinder/internal/platform/kafka/consumer"
)

type capturedMessage struct {
	topic      string
	key, value []byte
}

type fakeProducer struct {
	messages []capturedMessage
	err      error
}

func (f *fakeProducer) Publish(_ context.Context, topic string, key, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, capturedMessage{topic: topic, key: key, value: value})
	return nil
}

func TestSinkRoundTripsThroughHandler(t *testing.T) {
	ctx := context.Background()
	src := models.ProviderID("pdl")
	rec := models.AttemptRecord{
		ID:               "6f1c3a52-5d4a-4c35-9d8e-4c0c2a1f7b10",
		RequesterID:      "user-1",
		HeirName:         "Jane Doe",
		APIsAttempted:    []models.ProviderID{"apollo", "pdl"},
		SuccessfulSource: &src,
		Success:          true,
		HasEmail:         true,
		RecordedAt:       time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC),
	}

	producer := &fakeProducer{}
	require.NoError(t, NewSink(producer, "").Append(ctx, rec))
	require.Len(t, producer.messages, 1)
	msg := producer.messages[0]
	assert.Equal(t, DefaultTopic, msg.topic)
	assert.Equal(t, rec.ID, string(msg.key))

	store := memory.NewInMemoryStore()
	h := NewHandler(store, nil)
	require.NoError(t, h.Handle(ctx, &consumer.Message{Topic: msg.topic, Key: msg.key, Value: msg.value}))

	got, err := store.ListByRequester(ctx, "user-1", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec, got[0])
}

func TestSinkPropagatesProducerError(t *testing.T) {
	err := NewSink(&fakeProducer{err: errors.New("broker down")}, "t").
		Append(context.Background(), models.AttemptRecord{ID: "x"})
	assert.Error(t, err)
}

func TestHandlerAcknowledgesMalformedMessages(t *testing.T) {
	store := memory.NewInMemoryStore()
	err := NewHandler(store, nil).Handle(context.Background(), &consumer.Message{Key: []byte("k"), Value: []byte("{nope")})
	assert.NoError(t, err)

	recent, _ := store.ListRecent(context.Background(), 10)
	assert.Empty(t, recent)
}

var _ attempts.Sink = (*Sink)(nil)
