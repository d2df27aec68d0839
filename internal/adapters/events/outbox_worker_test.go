package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maglieria/storefront/internal/ports"
)

type fakeOutbox struct {
	records      []ports.OutboxRecord
	published    []uuid.UUID
	failed       []uuid.UUID
	deadLettered []uuid.UUID
}

func (f *fakeOutbox) Enqueue(context.Context, ports.OutboxEvent) error { return nil }

func (f *fakeOutbox) ClaimUnpublished(_ context.Context, limit int, _ string, _ time.Time) ([]ports.OutboxRecord, error) {
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, id uuid.UUID, _ string, _ time.Time) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeOutbox) MarkFailed(_ context.Context, id uuid.UUID, _, _ string, _ time.Time) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeOutbox) MarkDeadLettered(_ context.Context, id uuid.UUID, _, _ string, _ time.Time) error {
	f.deadLettered = append(f.deadLettered, id)
	return nil
}

type fakePublisher struct {
	failFor map[string]bool
	keys    []string
}

func (p *fakePublisher) Publish(_ context.Context, eventType string, _ []byte, partitionKey string) error {
	if p.failFor[eventType] {
		return errors.New("broker unavailable")
	}
	p.keys = append(p.keys, partitionKey)
	return nil
}

func TestOutboxWorkerProcessOnce(t *testing.T) {
	ok := ports.OutboxRecord{OutboxID: uuid.New(), EventType: "order.placed", PartitionKey: "17", Payload: []byte(`{}`)}
	retry := ports.OutboxRecord{OutboxID: uuid.New(), EventType: "user.registered", PartitionKey: "3", RetryCount: 1}
	exhausted := ports.OutboxRecord{OutboxID: uuid.New(), EventType: "user.registered", PartitionKey: "4", RetryCount: 2}
	stale := ports.OutboxRecord{OutboxID: uuid.New(), EventType: "order.placed", PartitionKey: "5", RetryCount: 3}

	outbox := &fakeOutbox{records: []ports.OutboxRecord{ok, retry, exhausted, stale}}
	publisher := &fakePublisher{failFor: map[string]bool{"user.registered": true}}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	worker := NewOutboxWorker(logger, outbox, publisher, time.Second, 10, time.Second, 3)

	n, err := worker.processOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []uuid.UUID{ok.OutboxID}, outbox.published)
	assert.Equal(t, []uuid.UUID{retry.OutboxID}, outbox.failed)
	assert.ElementsMatch(t, []uuid.UUID{exhausted.OutboxID, stale.OutboxID}, outbox.deadLettered)
	assert.Equal(t, []string{"17"}, publisher.keys)
}

func TestOutboxWorkerEmptyBatch(t *testing.T) {
	worker := NewOutboxWorker(nil, &fakeOutbox{}, &fakePublisher{}, 0, 0, 0, 0)
	n, err := worker.processOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 100, worker.batchSize)
	assert.Equal(t, 5, worker.maxRetries)
}

func TestKafkaPublisherTopicMapping(t *testing.T) {
	_, err := NewKafkaPublisher(nil, nil)
	require.Error(t, err)

	p, err := NewKafkaPublisher([]string{"localhost:9092"}, map[string]string{"order.placed": "storefront.orders"})
	require.NoError(t, err)
	defer p.Close()
	assert.Equal(t, "storefront.orders", p.topicFor("order.placed"))
	assert.Equal(t, "user.registered", p.topicFor("user.registered"))
}
