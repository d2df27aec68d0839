package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/maglieria/storefront/internal/ports"
)

type publishOutcome int

const (
	outcomePublished publishOutcome = iota
	outcomeRetry
	outcomeDeadLettered
)

// OutboxWorker relays order.placed and user.registered rows from the outbox
// to the configured publisher.
type OutboxWorker struct {
	logger     *slog.Logger
	outbox     ports.OutboxRepository
	publisher  ports.EventPublisher
	interval   time.Duration
	batchSize  int
	claimTTL   time.Duration
	maxRetries int
	nowFn      func() time.Time
}

func NewOutboxWorker(
	logger *slog.Logger,
	outbox ports.OutboxRepository,
	publisher ports.EventPublisher,
	interval time.Duration,
	batchSize int,
	claimTTL time.Duration,
	maxRetries int,
) *OutboxWorker {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	if claimTTL <= 0 {
		claimTTL = 30 * time.Second
	}
	if maxRetries <= 0 {
		maxRetries = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OutboxWorker{
		logger:     logger.With("module", "events.outbox_worker", "layer", "adapter"),
		outbox:     outbox,
		publisher:  publisher,
		interval:   interval,
		batchSize:  batchSize,
		claimTTL:   claimTTL,
		maxRetries: maxRetries,
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

// Run drains the outbox every interval until ctx is cancelled.
func (w *OutboxWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if _, err := w.processOnce(ctx); err != nil {
			w.logger.ErrorContext(ctx, "outbox iteration failed",
				"operation", "outbox_process_once",
				"outcome", "failure",
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// processOnce claims one batch and returns how many records were handled.
func (w *OutboxWorker) processOnce(ctx context.Context) (int, error) {
	claimToken := uuid.NewString()
	records, err := w.outbox.ClaimUnpublished(ctx, w.batchSize, claimToken, w.nowFn().Add(w.claimTTL))
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	counts := map[publishOutcome]int{}
	for _, rec := range records {
		counts[w.relay(ctx, rec, claimToken)]++
	}

	w.logger.InfoContext(ctx, "outbox batch processed",
		"operation", "outbox_process_once",
		"outcome", "success",
		"batch_size", len(records),
		"published_count", counts[outcomePublished],
		"failed_count", counts[outcomeRetry],
		"dead_lettered_count", counts[outcomeDeadLettered],
	)
	return len(records), nil
}

func (w *OutboxWorker) relay(ctx context.Context, rec ports.OutboxRecord, claimToken string) publishOutcome {
	now := w.nowFn()
	if rec.RetryCount >= w.maxRetries {
		_ = w.outbox.MarkDeadLettered(ctx, rec.OutboxID, claimToken, "retry threshold reached before publish", now)
		return outcomeDeadLettered
	}

	err := w.publisher.Publish(ctx, rec.EventType, rec.Payload, rec.PartitionKey)
	if err == nil {
		_ = w.outbox.MarkPublished(ctx, rec.OutboxID, claimToken, now)
		return outcomePublished
	}

	attempts := rec.RetryCount + 1
	attrs := []any{
		"operation", "publish_event",
		"outcome", "failure",
		"outbox_id", rec.OutboxID,
		"event_type", rec.EventType,
		"partition_key", rec.PartitionKey,
		"retry_count", attempts,
		"error", err,
	}
	if attempts >= w.maxRetries {
		w.logger.ErrorContext(ctx, "outbox message moved to dlq", attrs...)
		_ = w.outbox.MarkDeadLettered(ctx, rec.OutboxID, claimToken, err.Error(), now)
		return outcomeDeadLettered
	}
	w.logger.WarnContext(ctx, "outbox publish failed; retry scheduled", attrs...)
	_ = w.outbox.MarkFailed(ctx, rec.OutboxID, claimToken, err.Error(), now)
	return outcomeRetry
}
