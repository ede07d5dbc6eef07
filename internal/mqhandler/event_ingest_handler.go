package mqhandler

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	contracts "workflowhub/contracts/mq"
	"workflowhub/internal/model"
	"workflowhub/internal/service/workflow"
	"workflowhub/pkg/util"
)

const (
	maxRetries = 5

	retryHandlerName = "event_ingest"
)

type EventLogger interface {
	LogEvent(ctx context.Context, in workflow.EventInput) (*workflow.EventResult, error)
}

type RetryCounter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, routingKey string, payload []byte, originalError string) error
}

// EventIngestHandler appends workflow.event.ingest messages to the event log.
// Returning an error nacks the message for redelivery; everything that will
// never succeed is parked on the DLQ and acked.
type EventIngestHandler struct {
	events       EventLogger
	retryCounter RetryCounter
	dlq          DLQPublisher
	logger       *zap.Logger
}

// NewEventIngestHandler accepts nil retryCounter and dlq.
func NewEventIngestHandler(events EventLogger, retryCounter RetryCounter, dlq DLQPublisher, logger *zap.Logger) *EventIngestHandler {
	return &EventIngestHandler{
		events:       events,
		retryCounter: retryCounter,
		dlq:          dlq,
		logger:       logger,
	}
}

func (h *EventIngestHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p contracts.EventIngestPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal event ingest payload (non-retryable, sending to DLQ)",
			zap.Error(err),
			zap.String("raw_payload", string(raw)),
		)
		h.park(ctx, raw, "json_decode_error")
		return nil
	}

	if p.Type == "" || p.Team == "" {
		h.logger.Warn("Event ingest payload missing type or team, sending to DLQ",
			zap.String("type", p.Type),
			zap.String("team", p.Team),
		)
		h.park(ctx, raw, "missing_required_field")
		return nil
	}

	payload, err := model.NewPayload(p.Payload)
	if err != nil {
		h.park(ctx, raw, "invalid_payload")
		return nil
	}

	retryKey := util.FormatRetryKey(retryHandlerName, messageKey(p, raw))

	res, err := h.events.LogEvent(ctx, workflow.EventInput{
		Type:      p.Type,
		Team:      p.Team,
		Severity:  p.Severity,
		Timestamp: p.Timestamp,
		Payload:   payload,
		DedupKey:  p.DedupKey,
		Source:    "mq",
	})
	if err != nil {
		return h.handleFailure(ctx, raw, retryKey, err)
	}

	h.resetRetries(ctx, retryKey)

	if res.Duplicate {
		h.logger.Info("Skipped duplicated ingest event", zap.String("dedup_key", p.DedupKey))
		return nil
	}
	h.logger.Info("Ingested event",
		zap.String("event_id", res.Event.ID),
		zap.String("type", p.Type),
		zap.String("team", p.Team),
	)
	return nil
}

func (h *EventIngestHandler) handleFailure(ctx context.Context, raw json.RawMessage, retryKey string, err error) error {
	isRetryable, errType := util.IsRetryableError(err)
	if errors.Is(err, model.ErrDuplicateID) {
		isRetryable, errType = false, "duplicate_key"
	}

	h.logger.Error("Failed to ingest event",
		zap.String("error_type", errType),
		zap.Bool("retryable", isRetryable),
		zap.Error(err),
	)

	if !isRetryable {
		h.park(ctx, raw, errType)
		h.resetRetries(ctx, retryKey)
		return nil
	}

	retryCount := int64(1)
	if h.retryCounter != nil {
		count, cerr := h.retryCounter.IncrementAndGet(ctx, retryKey)
		if cerr != nil {
			h.logger.Warn("Failed to get retry count, continuing anyway", zap.Error(cerr))
		} else {
			retryCount = count
		}
	}

	if !util.ShouldRetry(retryCount, maxRetries, isRetryable) {
		h.logger.Warn("Max retries exceeded, sending to DLQ",
			zap.Int64("retry_count", retryCount),
			zap.String("error_type", errType),
		)
		h.park(ctx, raw, "max_retries_exceeded: "+errType)
		h.resetRetries(ctx, retryKey)
		return nil
	}

	return err
}

func (h *EventIngestHandler) park(ctx context.Context, raw json.RawMessage, reason string) {
	if h.dlq == nil {
		h.logger.Warn("No DLQ configured, dropping message", zap.String("reason", reason))
		return
	}
	if err := h.dlq.PublishToDLQ(ctx, contracts.RoutingEventIngest, raw, reason); err != nil {
		h.logger.Error("Failed to publish to DLQ", zap.String("reason", reason), zap.Error(err))
	}
}

func (h *EventIngestHandler) resetRetries(ctx context.Context, key string) {
	if h.retryCounter == nil {
		return
	}
	if err := h.retryCounter.Reset(ctx, key); err != nil {
		h.logger.Warn("Failed to reset retry count", zap.String("key", key), zap.Error(err))
	}
}

// messageKey identifies a message across redeliveries.
func messageKey(p contracts.EventIngestPayload, raw json.RawMessage) string {
	if p.DedupKey != "" {
		return p.DedupKey
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
