package dlq

import (
	"context"
	"encoding/json"

	"go-storefront-payments/src/infrastructure/log"
)

type EventStore interface {
	StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error
}

// DLQHandler parks dead-lettered payment events in the event store so the
// replay endpoint can republish them.
type DLQHandler struct {
	eventStore EventStore
	logger     log.Logger
}

func NewDLQHandler(eventStore EventStore, logger log.Logger) *DLQHandler {
	return &DLQHandler{
		eventStore: eventStore,
		logger:     logger,
	}
}

// TopicHandler consumes the DLQ of a single topic.
type TopicHandler struct {
	*DLQHandler
	topic string
}

// ForTopic returns the handler for topic's dead-letter queue.
func (d *DLQHandler) ForTopic(topic string) *TopicHandler {
	return &TopicHandler{DLQHandler: d, topic: topic}
}

func (h *TopicHandler) Handle(ctx context.Context, msgBody []byte) {
	h.logger.Info(ctx, "Processing "+h.topic+" DLQ event")

	if !json.Valid(msgBody) {
		h.logger.Warn(ctx, "Dropping non-JSON "+h.topic+" DLQ message")
		return
	}

	var ref struct {
		OrderID string `json:"orderId"`
	}
	orderID := "unknown"
	if err := json.Unmarshal(msgBody, &ref); err == nil && ref.OrderID != "" {
		orderID = ref.OrderID
	}

	if err := h.eventStore.StoreEventForReplay(ctx, orderID, h.topic, msgBody); err != nil {
		h.logger.Exception(ctx, "Failed to store "+h.topic+" DLQ event for replay", err)
		return
	}
	h.logger.Info(ctx, h.topic+" DLQ event stored for replay, orderID: "+orderID)
}
