package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type validatable interface {
	Validate() error
}

// publishEvent never fails the caller: undeliverable events are stored for replay.
func (s *paymentService) publishEvent(ctx context.Context, topic, orderID string, event validatable) {
	if err := event.Validate(); err != nil {
		s.logger.Exception(ctx, "Skipping invalid "+topic+" event", err)
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		s.logger.Exception(ctx, "Failed to marshal "+topic+" event", err)
		return
	}

	if err = s.publishWithRetry(ctx, topic, body); err == nil {
		return
	}

	s.logger.Exception(ctx, fmt.Sprintf("Failed to publish %s for order %s after %d attempts", topic, orderID, s.publishRetries), err)
	if err := s.eventStore.StoreEventForReplay(context.WithoutCancel(ctx), orderID, topic, body); err != nil {
		s.logger.Exception(ctx, "Failed to store "+topic+" event for replay", err)
	}
}

func (s *paymentService) publishWithRetry(ctx context.Context, topic string, body []byte) error {
	var err error
	for attempt := 1; attempt <= s.publishRetries; attempt++ {
		err = s.publisher.Publish(topic, body)
		if err == nil {
			return nil
		}
		s.logger.Warn(ctx, fmt.Sprintf("Publish %s failed, attempt %d/%d: %v", topic, attempt, s.publishRetries, err))
		if attempt < s.publishRetries && s.retryDelay > 0 {
			time.Sleep(time.Duration(attempt) * s.retryDelay)
		}
	}
	return err
}
