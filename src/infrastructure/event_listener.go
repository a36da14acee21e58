package infrastructure

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-storefront-payments/src/infrastructure/log"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

type Consumer interface {
	Consume(queueName string) (<-chan amqp.Delivery, error)
}

type EventHandler interface {
	Handle(ctx context.Context, msgBody []byte)
}

type EventListener struct {
	consumer   Consumer
	logger     log.Logger
	handlers   map[string]EventHandler
	maxRetries int
	retryDelay time.Duration
}

func NewEventListener(consumer Consumer, logger log.Logger) *EventListener {
	return &EventListener{
		consumer:   consumer,
		logger:     logger,
		handlers:   make(map[string]EventHandler),
		maxRetries: 5,
		retryDelay: 2 * time.Second,
	}
}

// RegisterHandler registers the handler for the queue named eventType.
func (el *EventListener) RegisterHandler(eventType string, handler EventHandler) {
	el.handlers[eventType] = handler
}

// StartListening blocks until ctx is cancelled or every queue gave up.
func (el *EventListener) StartListening(ctx context.Context) error {
	if len(el.handlers) == 0 {
		return fmt.Errorf("no event handlers registered")
	}

	var wg sync.WaitGroup
	for eventType, handler := range el.handlers {
		wg.Add(1)
		go func(evtType string, h EventHandler) {
			defer wg.Done()
			el.listenToQueue(ctx, evtType, h)
		}(eventType, handler)
	}

	wg.Wait()
	return nil
}

// listenToQueue consumes queueName, reconnecting with exponential backoff
// when the delivery channel closes.
func (el *EventListener) listenToQueue(ctx context.Context, queueName string, handler EventHandler) {
	retryDelay := el.retryDelay

	el.logger.Info(ctx, "Starting to listen for events on queue: "+queueName)

	for attempt := 1; attempt <= el.maxRetries; attempt++ {
		msgs, err := el.consumer.Consume(queueName)
		if err != nil {
			el.logger.Exception(ctx, fmt.Sprintf("Failed to start consuming queue: %s (attempt %d/%d)", queueName, attempt, el.maxRetries), err)
			if !el.sleep(ctx, retryDelay) {
				return
			}
			retryDelay *= 2
			continue
		}

		el.logger.Info(ctx, "Successfully started consuming queue: "+queueName)
		if done := el.drain(ctx, queueName, msgs, handler); done {
			return
		}
		el.logger.Warn(ctx, "Message channel closed for queue: "+queueName+", attempting to reconnect...")
	}

	el.logger.Exception(ctx, "Max retries reached for queue: "+queueName+", giving up", nil)
}

// drain handles deliveries until ctx ends (true) or the channel closes (false).
func (el *EventListener) drain(ctx context.Context, queueName string, msgs <-chan amqp.Delivery, handler EventHandler) bool {
	for {
		select {
		case <-ctx.Done():
			el.logger.Info(ctx, "Stopping event listener for queue: "+queueName)
			return true
		case msg, ok := <-msgs:
			if !ok {
				return false
			}
			correlationID := msg.CorrelationId
			if correlationID == "" {
				correlationID = uuid.NewString()
			}
			msgCtx := el.logger.WithCorrelationID(ctx, correlationID)
			handler.Handle(msgCtx, msg.Body)
			if err := msg.Ack(false); err != nil {
				el.logger.Exception(msgCtx, "Failed to ack message on queue: "+queueName, err)
			}
		}
	}
}

func (el *EventListener) sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
