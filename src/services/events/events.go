package events

import (
	"errors"
	"time"
)

const (
	// Event types, also used as routing keys and queue names
	PaymentInitiated = "payment.initiated"
	PaymentCompleted = "payment.completed"
	PaymentFailed    = "payment.failed"

	DLQSuffix = ".dlq"

	// Event status enums for payment_events collection
	EventStatusPending   = "pending"
	EventStatusFailed    = "failed"
	EventStatusCompleted = "completed"
	EventStatusReplaying = "replaying"
)

// Topics lists every routing key the service publishes.
var Topics = []string{PaymentInitiated, PaymentCompleted, PaymentFailed}

// DLQ returns the dead-letter queue name for topic.
func DLQ(topic string) string {
	return topic + DLQSuffix
}

type PaymentInitiatedEvent struct {
	OrderID        string    `json:"orderId"`
	UserID         string    `json:"userId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Version        int       `json:"version"`
	TimeStamp      time.Time `json:"timestamp"`
}

func (e *PaymentInitiatedEvent) Validate() error {
	if e.OrderID == "" || e.GatewayOrderID == "" || e.Amount <= 0 || e.Currency == "" {
		return errors.New("missing required fields in PaymentInitiatedEvent")
	}
	return nil
}

type PaymentCompletedEvent struct {
	OrderID          string    `json:"orderId"`
	GatewayOrderID   string    `json:"gatewayOrderId"`
	GatewayPaymentID string    `json:"gatewayPaymentId"`
	Version          int       `json:"version"`
	TimeStamp        time.Time `json:"timestamp"`
}

func (e *PaymentCompletedEvent) Validate() error {
	if e.GatewayOrderID == "" || e.GatewayPaymentID == "" {
		return errors.New("missing required fields in PaymentCompletedEvent")
	}
	return nil
}

type PaymentFailedEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	Reason    string    `json:"reason"`
	Version   int       `json:"version"`
	TimeStamp time.Time `json:"timestamp"`
}

func (e *PaymentFailedEvent) Validate() error {
	if e.OrderID == "" || e.Reason == "" {
		return errors.New("missing required fields in PaymentFailedEvent")
	}
	return nil
}
