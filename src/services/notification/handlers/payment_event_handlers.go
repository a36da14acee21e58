package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"go-storefront-payments/src/infrastructure/log"
	"go-storefront-payments/src/services/events"
	"go-storefront-payments/src/services/notification"
	"go-storefront-payments/src/services/order/domain"
)

type Publisher interface {
	Publish(topic string, body []byte) error
}

// OrderLookup resolves the customer behind an order.
type OrderLookup interface {
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
}

type PaymentCompletedEventHandler struct {
	publisher           Publisher
	orders              OrderLookup
	notificationService notification.NotificationService
	logger              log.Logger
}

func NewPaymentCompletedEventHandler(
	publisher Publisher,
	orders OrderLookup,
	notificationService notification.NotificationService,
	logger log.Logger,
) *PaymentCompletedEventHandler {
	return &PaymentCompletedEventHandler{
		publisher:           publisher,
		orders:              orders,
		notificationService: notificationService,
		logger:              logger,
	}
}

// Handle sends the payment confirmation for a verified payment.
func (h *PaymentCompletedEventHandler) Handle(ctx context.Context, msgBody []byte) {
	var event events.PaymentCompletedEvent
	if err := decode(msgBody, &event); err != nil {
		h.logger.Exception(ctx, "Failed to decode PaymentCompletedEvent", err)
		sendToDLQ(ctx, h.publisher, h.logger, events.PaymentCompleted, msgBody)
		return
	}

	if event.OrderID == "" {
		h.logger.Warn(ctx, "PaymentCompletedEvent without order id, gateway order: "+event.GatewayOrderID)
		return
	}

	order, err := h.orders.GetOrderByID(ctx, event.OrderID)
	if err != nil {
		h.logger.Warn(ctx, fmt.Sprintf("Cannot resolve customer for order %s: %v", event.OrderID, err))
		return
	}

	req := notification.NotificationRequest{
		OrderID:     event.OrderID,
		Message:     fmt.Sprintf("We received your payment %s. Your order %s is being processed.", event.GatewayPaymentID, event.OrderID),
		Recipient:   order.UserID,
		MessageType: notification.TypePaymentConfirmed,
	}
	err = h.notificationService.SendMultiChannelNotification(ctx, req, []notification.NotificationChannel{
		notification.ChannelEmail,
		notification.ChannelPush,
	})
	if err != nil {
		h.logger.Exception(ctx, "Failed to send payment confirmation", err)
		return
	}
	h.logger.Info(ctx, "Payment confirmation sent for order: "+event.OrderID)
}

type PaymentFailedEventHandler struct {
	publisher           Publisher
	notificationService notification.NotificationService
	logger              log.Logger
}

func NewPaymentFailedEventHandler(
	publisher Publisher,
	notificationService notification.NotificationService,
	logger log.Logger,
) *PaymentFailedEventHandler {
	return &PaymentFailedEventHandler{
		publisher:           publisher,
		notificationService: notificationService,
		logger:              logger,
	}
}

// Handle tells the customer their checkout could not be started.
func (h *PaymentFailedEventHandler) Handle(ctx context.Context, msgBody []byte) {
	var event events.PaymentFailedEvent
	if err := decode(msgBody, &event); err != nil {
		h.logger.Exception(ctx, "Failed to decode PaymentFailedEvent", err)
		sendToDLQ(ctx, h.publisher, h.logger, events.PaymentFailed, msgBody)
		return
	}

	if event.UserID == "" {
		h.logger.Warn(ctx, "PaymentFailedEvent without user id, order: "+event.OrderID)
		return
	}

	req := notification.NotificationRequest{
		OrderID:     event.OrderID,
		Message:     "We could not start the payment for order " + event.OrderID + ". Please try again.",
		Recipient:   event.UserID,
		MessageType: notification.TypePaymentFailed,
	}
	err := h.notificationService.SendMultiChannelNotification(ctx, req, []notification.NotificationChannel{
		notification.ChannelEmail,
		notification.ChannelSMS,
	})
	if err != nil {
		h.logger.Exception(ctx, "Failed to send payment failure notification", err)
		return
	}
	h.logger.Info(ctx, "Payment failure notification sent for order: "+event.OrderID)
}

type validatable interface {
	Validate() error
}

func decode(body []byte, event validatable) error {
	if err := json.Unmarshal(body, event); err != nil {
		return err
	}
	return event.Validate()
}

func sendToDLQ(ctx context.Context, publisher Publisher, logger log.Logger, topic string, body []byte) {
	if err := publisher.Publish(events.DLQ(topic), body); err != nil {
		logger.Exception(ctx, "Failed to send event to DLQ", err)
	}
}

// PaymentInitiatedEventHandler records started checkouts. Nothing is sent to
// the customer until the payment completes or fails.
type PaymentInitiatedEventHandler struct {
	publisher Publisher
	logger    log.Logger
}

func NewPaymentInitiatedEventHandler(publisher Publisher, logger log.Logger) *PaymentInitiatedEventHandler {
	return &PaymentInitiatedEventHandler{publisher: publisher, logger: logger}
}

func (h *PaymentInitiatedEventHandler) Handle(ctx context.Context, msgBody []byte) {
	var event events.PaymentInitiatedEvent
	if err := decode(msgBody, &event); err != nil {
		h.logger.Exception(ctx, "Failed to decode PaymentInitiatedEvent", err)
		sendToDLQ(ctx, h.publisher, h.logger, events.PaymentInitiated, msgBody)
		return
	}

	h.logger.InfoWithExtra(ctx, "Checkout started", map[string]any{
		"OrderId":        event.OrderID,
		"UserId":         event.UserID,
		"GatewayOrderId": event.GatewayOrderID,
		"Amount":         event.Amount,
		"Currency":       event.Currency,
	})
}
