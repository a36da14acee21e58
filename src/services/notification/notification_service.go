package notification

import (
	"context"
	"fmt"

	"go-storefront-payments/src/infrastructure/log"
)

// NotificationChannel represents different notification delivery methods
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
	ChannelPush  NotificationChannel = "push"
)

const (
	TypePaymentConfirmed = "payment_confirmed"
	TypePaymentFailed    = "payment_failed"
)

// NotificationRequest represents a notification to be sent
type NotificationRequest struct {
	OrderID     string              `json:"orderId"`
	Message     string              `json:"message"`
	Channel     NotificationChannel `json:"channel"`
	Recipient   string              `json:"recipient"`
	MessageType string              `json:"messageType"`
}

type NotificationService interface {
	SendNotification(ctx context.Context, request NotificationRequest) error
	SendMultiChannelNotification(ctx context.Context, request NotificationRequest, channels []NotificationChannel) error
}

type NotificationServiceImpl struct {
	logger log.Logger
}

func NewNotificationService(logger log.Logger) NotificationService {
	return &NotificationServiceImpl{
		logger: logger,
	}
}

// SendNotification delivers request on its channel. Delivery is log-backed.
func (n *NotificationServiceImpl) SendNotification(ctx context.Context, request NotificationRequest) error {
	if request.Recipient == "" {
		return fmt.Errorf("notification for order %s has no recipient", request.OrderID)
	}

	switch request.Channel {
	case ChannelEmail, ChannelSMS, ChannelPush:
		n.logger.InfoWithExtra(ctx, Subject(request.MessageType), map[string]any{
			"Channel":   string(request.Channel),
			"OrderId":   request.OrderID,
			"Recipient": request.Recipient,
			"Body":      request.Message,
		})
		return nil
	default:
		n.logger.Warn(ctx, "Unknown notification channel: "+string(request.Channel))
		return nil
	}
}

// SendMultiChannelNotification keeps going when one channel fails and
// returns the first error seen.
func (n *NotificationServiceImpl) SendMultiChannelNotification(ctx context.Context, request NotificationRequest, channels []NotificationChannel) error {
	var firstErr error
	for _, channel := range channels {
		request.Channel = channel
		if err := n.SendNotification(ctx, request); err != nil {
			n.logger.Exception(ctx, "Failed to send notification via "+string(channel), err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func Subject(messageType string) string {
	switch messageType {
	case TypePaymentConfirmed:
		return "Payment Received"
	case TypePaymentFailed:
		return "Payment Failed"
	default:
		return "Order Update"
	}
}
