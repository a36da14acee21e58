package payment

import (
	"context"
	"fmt"
	"time"

	"go-storefront-payments/src/services/events"
	"go-storefront-payments/src/services/order/domain"
)

type CreateOrderInput struct {
	UserID      string
	Address     domain.Address
	Products    []domain.LineItem
	TotalAmount float64
}

type CreateOrderResult struct {
	Intent  *Intent
	OrderID string
}

func validateCreateOrder(in CreateOrderInput) error {
	if in.UserID == "" {
		return ErrMissingUser
	}
	if in.Address.IsZero() {
		return ErrMissingAddress
	}
	if len(in.Products) == 0 {
		return ErrMissingProducts
	}
	if !validAmount(in.TotalAmount) {
		return ErrInvalidAmount
	}
	return nil
}

// CreateOrder persists a pending order and opens the matching gateway intent.
// If the gateway step fails the order is marked FAILED instead of being left
// pending.
func (s *paymentService) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateCreateOrder(in); err != nil {
		s.metrics.ObserveIntent(OutcomeRejected)
		return nil, err
	}

	order := domain.NewOrder(s.newID(), in.UserID, in.Address, in.Products, in.TotalAmount, s.now())
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		s.metrics.ObserveIntent(OutcomeFailed)
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	amount := ToSubunits(in.TotalAmount)
	intent, err := s.gateway.CreateOrder(ctx, IntentRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  Receipt(order.ID),
		Notes:    map[string]string{"orderId": order.ID, "userId": order.UserID},
	})
	if err != nil {
		s.compensate(ctx, order, "gateway order creation failed")
		return nil, fmt.Errorf("failed to create gateway order for %s: %w", order.ID, err)
	}

	if err := s.orders.AttachTransaction(ctx, order.ID, intent.ID); err != nil {
		s.compensate(ctx, order, "failed to attach gateway order")
		return nil, fmt.Errorf("failed to attach gateway order %s to %s: %w", intent.ID, order.ID, err)
	}

	s.metrics.ObserveIntent(OutcomeCreated)
	s.logger.InfoWithExtra(ctx, "Payment intent created", map[string]any{
		"OrderId":        order.ID,
		"GatewayOrderId": intent.ID,
		"Amount":         amount,
		"Currency":       s.currency,
	})

	s.publishEvent(ctx, events.PaymentInitiated, order.ID, &events.PaymentInitiatedEvent{
		OrderID:        order.ID,
		UserID:         order.UserID,
		GatewayOrderID: intent.ID,
		Amount:         amount,
		Currency:       s.currency,
		Version:        1,
		TimeStamp:      s.now(),
	})

	return &CreateOrderResult{Intent: intent, OrderID: order.ID}, nil
}

func (s *paymentService) compensate(ctx context.Context, order *domain.Order, reason string) {
	s.metrics.ObserveIntent(OutcomeFailed)

	// The request context may already be cancelled; the compensation still has to land.
	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.orders.MarkOrderFailed(markCtx, order.ID); err != nil {
		s.logger.Exception(ctx, "Failed to mark order "+order.ID+" as FAILED", err)
	} else {
		s.logger.Warn(ctx, "Order "+order.ID+" marked FAILED: "+reason)
	}

	s.publishEvent(ctx, events.PaymentFailed, order.ID, &events.PaymentFailedEvent{
		OrderID:   order.ID,
		UserID:    order.UserID,
		Reason:    reason,
		Version:   1,
		TimeStamp: s.now(),
	})
}
