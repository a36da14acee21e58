package payment

import (
	"context"
	"fmt"

	"go-storefront-payments/src/services/events"
)

// VerifyInput is the confirmation the client relays after completing checkout
// with the gateway.
type VerifyInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
	OrderID          string
}

// VerifyPayment checks the gateway signature and, on match, marks the local
// order paid. The update does not look at the order's current state.
func (s *paymentService) VerifyPayment(ctx context.Context, in VerifyInput) error {
	if in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		s.metrics.ObserveVerification(OutcomeInvalidData)
		return ErrInvalidData
	}

	if !VerifySignature(s.secret, in.GatewayOrderID, in.GatewayPaymentID, in.Signature) {
		s.metrics.ObserveVerification(OutcomeInvalidSignature)
		s.logger.WarnWithExtra(ctx, "Payment signature mismatch", map[string]any{
			"OrderId":        in.OrderID,
			"GatewayOrderId": in.GatewayOrderID,
		})
		return ErrInvalidSignature
	}

	matched, err := s.orders.MarkPaymentCompleted(ctx, in.OrderID, in.GatewayPaymentID)
	if err != nil {
		s.metrics.ObserveVerification(OutcomeError)
		return fmt.Errorf("failed to mark payment completed for %s: %w", in.OrderID, err)
	}
	if !matched {
		s.logger.Warn(ctx, "Verified payment "+in.GatewayPaymentID+" matched no local order: "+in.OrderID)
	}

	s.metrics.ObserveVerification(OutcomeVerified)
	s.logger.InfoWithExtra(ctx, "Payment verified", map[string]any{
		"OrderId":          in.OrderID,
		"GatewayOrderId":   in.GatewayOrderID,
		"GatewayPaymentId": in.GatewayPaymentID,
	})

	s.publishEvent(ctx, events.PaymentCompleted, in.OrderID, &events.PaymentCompletedEvent{
		OrderID:          in.OrderID,
		GatewayOrderID:   in.GatewayOrderID,
		GatewayPaymentID: in.GatewayPaymentID,
		Version:          1,
		TimeStamp:        s.now(),
	})
	return nil
}
