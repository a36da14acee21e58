package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go-storefront-payments/src/services/payment"

	razorpay "github.com/razorpay/razorpay-go"
)

// orderCreator is the slice of the Razorpay SDK used here.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway opens payment intents (Razorpay "orders").
type RazorpayGateway struct {
	orders orderCreator
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayGateway{orders: client.Order}
}

// CreateOrder does not apply its own timeout; the SDK call blocks until the
// gateway answers.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	body, err := g.orders.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return decodeIntent(body)
}

func decodeIntent(body map[string]interface{}) (*payment.Intent, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("razorpay order response: %w", err)
	}
	var intent payment.Intent
	if err := json.Unmarshal(raw, &intent); err != nil {
		return nil, fmt.Errorf("razorpay order response: %w", err)
	}
	if intent.ID == "" {
		return nil, errors.New("razorpay order response has no id")
	}
	return &intent, nil
}
