package payment

import "context"

// IntentRequest asks the gateway to open a payment intent for a local order.
type IntentRequest struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

// Intent is the gateway-owned payment intent handed back to the client so it
// can complete checkout.
type Intent struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	Attempts   int    `json:"attempts"`
	CreatedAt  int64  `json:"created_at"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, req IntentRequest) (*Intent, error)
}

// Receipt labels the gateway intent with the local order id.
func Receipt(orderID string) string {
	return "order_" + orderID
}
