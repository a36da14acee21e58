package domain

import "time"

// DeliveryLeadDays is the calendar-day offset between order creation and
// the estimated delivery date.
const DeliveryLeadDays = 5

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"

	PaymentMethodOnline = "ONLINE"

	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
	OrderStatusFailed     = "FAILED"
)

type Order struct {
	ID            string     `json:"_id"`
	UserID        string     `json:"user"`
	Address       Address    `json:"address"`
	Products      []LineItem `json:"products"`
	TotalAmount   float64    `json:"totalAmount"`
	PaymentStatus string     `json:"paymentStatus"`
	PaymentMethod string     `json:"paymentMethod"`
	OrderStatus   string     `json:"orderStatus"`
	DeliveryDate  time.Time  `json:"deliveryDate"`
	TransactionID string     `json:"transactionId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

type LineItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

type Address struct {
	Name       string `json:"name,omitempty"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// IsZero reports whether every address field is empty. Any supplied field,
// a bare name or phone included, counts as an address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// NewOrder builds a pending online order created at now.
func NewOrder(id, userID string, address Address, products []LineItem, total float64, now time.Time) *Order {
	return &Order{
		ID:            id,
		UserID:        userID,
		Address:       address,
		Products:      products,
		TotalAmount:   total,
		PaymentStatus: PaymentStatusPending,
		PaymentMethod: PaymentMethodOnline,
		OrderStatus:   OrderStatusPending,
		DeliveryDate:  DeliveryDateFor(now),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// DeliveryDateFor returns createdAt plus DeliveryLeadDays calendar days.
func DeliveryDateFor(createdAt time.Time) time.Time {
	return createdAt.AddDate(0, 0, DeliveryLeadDays)
}
