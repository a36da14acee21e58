package models

import (
	"go-storefront-payments/src/services/order/domain"
	"go-storefront-payments/src/services/payment"

	"github.com/shopspring/decimal"
)

type AddressRequest struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type LineItemRequest struct {
	Product   string `json:"product"`
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the checkout payload. deliveryDate is accepted for
// compatibility and ignored; the server derives it.
type CreateOrderRequest struct {
	Address      *AddressRequest   `json:"address"`
	Products     []LineItemRequest `json:"products"`
	TotalAmount  decimal.Decimal   `json:"totalAmount" swaggertype:"number"`
	DeliveryDate string            `json:"deliveryDate,omitempty"`
}

func (r CreateOrderRequest) ToInput(userID string) payment.CreateOrderInput {
	in := payment.CreateOrderInput{
		UserID:      userID,
		TotalAmount: r.TotalAmount.InexactFloat64(),
	}
	if r.Address != nil {
		in.Address = domain.Address{
			Name:       r.Address.Name,
			Line1:      r.Address.Line1,
			Line2:      r.Address.Line2,
			City:       r.Address.City,
			State:      r.Address.State,
			PostalCode: r.Address.PostalCode,
			Country:    r.Address.Country,
			Phone:      r.Address.Phone,
		}
	}
	for _, p := range r.Products {
		id := p.Product
		if id == "" {
			id = p.ProductID
		}
		in.Products = append(in.Products, domain.LineItem{ProductID: id, Quantity: p.Quantity})
	}
	return in
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           string `json:"orderId"`
}

func (r VerifyPaymentRequest) ToInput() payment.VerifyInput {
	return payment.VerifyInput{
		GatewayOrderID:   r.RazorpayOrderID,
		GatewayPaymentID: r.RazorpayPaymentID,
		Signature:        r.RazorpaySignature,
		OrderID:          r.OrderID,
	}
}

type CreateOrderResponse struct {
	Success bool            `json:"success"`
	Order   *payment.Intent `json:"order"`
	OrderID string          `json:"orderId"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type OrdersResponse struct {
	Success bool                `json:"success"`
	Data    []payment.OrderView `json:"data"`
}

type OrderResponse struct {
	Success bool               `json:"success"`
	Data    *payment.OrderView `json:"data"`
}

type ReplayResponse struct {
	Success bool                  `json:"success"`
	Result  *payment.ReplayResult `json:"result"`
}
