package payment

import (
	"context"
	"errors"
	"fmt"

	"go-storefront-payments/src/services/catalog"
	"go-storefront-payments/src/services/order/domain"
	"go-storefront-payments/src/services/order/domain/persistence"
)

// OrderLine is a line item with its product details filled in. Products that
// no longer exist in the catalog keep only their id.
type OrderLine struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// OrderView is an order as shown to its owner.
type OrderView struct {
	domain.Order
	Products []OrderLine `json:"products"`
}

func (s *paymentService) ListMyOrders(ctx context.Context, userID string) ([]OrderView, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return s.populate(ctx, orders)
}

// GetOrder returns the order only when it belongs to userID.
func (s *paymentService) GetOrder(ctx context.Context, userID, orderID string) (*OrderView, error) {
	if userID == "" {
		return nil, ErrMissingUser
	}
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, persistence.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order %s: %w", orderID, err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	views, err := s.populate(ctx, []domain.Order{*order})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// populate resolves every referenced product with one catalog query.
func (s *paymentService) populate(ctx context.Context, orders []domain.Order) ([]OrderView, error) {
	var ids []string
	seen := map[string]bool{}
	for _, o := range orders {
		for _, item := range o.Products {
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				ids = append(ids, item.ProductID)
			}
		}
	}

	byID := make(map[string]catalog.Product, len(ids))
	if len(ids) > 0 {
		products, err := s.products.GetProductsByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load order products: %w", err)
		}
		for _, p := range products {
			byID[p.ID] = p
		}
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		lines := make([]OrderLine, 0, len(o.Products))
		for _, item := range o.Products {
			product, ok := byID[item.ProductID]
			if !ok {
				product = catalog.Product{ID: item.ProductID}
			}
			lines = append(lines, OrderLine{Product: product, Quantity: item.Quantity})
		}
		views = append(views, OrderView{Order: o, Products: lines})
	}
	return views, nil
}
