package payment

import (
	"context"
	"errors"
	"testing"

	"go-storefront-payments/src/services/order/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrder_OwnershipAndNotFound(t *testing.T) {
	h := newHarness()
	order := seedPendingOrder(h)

	got, err := h.svc.GetOrder(context.Background(), "user-1", order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = h.svc.GetOrder(context.Background(), "user-2", order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = h.svc.GetOrder(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = h.svc.GetOrder(context.Background(), "", order.ID)
	assert.ErrorIs(t, err, ErrMissingUser)
}

func TestGetOrder_PopulatesProducts(t *testing.T) {
	h := newHarness()
	order := seedPendingOrder(h)

	got, err := h.svc.GetOrder(context.Background(), "user-1", order.ID)

	require.NoError(t, err)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Cotton Crew T-Shirt", got.Products[0].Product.Name)
	assert.Equal(t, "https://cdn.example.com/tee.jpg", got.Products[0].Product.Images[0].URL)
	assert.Equal(t, 1, got.Products[0].Quantity)
}

func TestListMyOrders(t *testing.T) {
	h := newHarness()
	seedPendingOrder(h)

	mine, err := h.svc.ListMyOrders(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := h.svc.ListMyOrders(context.Background(), "user-2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestListMyOrders_PopulatesWithOneLookup(t *testing.T) {
	h := newHarness()
	seedPendingOrder(h)
	second := domain.NewOrder("order-local-2", "user-1",
		domain.Address{Line1: "12 MG Road"},
		[]domain.LineItem{{ProductID: "p-1", Quantity: 3}, {ProductID: "p-gone", Quantity: 1}},
		2000, fixedNow)
	require.NoError(t, h.store.CreateOrder(context.Background(), second))

	mine, err := h.svc.ListMyOrders(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Len(t, h.catalog.lookups, 1)
	assert.ElementsMatch(t, []string{"p-1", "p-gone"}, h.catalog.lookups[0])

	for _, view := range mine {
		for _, line := range view.Products {
			if line.Product.ID == "p-gone" {
				assert.Empty(t, line.Product.Name)
				continue
			}
			assert.Equal(t, "Cotton Crew T-Shirt", line.Product.Name)
		}
	}
}

func TestListMyOrders_CatalogError(t *testing.T) {
	h := newHarness()
	seedPendingOrder(h)
	h.catalog.err = errors.New("mongo: socket closed")

	_, err := h.svc.ListMyOrders(context.Background(), "user-1")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}
