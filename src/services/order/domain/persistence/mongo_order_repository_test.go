package persistence

import (
	"testing"
	"time"

	"go-storefront-payments/src/services/order/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func sampleOrder() *domain.Order {
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	return domain.NewOrder(
		"order-1",
		"user-1",
		domain.Address{Name: "Asha", Line1: "12 MG Road", City: "Pune", PostalCode: "411001", Country: "IN"},
		[]domain.LineItem{{ProductID: "p-1", Quantity: 2}, {ProductID: "p-2", Quantity: 1}},
		500,
		now,
	)
}

func TestOrderDocument_RoundTripThroughBSON(t *testing.T) {
	order := sampleOrder()
	order.TransactionID = "order_abc"

	raw, err := bson.Marshal(ToDocument(order))
	require.NoError(t, err)

	var doc OrderDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))

	got := doc.ToDomain()
	assert.Equal(t, order.ID, got.ID)
	assert.Equal(t, order.Address, got.Address)
	assert.Equal(t, order.Products, got.Products)
	assert.Equal(t, order.DeliveryDate.UnixMilli(), got.DeliveryDate.UnixMilli())
	assert.Equal(t, "order_abc", got.TransactionID)
}

func TestOrderDocument_FieldNames(t *testing.T) {
	raw, err := bson.Marshal(ToDocument(sampleOrder()))
	require.NoError(t, err)

	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	for _, key := range []string{"id", "user", "address", "products", "totalAmount",
		"paymentStatus", "paymentMethod", "orderStatus", "deliveryDate", "createdAt"} {
		assert.Contains(t, m, key)
	}
	// transaction id stays absent until the gateway responds
	assert.NotContains(t, m, "transactionId")
	assert.Equal(t, domain.PaymentStatusPending, m["paymentStatus"])
}

func TestCompletePaymentUpdate(t *testing.T) {
	at := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	update := CompletePaymentUpdate("pay_xyz", at)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, domain.PaymentStatusCompleted, set["paymentStatus"])
	assert.Equal(t, "pay_xyz", set["transactionId"])
	assert.Equal(t, at, set["updatedAt"])

	_, err := bson.Marshal(update)
	assert.NoError(t, err)
}

func TestUnreplayedFilter(t *testing.T) {
	filter := UnreplayedFilter()

	_, err := bson.Marshal(filter)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"$ne": true}, filter["replayed"])
}
