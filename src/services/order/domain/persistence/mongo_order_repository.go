package persistence

import (
	"context"
	"errors"
	"time"

	"go-storefront-payments/src/config"
	"go-storefront-payments/src/services/order/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ordersCollection = "orders"
	eventsCollection = "payment_events"
)

// ErrOrderNotFound is returned by lookups that match no document.
var ErrOrderNotFound = errors.New("order not found")

type OrderRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// OrderDocument is the storage model for MongoDB
type OrderDocument struct {
	ID            string             `bson:"id"`
	UserID        string             `bson:"user"`
	Address       AddressDocument    `bson:"address"`
	Products      []LineItemDocument `bson:"products"`
	TotalAmount   float64            `bson:"totalAmount"`
	PaymentStatus string             `bson:"paymentStatus"`
	PaymentMethod string             `bson:"paymentMethod"`
	OrderStatus   string             `bson:"orderStatus"`
	DeliveryDate  time.Time          `bson:"deliveryDate"`
	TransactionID string             `bson:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type LineItemDocument struct {
	ProductID string `bson:"product"`
	Quantity  int    `bson:"quantity"`
}

type AddressDocument struct {
	Name       string `bson:"name,omitempty"`
	Line1      string `bson:"line1"`
	Line2      string `bson:"line2,omitempty"`
	City       string `bson:"city,omitempty"`
	State      string `bson:"state,omitempty"`
	PostalCode string `bson:"postalCode,omitempty"`
	Country    string `bson:"country,omitempty"`
	Phone      string `bson:"phone,omitempty"`
}

func NewOrderRepository(cfg *config.Config, client *mongo.Client) *OrderRepository {
	return NewOrderRepositoryFromDB(client.Database(cfg.MongoDBDatabaseName))
}

func NewOrderRepositoryFromDB(db *mongo.Database) *OrderRepository {
	return &OrderRepository{
		collection: db.Collection(ordersCollection),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique order id index and the per-user listing index.
func (r *OrderRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}
	_, err = r.collection.Database().Collection(eventsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "replayed", Value: 1}, {Key: "createdAt", Value: 1}},
	})
	return err
}

func (r *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	_, err := r.collection.InsertOne(ctx, ToDocument(order))
	return err
}

func (r *OrderRepository) GetOrderByID(ctx context.Context, id string) (*domain.Order, error) {
	var doc OrderDocument
	err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return doc.ToDomain(), nil
}

// ListOrdersByUser returns the user's orders, newest first.
func (r *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []domain.Order{}
	for cursor.Next(ctx) {
		var doc OrderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		orders = append(orders, *doc.ToDomain())
	}
	return orders, cursor.Err()
}

// AttachTransaction stores the gateway's order reference on the order.
func (r *OrderRepository) AttachTransaction(ctx context.Context, id, gatewayOrderID string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"transactionId": gatewayOrderID,
		"updatedAt":     r.now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// MarkPaymentCompleted sets the payment as completed regardless of the
// order's prior state and reports whether a document matched.
func (r *OrderRepository) MarkPaymentCompleted(ctx context.Context, id, paymentID string) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, CompletePaymentUpdate(paymentID, r.now()))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// MarkOrderFailed flags an order whose gateway intent could not be created.
func (r *OrderRepository) MarkOrderFailed(ctx context.Context, id string) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"orderStatus": domain.OrderStatusFailed,
		"updatedAt":   r.now(),
	}})
	return err
}

func CompletePaymentUpdate(paymentID string, at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"paymentStatus": domain.PaymentStatusCompleted,
		"transactionId": paymentID,
		"updatedAt":     at,
	}}
}

func ToDocument(order *domain.Order) OrderDocument {
	items := make([]LineItemDocument, 0, len(order.Products))
	for _, p := range order.Products {
		items = append(items, LineItemDocument{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return OrderDocument{
		ID:     order.ID,
		UserID: order.UserID,
		Address: AddressDocument{
			Name:       order.Address.Name,
			Line1:      order.Address.Line1,
			Line2:      order.Address.Line2,
			City:       order.Address.City,
			State:      order.Address.State,
			PostalCode: order.Address.PostalCode,
			Country:    order.Address.Country,
			Phone:      order.Address.Phone,
		},
		Products:      items,
		TotalAmount:   order.TotalAmount,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		OrderStatus:   order.OrderStatus,
		DeliveryDate:  order.DeliveryDate,
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

func (d *OrderDocument) ToDomain() *domain.Order {
	items := make([]domain.LineItem, 0, len(d.Products))
	for _, p := range d.Products {
		items = append(items, domain.LineItem{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return &domain.Order{
		ID:     d.ID,
		UserID: d.UserID,
		Address: domain.Address{
			Name:       d.Address.Name,
			Line1:      d.Address.Line1,
			Line2:      d.Address.Line2,
			City:       d.Address.City,
			State:      d.Address.State,
			PostalCode: d.Address.PostalCode,
			Country:    d.Address.Country,
			Phone:      d.Address.Phone,
		},
		Products:      items,
		TotalAmount:   d.TotalAmount,
		PaymentStatus: d.PaymentStatus,
		PaymentMethod: d.PaymentMethod,
		OrderStatus:   d.OrderStatus,
		DeliveryDate:  d.DeliveryDate,
		TransactionID: d.TransactionID,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
