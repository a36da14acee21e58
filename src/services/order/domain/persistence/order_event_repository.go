package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-storefront-payments/src/services/events"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PaymentEvent struct {
	ID         string     `bson:"_id,omitempty"`
	OrderID    string     `bson:"orderId"`
	Topic      string     `bson:"topic"`
	EventData  []byte     `bson:"eventData"`
	CreatedAt  time.Time  `bson:"createdAt"`
	Replayed   bool       `bson:"replayed"`
	ReplayedAt *time.Time `bson:"replayedAt,omitempty"`
	Status     string     `bson:"status"`
}

// StoreEventForReplay keeps an event that could not be delivered so it can
// be republished to topic later.
func (r *OrderRepository) StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error {
	if !json.Valid(eventData) {
		return errors.New("invalid JSON event data")
	}
	if topic == "" {
		return errors.New("event topic is required")
	}

	eventDoc := PaymentEvent{
		ID:        primitive.NewObjectID().Hex(),
		OrderID:   orderID,
		Topic:     topic,
		EventData: eventData,
		CreatedAt: r.now(),
		Replayed:  false,
		Status:    events.EventStatusFailed,
	}

	_, err := r.events().InsertOne(ctx, eventDoc)
	return err
}

// GetUnreplayedEvents fetches events that have not been replayed yet, oldest first.
func (r *OrderRepository) GetUnreplayedEvents(ctx context.Context, limit int64) ([]PaymentEvent, error) {
	opts := options.Find().SetLimit(limit).SetSort(bson.D{bson.E{Key: "createdAt", Value: 1}})
	cursor, err := r.events().Find(ctx, UnreplayedFilter(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stored []PaymentEvent
	for cursor.Next(ctx) {
		var evt PaymentEvent
		if err := cursor.Decode(&evt); err != nil {
			return nil, err
		}
		stored = append(stored, evt)
	}
	return stored, cursor.Err()
}

func (r *OrderRepository) MarkEventAsReplaying(ctx context.Context, eventID string) error {
	return r.setEventFields(ctx, eventID, bson.M{"status": events.EventStatusReplaying})
}

func (r *OrderRepository) MarkEventAsCompleted(ctx context.Context, eventID string) error {
	return r.setEventFields(ctx, eventID, bson.M{
		"status":     events.EventStatusCompleted,
		"replayed":   true,
		"replayedAt": r.now(),
	})
}

func (r *OrderRepository) MarkEventAsFailed(ctx context.Context, eventID string) error {
	return r.setEventFields(ctx, eventID, bson.M{"status": events.EventStatusFailed})
}

// UnreplayedFilter matches stored events still waiting for a successful replay.
func UnreplayedFilter() bson.M {
	return bson.M{
		"replayed": bson.M{"$ne": true},
		"status": bson.M{"$in": []string{
			events.EventStatusPending,
			events.EventStatusFailed,
			events.EventStatusReplaying,
		}},
	}
}

func (r *OrderRepository) setEventFields(ctx context.Context, eventID string, fields bson.M) error {
	_, err := r.events().UpdateOne(ctx, bson.M{"_id": eventID}, bson.M{"$set": fields})
	return err
}

func (r *OrderRepository) events() *mongo.Collection {
	return r.collection.Database().Collection(eventsCollection)
}
