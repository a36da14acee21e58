package payment

import (
	"context"
	"sync"
	"time"

	"go-storefront-payments/src/infrastructure/log"
	"go-storefront-payments/src/services/catalog"
	"go-storefront-payments/src/services/order/domain"
	"go-storefront-payments/src/services/order/domain/persistence"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Service interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*CreateOrderResult, error)
	VerifyPayment(ctx context.Context, in VerifyInput) error
	ListMyOrders(ctx context.Context, userID string) ([]OrderView, error)
	GetOrder(ctx context.Context, userID, orderID string) (*OrderView, error)
	ReplayFailedEvents(ctx context.Context) (*ReplayResult, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	AttachTransaction(ctx context.Context, id, gatewayOrderID string) error
	MarkPaymentCompleted(ctx context.Context, id, paymentID string) (bool, error)
	MarkOrderFailed(ctx context.Context, id string) error
	GetOrderByID(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// EventStore keeps events that could not be published for later replay.
type EventStore interface {
	StoreEventForReplay(ctx context.Context, orderID, topic string, eventData []byte) error
	GetUnreplayedEvents(ctx context.Context, limit int64) ([]persistence.PaymentEvent, error)
	MarkEventAsReplaying(ctx context.Context, eventID string) error
	MarkEventAsCompleted(ctx context.Context, eventID string) error
	MarkEventAsFailed(ctx context.Context, eventID string) error
}

// ProductLookup resolves line-item product ids against the catalog.
type ProductLookup interface {
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]catalog.Product, error)
}

type EventPublisher interface {
	Publish(topic string, body []byte) error
}

type Metrics interface {
	ObserveIntent(outcome string)
	ObserveVerification(outcome string)
}

const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"

	OutcomeVerified         = "verified"
	OutcomeInvalidData      = "invalid_data"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeError            = "error"
)

type Settings struct {
	KeySecret      string
	Currency       string
	PublishRetries int
	RetryDelay     time.Duration
}

type paymentService struct {
	logger     log.Logger
	orders     OrderStore
	eventStore EventStore
	products   ProductLookup
	gateway    Gateway
	publisher  EventPublisher
	metrics    Metrics

	secret         string
	currency       string
	publishRetries int
	retryDelay     time.Duration

	now   func() time.Time
	newID func() string

	replayMu sync.Mutex
}

func NewPaymentService(
	logger log.Logger,
	orders OrderStore,
	eventStore EventStore,
	products ProductLookup,
	gateway Gateway,
	publisher EventPublisher,
	metrics Metrics,
	settings Settings,
) Service {
	if settings.Currency == "" {
		settings.Currency = "INR"
	}
	if settings.PublishRetries <= 0 {
		settings.PublishRetries = 3
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &paymentService{
		logger:         logger,
		orders:         orders,
		eventStore:     eventStore,
		products:       products,
		gateway:        gateway,
		publisher:      publisher,
		metrics:        metrics,
		secret:         settings.KeySecret,
		currency:       settings.Currency,
		publishRetries: settings.PublishRetries,
		retryDelay:     settings.RetryDelay,
		now:            time.Now,
		newID:          func() string { return primitive.NewObjectID().Hex() },
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveIntent(string)       {}
func (noopMetrics) ObserveVerification(string) {}
