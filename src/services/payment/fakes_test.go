package payment

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"go-storefront-payments/src/infrastructure/log"
	"go-storefront-payments/src/services/catalog"
	"go-storefront-payments/src/services/order/domain"
	"go-storefront-payments/src/services/order/domain/persistence"
)

type storedEvent struct {
	orderID string
	topic   string
	data    []byte
}

type fakeStore struct {
	mu sync.Mutex

	orders      map[string]*domain.Order
	createErr   error
	attachErr   error
	completeErr error
	failedIDs   []string
	completions int

	stored      []storedEvent
	unreplayed  []persistence.PaymentEvent
	eventStatus map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: map[string]*domain.Order{}, eventStatus: map[string]string{}}
}

func (f *fakeStore) CreateOrder(_ context.Context, order *domain.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	cp := *order
	f.orders[order.ID] = &cp
	return nil
}

func (f *fakeStore) AttachTransaction(_ context.Context, id, gatewayOrderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.attachErr != nil {
		return f.attachErr
	}
	o, ok := f.orders[id]
	if !ok {
		return persistence.ErrOrderNotFound
	}
	o.TransactionID = gatewayOrderID
	return nil
}

func (f *fakeStore) MarkPaymentCompleted(_ context.Context, id, paymentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completions++
	if f.completeErr != nil {
		return false, f.completeErr
	}
	o, ok := f.orders[id]
	if !ok {
		return false, nil
	}
	o.PaymentStatus = domain.PaymentStatusCompleted
	o.TransactionID = paymentID
	return true, nil
}

func (f *fakeStore) MarkOrderFailed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failedIDs = append(f.failedIDs, id)
	if o, ok := f.orders[id]; ok {
		o.OrderStatus = domain.OrderStatusFailed
	}
	return nil
}

func (f *fakeStore) GetOrderByID(_ context.Context, id string) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, persistence.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) ListOrdersByUser(_ context.Context, userID string) ([]domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Order{}
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeStore) StoreEventForReplay(_ context.Context, orderID, topic string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stored = append(f.stored, storedEvent{orderID: orderID, topic: topic, data: data})
	return nil
}

func (f *fakeStore) GetUnreplayedEvents(_ context.Context, _ int64) ([]persistence.PaymentEvent, error) {
	return f.unreplayed, nil
}

func (f *fakeStore) MarkEventAsReplaying(_ context.Context, id string) error {
	f.eventStatus[id] = "replaying"
	return nil
}

func (f *fakeStore) MarkEventAsCompleted(_ context.Context, id string) error {
	f.eventStatus[id] = "completed"
	return nil
}

func (f *fakeStore) MarkEventAsFailed(_ context.Context, id string) error {
	f.eventStatus[id] = "failed"
	return nil
}

func (f *fakeStore) order(id string) *domain.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

type fakeGateway struct {
	requests []IntentRequest
	err      error
}

func (g *fakeGateway) CreateOrder(_ context.Context, req IntentRequest) (*Intent, error) {
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	return &Intent{
		ID:        "order_abc",
		Entity:    "order",
		Amount:    req.Amount,
		AmountDue: req.Amount,
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    "created",
	}, nil
}

type published struct {
	topic string
	body  []byte
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []published
	failures int // number of leading Publish calls that fail
	calls    int
}

func (p *fakePublisher) Publish(topic string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failures {
		return errors.New("broker unavailable")
	}
	p.messages = append(p.messages, published{topic: topic, body: body})
	return nil
}

func (p *fakePublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, m := range p.messages {
		out = append(out, m.topic)
	}
	return out
}

type fakeCatalog struct {
	products map[string]catalog.Product
	lookups  [][]string
	err      error
}

func (c *fakeCatalog) GetProductsByIDs(_ context.Context, ids []string) ([]catalog.Product, error) {
	c.lookups = append(c.lookups, ids)
	if c.err != nil {
		return nil, c.err
	}
	out := []catalog.Product{}
	for _, id := range ids {
		if p, ok := c.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeMetrics struct {
	intents       []string
	verifications []string
}

func (m *fakeMetrics) ObserveIntent(outcome string)       { m.intents = append(m.intents, outcome) }
func (m *fakeMetrics) ObserveVerification(outcome string) { m.verifications = append(m.verifications, outcome) }

const testSecret = "s3cret"

var fixedNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

type harness struct {
	svc       *paymentService
	store     *fakeStore
	gateway   *fakeGateway
	publisher *fakePublisher
	metrics   *fakeMetrics
	catalog   *fakeCatalog
}

func newHarness() *harness {
	h := &harness{
		store:     newFakeStore(),
		gateway:   &fakeGateway{},
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{},
		catalog: &fakeCatalog{products: map[string]catalog.Product{
			"p-1": {ID: "p-1", Name: "Cotton Crew T-Shirt", Price: 499, Images: []catalog.Image{{PublicID: "tee", URL: "https://cdn.example.com/tee.jpg"}}},
		}},
	}
	svc := NewPaymentService(
		log.NewLoggerWithOutput(io.Discard),
		h.store,
		h.store,
		h.catalog,
		h.gateway,
		h.publisher,
		h.metrics,
		Settings{KeySecret: testSecret, Currency: "INR", PublishRetries: 2},
	).(*paymentService)
	svc.now = func() time.Time { return fixedNow }
	svc.newID = func() string { return "64f1c2a9e4b0a1b2c3d4e5f6" }
	h.svc = svc
	return h
}
