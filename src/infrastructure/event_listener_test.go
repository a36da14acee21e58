package infrastructure

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"go-storefront-payments/src/infrastructure/log"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAcker struct {
	mu   sync.Mutex
	acks int
}

func (a *fakeAcker) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acks++
	return nil
}
func (a *fakeAcker) Nack(uint64, bool, bool) error { return nil }
func (a *fakeAcker) Reject(uint64, bool) error     { return nil }

type fakeConsumer struct {
	mu     sync.Mutex
	calls  int
	queues map[string]chan amqp.Delivery
	err    error
}

func (c *fakeConsumer) Consume(queueName string) (<-chan amqp.Delivery, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.queues[queueName], nil
}

type handlerFunc func(ctx context.Context, body []byte)

func (f handlerFunc) Handle(ctx context.Context, body []byte) { f(ctx, body) }

func TestEventListener_DispatchesAndAcks(t *testing.T) {
	acker := &fakeAcker{}
	queue := make(chan amqp.Delivery, 1)
	queue <- amqp.Delivery{Acknowledger: acker, Body: []byte(`{"orderId":"o1"}`), CorrelationId: "corr-1"}
	consumer := &fakeConsumer{queues: map[string]chan amqp.Delivery{"payment.completed": queue}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []byte
	listener := NewEventListener(consumer, log.NewLoggerWithOutput(io.Discard))
	listener.RegisterHandler("payment.completed", handlerFunc(func(_ context.Context, body []byte) {
		got = body
		cancel()
	}))

	done := make(chan error, 1)
	go func() { done <- listener.StartListening(ctx) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not stop")
	}
	assert.JSONEq(t, `{"orderId":"o1"}`, string(got))
	assert.Equal(t, 1, acker.acks)
}

func TestEventListener_NoHandlers(t *testing.T) {
	listener := NewEventListener(&fakeConsumer{}, log.NewLoggerWithOutput(io.Discard))

	assert.Error(t, listener.StartListening(context.Background()))
}

func TestEventListener_GivesUpAfterMaxRetries(t *testing.T) {
	consumer := &fakeConsumer{err: errors.New("channel closed")}
	listener := NewEventListener(consumer, log.NewLoggerWithOutput(io.Discard))
	listener.maxRetries = 3
	listener.retryDelay = time.Millisecond
	listener.RegisterHandler("payment.failed", handlerFunc(func(context.Context, []byte) {}))

	require.NoError(t, listener.StartListening(context.Background()))
	assert.Equal(t, 3, consumer.calls)
}

func TestEventListener_ReconnectsWhenChannelCloses(t *testing.T) {
	closed := make(chan amqp.Delivery)
	close(closed)
	consumer := &fakeConsumer{queues: map[string]chan amqp.Delivery{"payment.initiated": closed}}
	listener := NewEventListener(consumer, log.NewLoggerWithOutput(io.Discard))
	listener.maxRetries = 2
	listener.RegisterHandler("payment.initiated", handlerFunc(func(context.Context, []byte) {}))

	require.NoError(t, listener.StartListening(context.Background()))
	assert.Equal(t, 2, consumer.calls)
}
