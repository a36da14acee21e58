package payment

import (
	"context"
	"testing"

	"go-storefront-payments/src/services/events"
	"go-storefront-payments/src/services/order/domain/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayFailedEvents_RepublishesToRecordedTopic(t *testing.T) {
	h := newHarness()
	h.store.unreplayed = []persistence.PaymentEvent{
		{ID: "evt-1", OrderID: "o-1", Topic: events.PaymentCompleted, EventData: []byte(`{"orderId":"o-1"}`)},
		{ID: "evt-2", OrderID: "o-2", Topic: events.PaymentFailed, EventData: []byte(`{"orderId":"o-2"}`)},
	}

	result, err := h.svc.ReplayFailedEvents(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &ReplayResult{Total: 2, Replayed: 2}, result)
	assert.Equal(t, []string{events.PaymentCompleted, events.PaymentFailed}, h.publisher.topics())
	assert.Equal(t, "completed", h.store.eventStatus["evt-1"])
	assert.Equal(t, "completed", h.store.eventStatus["evt-2"])
}

func TestReplayFailedEvents_MarksFailures(t *testing.T) {
	h := newHarness()
	h.publisher.failures = 2 // both attempts for the first event
	h.store.unreplayed = []persistence.PaymentEvent{
		{ID: "evt-1", Topic: events.PaymentInitiated, EventData: []byte(`{}`)},
		{ID: "evt-2", Topic: events.PaymentInitiated, EventData: []byte(`{}`)},
	}

	result, err := h.svc.ReplayFailedEvents(context.Background())
	require.Error(t, err)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Replayed)
	assert.Equal(t, "failed", h.store.eventStatus["evt-1"])
	assert.Equal(t, "completed", h.store.eventStatus["evt-2"])
}

func TestReplayFailedEvents_Empty(t *testing.T) {
	h := newHarness()

	result, err := h.svc.ReplayFailedEvents(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Empty(t, h.publisher.topics())
}

func TestReplayFailedEvents_RejectsOverlappingRun(t *testing.T) {
	h := newHarness()
	h.store.unreplayed = []persistence.PaymentEvent{
		{ID: "evt-1", OrderID: "o-1", Topic: events.PaymentCompleted, EventData: []byte(`{"orderId":"o-1"}`)},
	}
	h.svc.replayMu.Lock()

	_, err := h.svc.ReplayFailedEvents(context.Background())

	assert.ErrorIs(t, err, ErrReplayInProgress)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Empty(t, h.publisher.topics())

	h.svc.replayMu.Unlock()
	result, err := h.svc.ReplayFailedEvents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Replayed)
}
