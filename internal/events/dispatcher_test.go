package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()

	var calls []string
	failure := errors.New("webhook down")
	d.Subscribe(EventPaymentVerified, func(_ context.Context, e Event) error {
		calls = append(calls, "first")
		return failure
	})
	d.Subscribe(EventPaymentVerified, func(_ context.Context, e Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		calls = append(calls, "unrelated")
		return nil
	})

	err := d.Publish(context.Background(), New(EventPaymentVerified, "", PaymentVerifiedPayload{OrderID: "order_1"}))
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcher_SubscribeAllAndPanics(t *testing.T) {
	d := NewInMemoryDispatcher()

	var seen []EventType
	d.Subscribe(EventPaymentRejected, func(context.Context, Event) error {
		panic("boom")
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		seen = append(seen, e.Type)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), New(EventUserRegistered, "a@b.c", nil)))
	err := d.Publish(context.Background(), New(EventPaymentRejected, "", nil))
	assert.ErrorContains(t, err, "panicked")
	assert.Equal(t, []EventType{EventUserRegistered, EventPaymentRejected}, seen)
}

func TestDispatcher_NoListeners(t *testing.T) {
	d := NewInMemoryDispatcher()
	require.NoError(t, d.Publish(context.Background(), New(EventUserRegistered, "a@b.c", nil)))
}

func TestNew(t *testing.T) {
	e := New(EventPaymentRejected, "", PaymentRejectedPayload{Reason: "signature_mismatch"})
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, EventPaymentRejected, e.Type)
	assert.False(t, e.Timestamp.IsZero())
}
