package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOrders struct {
	got  map[string]interface{}
	resp map[string]interface{}
	err  error
}

func (s *stubOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.got = data
	return s.resp, s.err
}

func TestNewRazorpayGateway_RequiresCredentials(t *testing.T) {
	_, err := NewRazorpayGateway("", "secret")
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)

	_, err = NewRazorpayGateway("rzp_test_key", "")
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)

	gw, err := NewRazorpayGateway("rzp_test_key", "secret")
	require.NoError(t, err)
	assert.NotNil(t, gw)
}

func TestRazorpayGateway_CreateOrder(t *testing.T) {
	stub := &stubOrders{resp: map[string]interface{}{
		"id":       "order_9A33XWu170gUtm",
		"amount":   float64(250000),
		"currency": "INR",
		"status":   "created",
	}}
	gw := &RazorpayGateway{orders: stub}

	order, err := gw.CreateOrder(context.Background(), 250000, "INR", "rcpt_1")
	require.NoError(t, err)
	assert.Equal(t, &Order{ID: "order_9A33XWu170gUtm", Amount: 250000, Currency: "INR"}, order)

	assert.Equal(t, int64(250000), stub.got["amount"])
	assert.Equal(t, "INR", stub.got["currency"])
	assert.Equal(t, "rcpt_1", stub.got["receipt"])
	assert.Equal(t, 1, stub.got["payment_capture"])
}

func TestRazorpayGateway_CreateOrderFailures(t *testing.T) {
	gw := &RazorpayGateway{orders: &stubOrders{err: errors.New("BAD_REQUEST_ERROR")}}
	_, err := gw.CreateOrder(context.Background(), 100, "INR", "rcpt_1")
	assert.ErrorContains(t, err, "BAD_REQUEST_ERROR")

	gw = &RazorpayGateway{orders: &stubOrders{resp: map[string]interface{}{"amount": float64(100)}}}
	_, err = gw.CreateOrder(context.Background(), 100, "INR", "rcpt_1")
	assert.ErrorContains(t, err, "missing id")

	gw = &RazorpayGateway{orders: &stubOrders{resp: map[string]interface{}{"id": "order_1", "amount": "100"}}}
	_, err = gw.CreateOrder(context.Background(), 100, "INR", "rcpt_1")
	assert.ErrorContains(t, err, "unexpected amount")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gw.CreateOrder(ctx, 100, "INR", "rcpt_1")
	assert.ErrorIs(t, err, context.Canceled)
}
