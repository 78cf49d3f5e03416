package payments

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// ErrGatewayNotConfigured is returned when no gateway credentials were provided.
var ErrGatewayNotConfigured = errors.New("payment gateway not configured")

// Order is the gateway's view of a created order. Amount is in the currency's smallest unit.
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// Gateway creates orders at the payment provider.
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)
}

// orderCreator is the slice of the Razorpay SDK used here.
type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway creates orders through the Razorpay SDK.
type RazorpayGateway struct {
	orders orderCreator
}

// NewRazorpayGateway builds a gateway client for the given API credentials.
func NewRazorpayGateway(keyID, keySecret string) (*RazorpayGateway, error) {
	if keyID == "" || keySecret == "" {
		return nil, ErrGatewayNotConfigured
	}
	client := razorpay.NewClient(keyID, keySecret)
	return &RazorpayGateway{orders: client.Order}, nil
}

// CreateOrder creates an auto-captured order.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resp, err := g.orders.Create(map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	return decodeOrder(resp)
}

func decodeOrder(resp map[string]interface{}) (*Order, error) {
	id, _ := resp["id"].(string)
	if id == "" {
		return nil, errors.New("razorpay create order: response missing id")
	}
	order := &Order{ID: id}
	order.Currency, _ = resp["currency"].(string)

	switch v := resp["amount"].(type) {
	case float64:
		order.Amount = int64(v)
	case int64:
		order.Amount = v
	case int:
		order.Amount = int64(v)
	default:
		return nil, fmt.Errorf("razorpay create order: unexpected amount %T", resp["amount"])
	}
	return order, nil
}
