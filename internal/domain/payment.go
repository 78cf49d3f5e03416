package domain

import "time"

// PaymentOrderStatus tracks a gateway order through checkout.
type PaymentOrderStatus string

const (
	PaymentOrderCreated PaymentOrderStatus = "CREATED"
	PaymentOrderPaid    PaymentOrderStatus = "PAID"
)

// PaymentOrder mirrors an order created at the payment gateway.
// Amount is expressed in the currency's smallest unit.
type PaymentOrder struct {
	ID        string
	Receipt   string
	Amount    int64
	Currency  string
	Status    PaymentOrderStatus
	PaymentID *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
