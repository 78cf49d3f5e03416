package dto

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// CreateOrderRequest carries an amount in rupees.
type CreateOrderRequest struct {
	Amount float64 `json:"amount"`
}

func (r *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Amount, validation.Required, validation.Min(0.01)),
	)
}

// CreateOrderResponse is consumed by the checkout widget.
type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

// VerifyPaymentRequest is the provider callback. The short aliases are accepted from
// clients that rename the fields.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
	OrderID           string `json:"orderId"`
	PaymentID         string `json:"paymentId"`
	Signature         string `json:"signature"`
}

// Normalize returns order id, payment id and signature, preferring the provider's names.
func (r VerifyPaymentRequest) Normalize() (orderID, paymentID, signature string) {
	return firstNonBlank(r.RazorpayOrderID, r.OrderID),
		firstNonBlank(r.RazorpayPaymentID, r.PaymentID),
		firstNonBlank(r.RazorpaySignature, r.Signature)
}

// VerifyPaymentResponse is returned for every verification attempt.
type VerifyPaymentResponse struct {
	Verified bool   `json:"verified"`
	Success  bool   `json:"success,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
	Field    string `json:"field,omitempty"`
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
