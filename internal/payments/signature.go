// Package payments holds the payment-provider integration: order creation through the
// gateway and verification of the provider's callback signatures.
package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrMissingField      = errors.New("missing required field")
	ErrSignatureMismatch = errors.New("signature verification failed")
)

// Callback field names as sent by the provider.
const (
	FieldOrderID   = "razorpay_order_id"
	FieldPaymentID = "razorpay_payment_id"
	FieldSignature = "razorpay_signature"
)

// MissingFieldError names the callback field that was empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingField, e.Field)
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// Sign returns hex(HMAC-SHA256(secret, orderID|paymentID)).
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID))
	mac.Write([]byte{'|'})
	mac.Write([]byte(paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether claimed is the provider signature for the order/payment pair.
// The hex comparison is exact and runs in constant time.
func VerifySignature(orderID, paymentID, claimed, secret string) (bool, error) {
	switch {
	case orderID == "":
		return false, &MissingFieldError{Field: FieldOrderID}
	case paymentID == "":
		return false, &MissingFieldError{Field: FieldPaymentID}
	case claimed == "":
		return false, &MissingFieldError{Field: FieldSignature}
	}

	expected := Sign(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(claimed)), nil
}
