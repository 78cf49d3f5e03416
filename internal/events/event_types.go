package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/art-gallery-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventPaymentOrderCreated EventType = "payment_order_created"
	EventPaymentVerified     EventType = "payment_verified"
	EventPaymentRejected     EventType = "payment_rejected"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, subject string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
}

// PaymentOrderCreatedPayload payload.
type PaymentOrderCreatedPayload struct {
	OrderID  string `json:"order_id"`
	Receipt  string `json:"receipt"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentVerifiedPayload payload.
type PaymentVerifiedPayload struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Replayed  bool   `json:"replayed"`
}

// PaymentRejectedPayload payload.
type PaymentRejectedPayload struct {
	OrderID   string `json:"order_id,omitempty"`
	PaymentID string `json:"payment_id,omitempty"`
	Reason    string `json:"reason"`
}
