package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/art-gallery-service/internal/config"
	"github.com/spec-kit/art-gallery-service/internal/domain"
	"github.com/spec-kit/art-gallery-service/internal/events"
	"github.com/spec-kit/art-gallery-service/internal/payments"
	"github.com/spec-kit/art-gallery-service/internal/repository"
	apperrors "github.com/spec-kit/art-gallery-service/pkg/util/errorutil"
)

// Verification outcomes reported to the recorder.
const (
	VerificationVerified     = "verified"
	VerificationReplayed     = "replayed"
	VerificationMismatch     = "mismatch"
	VerificationMissingField = "missing_field"
)

// VerificationRecorder counts callback verification outcomes.
type VerificationRecorder interface {
	RecordPaymentVerification(outcome string)
}

// CreatedOrder is what the checkout page needs to open the provider's widget.
type CreatedOrder struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string
}

// VerifyPaymentInput is a payment callback after field aliases were resolved.
type VerifyPaymentInput struct {
	OrderID   string
	PaymentID string
	Signature string
}

// VerificationResult describes an accepted callback.
type VerificationResult struct {
	OrderID   string
	PaymentID string
	Replayed  bool
}

// PaymentService creates gateway orders and verifies payment callbacks.
type PaymentService struct {
	gateway    payments.Gateway
	orders     repository.PaymentOrderRepository
	replays    repository.PaymentReplayCache
	dispatcher events.Dispatcher
	recorder   VerificationRecorder
	logger     *zap.Logger
	keyID      string
	keySecret  string
	currency   string
	now        func() time.Time
}

// PaymentDependencies encapsulates collaborators for the payment service.
type PaymentDependencies struct {
	Gateway    payments.Gateway
	OrderRepo  repository.PaymentOrderRepository
	Replays    repository.PaymentReplayCache
	Dispatcher events.Dispatcher
	Recorder   VerificationRecorder
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewPaymentService builds the service. A nil gateway disables order creation.
func NewPaymentService(cfg config.PaymentsConfig, deps PaymentDependencies) *PaymentService {
	s := &PaymentService{
		gateway:    deps.Gateway,
		orders:     deps.OrderRepo,
		replays:    deps.Replays,
		dispatcher: deps.Dispatcher,
		recorder:   deps.Recorder,
		logger:     deps.Logger,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		currency:   cfg.Currency,
		now:        deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.currency == "" {
		s.currency = "INR"
	}
	return s
}

// KeyID returns the public key id handed to the checkout page.
func (s *PaymentService) KeyID() string {
	return s.keyID
}

// Ready reports whether orders can be created.
func (s *PaymentService) Ready() bool {
	return s.gateway != nil
}

// CreateOrder converts a rupee amount to paise and creates the order at the gateway.
func (s *PaymentService) CreateOrder(ctx context.Context, amount float64) (*CreatedOrder, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be greater than zero", map[string]any{"amount": amount})
	}
	if s.gateway == nil {
		return nil, apperrors.NewServiceUnavailable("payment gateway not configured")
	}

	paise := int64(math.Round(amount * 100))
	receipt := fmt.Sprintf("rcpt_%d", s.now().UnixMilli())

	order, err := s.gateway.CreateOrder(ctx, paise, s.currency, receipt)
	if errors.Is(err, payments.ErrGatewayNotConfigured) {
		return nil, apperrors.NewServiceUnavailable("payment gateway not configured")
	}
	if err != nil {
		s.logger.Error("create order failed", zap.String("receipt", receipt), zap.Error(err))
		return nil, apperrors.NewBadGateway("failed to create payment order", err)
	}
	if order.Currency == "" {
		order.Currency = s.currency
	}

	if s.orders != nil {
		stored := &domain.PaymentOrder{
			ID:       order.ID,
			Receipt:  receipt,
			Amount:   order.Amount,
			Currency: order.Currency,
			Status:   domain.PaymentOrderCreated,
		}
		if err := s.orders.Create(ctx, stored); err != nil {
			s.logger.Warn("payment order not persisted", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	s.publish(ctx, events.New(events.EventPaymentOrderCreated, "", events.PaymentOrderCreatedPayload{
		OrderID:  order.ID,
		Receipt:  receipt,
		Amount:   order.Amount,
		Currency: order.Currency,
	}))

	return &CreatedOrder{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifyPayment checks a callback signature. It returns a *payments.MissingFieldError for an
// empty field and payments.ErrSignatureMismatch for a bad signature. Bookkeeping after a
// successful check never changes the verdict.
func (s *PaymentService) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*VerificationResult, error) {
	ok, err := payments.VerifySignature(in.OrderID, in.PaymentID, in.Signature, s.keySecret)
	if err != nil {
		s.reject(ctx, in, VerificationMissingField, err)
		return nil, err
	}
	if s.keySecret == "" {
		return nil, apperrors.NewServiceUnavailable("payment verification not configured")
	}
	if !ok {
		s.reject(ctx, in, VerificationMismatch, payments.ErrSignatureMismatch)
		return nil, payments.ErrSignatureMismatch
	}

	result := &VerificationResult{OrderID: in.OrderID, PaymentID: in.PaymentID}
	if s.replays != nil {
		first, err := s.replays.Remember(ctx, in.PaymentID, in.OrderID)
		if err != nil {
			s.logger.Warn("replay cache unavailable", zap.String("payment_id", in.PaymentID), zap.Error(err))
		} else if !first {
			result.Replayed = true
			s.logger.Info("duplicate payment callback", zap.String("order_id", in.OrderID), zap.String("payment_id", in.PaymentID))
		}
	}

	if s.orders != nil && !result.Replayed {
		if err := s.orders.MarkPaid(ctx, in.OrderID, in.PaymentID); err != nil {
			s.logger.Warn("payment order not marked paid", zap.String("order_id", in.OrderID), zap.Error(err))
		}
	}

	outcome := VerificationVerified
	if result.Replayed {
		outcome = VerificationReplayed
	}
	s.record(outcome)
	s.publish(ctx, events.New(events.EventPaymentVerified, "", events.PaymentVerifiedPayload{
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		Replayed:  result.Replayed,
	}))
	return result, nil
}

func (s *PaymentService) reject(ctx context.Context, in VerifyPaymentInput, outcome string, cause error) {
	s.record(outcome)
	s.logger.Info("payment callback rejected",
		zap.String("order_id", in.OrderID),
		zap.String("payment_id", in.PaymentID),
		zap.String("reason", cause.Error()),
	)
	s.publish(ctx, events.New(events.EventPaymentRejected, "", events.PaymentRejectedPayload{
		OrderID:   in.OrderID,
		PaymentID: in.PaymentID,
		Reason:    cause.Error(),
	}))
}

func (s *PaymentService) record(outcome string) {
	if s.recorder != nil {
		s.recorder.RecordPaymentVerification(outcome)
	}
}

func (s *PaymentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event publish failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
