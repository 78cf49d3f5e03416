package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/art-gallery-service/internal/api/dto"
	"github.com/spec-kit/art-gallery-service/internal/payments"
	"github.com/spec-kit/art-gallery-service/internal/service"
	apperrors "github.com/spec-kit/art-gallery-service/pkg/util/errorutil"
)

// PaymentsHandler serves order creation and the provider callback.
type PaymentsHandler struct {
	payments *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: paymentService}
}

// CreateOrder handles POST /api/payments/create-order.
func (h *PaymentsHandler) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError("amount must be greater than zero", dto.ValidationDetails(err))
	}

	order, err := h.payments.CreateOrder(c.UserContext(), req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(dto.CreateOrderResponse{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      order.KeyID,
	})
}

// Verify handles POST /api/payments/verify.
func (h *PaymentsHandler) Verify(c *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(dto.VerifyPaymentResponse{Error: "invalid payload"})
	}
	orderID, paymentID, signature := req.Normalize()

	_, err := h.payments.VerifyPayment(c.UserContext(), service.VerifyPaymentInput{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: signature,
	})

	var missing *payments.MissingFieldError
	switch {
	case err == nil:
		return c.JSON(dto.VerifyPaymentResponse{
			Verified: true,
			Success:  true,
			Message:  "Payment verified successfully",
		})
	case errors.As(err, &missing):
		return c.Status(http.StatusBadRequest).JSON(dto.VerifyPaymentResponse{
			Error: "Missing required fields",
			Field: missing.Field,
		})
	case errors.Is(err, payments.ErrSignatureMismatch):
		return c.Status(http.StatusBadRequest).JSON(dto.VerifyPaymentResponse{
			Error: "Signature verification failed",
		})
	default:
		return err
	}
}
