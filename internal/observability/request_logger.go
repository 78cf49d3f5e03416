package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/art-gallery-service/pkg/util/errorutil"
)

// Request correlation id: echoed in the response header and kept in Fiber locals.
const (
	RequestIDHeader = "X-Request-ID"
	RequestIDLocal  = "request_id"
)

// RequestLogger logs one line per request and records request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDHeader, requestID)
		c.Locals(RequestIDLocal, requestID)

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.ToDomainError(err).HTTPStatus
		}
		route := c.Route().Path
		duration := time.Since(start)

		metrics.RecordRequest(route, c.Method(), status, duration)
		logger.Info("request",
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", duration),
		)
		return err
	}
}
