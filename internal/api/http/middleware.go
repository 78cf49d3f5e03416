package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/art-gallery-service/internal/observability"
	apperrors "github.com/spec-kit/art-gallery-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
// The error middleware sits inside the request logger so logged statuses match the rendered ones.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err == nil {
				return
			}

			domainErr := apperrors.ToDomainError(err)
			metrics.RecordError(routePath(c), c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
				requestID, _ := c.Locals(observability.RequestIDLocal).(string)
				logger.Error("request failed",
					zap.String("request_id", requestID),
					zap.String("path", c.Path()),
					zap.String("code", domainErr.Code),
					zap.Error(domainErr))
			}
			err = c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": errorBody{
				Code:    domainErr.Code,
				Message: domainErr.Message,
				Details: domainErr.Details,
			}})
		}()
		return c.Next()
	}
}

// routePath keeps metric labels bounded to registered routes.
func routePath(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" && route.Path != "/" {
		return route.Path
	}
	return "unmatched"
}
