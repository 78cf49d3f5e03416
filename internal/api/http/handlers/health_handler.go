package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger is a dependency that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName   string
	version       string
	postgres      Pinger
	redis         Pinger
	paymentsReady bool
}

// NewHealthHandler returns a new handler instance. A nil pinger is reported as disabled.
func NewHealthHandler(serviceName, version string, postgres, redis Pinger, paymentsReady bool) *HealthHandler {
	return &HealthHandler{
		serviceName:   serviceName,
		version:       version,
		postgres:      postgres,
		redis:         redis,
		paymentsReady: paymentsReady,
	}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	for name, pinger := range map[string]Pinger{"postgres": h.postgres, "redis": h.redis} {
		if pinger == nil {
			depStatus[name] = "disabled"
			continue
		}
		if err := pinger.Ping(ctx); err != nil {
			depStatus[name] = "unavailable"
			ready = false
			continue
		}
		depStatus[name] = "ok"
	}
	depStatus["payments"] = "disabled"
	if h.paymentsReady {
		depStatus["payments"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
