package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/art-gallery-service/internal/auth"
)

// DashboardHandler serves the per-role landing data.
type DashboardHandler struct{}

// NewDashboardHandler constructs handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Artist handles GET /api/artist/dashboard.
func (h *DashboardHandler) Artist(c *fiber.Ctx) error {
	return c.JSON(withViewer(c, fiber.Map{
		"message":               "Artist dashboard data",
		"uploadedArtworksCount": 0,
		"sales":                 0,
	}))
}

// Customer handles GET /api/customer/dashboard.
func (h *DashboardHandler) Customer(c *fiber.Ctx) error {
	return c.JSON(withViewer(c, fiber.Map{
		"message":       "Customer dashboard data",
		"purchases":     0,
		"wishlistCount": 0,
	}))
}

// Admin handles GET /api/admin/dashboard.
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	return c.JSON(withViewer(c, fiber.Map{
		"message":          "Admin dashboard data",
		"totalUsers":       0,
		"pendingApprovals": 0,
	}))
}

func withViewer(c *fiber.Ctx, body fiber.Map) fiber.Map {
	if identity, ok := auth.IdentityFromContext(c); ok {
		body["viewer"] = identity.Subject
	}
	return body
}
