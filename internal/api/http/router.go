package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/art-gallery-service/internal/api/http/handlers"
	"github.com/spec-kit/art-gallery-service/internal/auth"
	"github.com/spec-kit/art-gallery-service/internal/domain"
	"github.com/spec-kit/art-gallery-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Dashboards    *handlers.DashboardHandler
	Payments      *handlers.PaymentsHandler
	Authenticator *auth.Authenticator
	Metrics       *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api", cfg.Authenticator.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", auth.RequireAuthenticated(), cfg.Auth.Me)

	api.Get("/artist/dashboard", auth.RequireAuthority(domain.RoleArtist.Authority()), cfg.Dashboards.Artist)
	api.Get("/customer/dashboard", auth.RequireAuthority(domain.RoleCustomer.Authority()), cfg.Dashboards.Customer)
	api.Get("/admin/dashboard", auth.RequireAuthority(domain.RoleAdmin.Authority()), cfg.Dashboards.Admin)

	paymentsGroup := api.Group("/payments")
	paymentsGroup.Post("/create-order", cfg.Payments.CreateOrder)
	paymentsGroup.Post("/verify", cfg.Payments.Verify)
}
