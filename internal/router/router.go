package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-pass-api/internal/config"
	"github.com/noah-isme/campus-pass-api/internal/handler"
	"github.com/noah-isme/campus-pass-api/internal/middleware"
	"github.com/noah-isme/campus-pass-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AccessHandler   *handler.AccessHandler
	PublicHandler   *handler.PublicHandler
	PaymentHandler  *handler.PaymentHandler
	CardHandler     *handler.CardHandler
	ActivityHandler *handler.ActivityHandler
	JWTMiddleware   fiber.Handler
	DatabasePing    handler.PingFunc
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.DatabasePing))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}
	staffOnly := middleware.RequireRole(middleware.RoleAdmin, middleware.RoleAccountant)

	// Guard scanning
	if deps.AccessHandler != nil {
		guards := api.Group("/cards", jwtMiddleware, middleware.RequireRole(middleware.RoleGuard, middleware.RoleAdmin))
		deps.AccessHandler.Register(guards, middleware.RateLimit("scan", cfg.ScanRateLimit, time.Minute))
	}

	// Staff back office
	students := api.Group("/students", jwtMiddleware, staffOnly)
	if deps.PaymentHandler != nil {
		deps.PaymentHandler.Register(api.Group("/payments", jwtMiddleware, staffOnly), students)
	}
	if deps.CardHandler != nil {
		deps.CardHandler.Register(api.Group("/access-cards", jwtMiddleware, staffOnly), students)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", jwtMiddleware, middleware.RequireRole(middleware.RoleAdmin)))
	}

	// Public pages
	if deps.PublicHandler != nil {
		public := app.Group("/public", middleware.RateLimit("public", cfg.PublicRateLimit, time.Minute))
		deps.PublicHandler.Register(public)
	}
}
