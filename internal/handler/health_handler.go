package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/campus-pass-api/internal/config"
	"github.com/noah-isme/campus-pass-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Timezone    string    `json:"timezone"`
	Database    string    `json:"database"`
}

// PingFunc probes a dependency; nil means it is not configured.
type PingFunc func(ctx context.Context) error

// HealthCheck reports service metadata and database reachability. An unreachable
// database turns the response into a 503.
func HealthCheck(cfg config.Config, ping PingFunc) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Timezone:    cfg.Location().String(),
			Database:    "unchecked",
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				payload.Status = "degraded"
				payload.Database = "unreachable"
				return utils.Fail(c, fiber.StatusServiceUnavailable, "database unreachable", payload)
			}
			payload.Database = "ok"
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
