package handlers

import (
	"context"
	"time"

	"github.com/campus-events/api/database"
	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// HandleCheckHealth reports whether the API can reach its database
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := store.HealthCheck(ctx); err != nil {
		log.Error().Err(err).Msg("health check failed")
		return response.ServiceUnavailable(c, "Database unavailable")
	}

	return response.Success(c, fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC(),
	})
}
