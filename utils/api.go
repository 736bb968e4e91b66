package utils

import (
	"github.com/campus-events/api/database"
	"github.com/campus-events/api/utils/response"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// StoreHandler is a Fiber handler that needs the database store
type StoreHandler func(c *fiber.Ctx, store database.Storage) error

// MakeHTTPHandleFunc binds store to handler. An error returned by handler is
// logged and reported as a generic 500.
func MakeHTTPHandleFunc(handler StoreHandler, store database.Storage) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := handler(c, store); err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("handler failed")
			return response.InternalServerError(c, "")
		}
		return nil
	}
}
