package api

import (
	"errors"

	"github.com/campus-events/api/utils/response"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// BodyLimit leaves room for a 5MB poster plus multipart framing
const BodyLimit = 6 << 20

type APIServer struct {
	app           *fiber.App
	listenAddress string
}

func NewAPIServer(listenAddress string) *APIServer {
	return &APIServer{
		app: fiber.New(fiber.Config{
			AppName:      "campus-events-api",
			BodyLimit:    BodyLimit,
			ErrorHandler: ErrorHandler,
		}),
		listenAddress: listenAddress,
	}
}

// ErrorHandler turns errors escaping handlers into the standard envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return response.NotFound(c, "Route not found")
		case fiber.StatusRequestEntityTooLarge:
			return response.Error(c, fe.Code, "Request body too large", "PAYLOAD_TOO_LARGE")
		}
		if fe.Code < fiber.StatusInternalServerError {
			return response.Error(c, fe.Code, fe.Message, "BAD_REQUEST")
		}
	}

	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("unhandled request error")
	return response.InternalServerError(c, "Something went wrong")
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	log.Info().Str("address", s.listenAddress).Msg("starting API server")
	return s.app.Listen(s.listenAddress)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
