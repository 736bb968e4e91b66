package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/campus-events/api/database"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeHTTPHandleFunc(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", MakeHTTPHandleFunc(func(c *fiber.Ctx, store database.Storage) error {
		return c.SendStatus(fiber.StatusNoContent)
	}, nil))
	app.Get("/fail", MakeHTTPHandleFunc(func(c *fiber.Ctx, store database.Storage) error {
		return errors.New("boom")
	}, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
