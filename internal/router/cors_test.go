package router

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsApp(origin string) *fiber.App {
	app := fiber.New()
	app.Use(CorsMiddleware(origin))
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestCorsMiddlewareUsesConfiguredOrigin(t *testing.T) {
	app := corsApp("https://app.nanacaring.example")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://app.nanacaring.example")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.nanacaring.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestCorsMiddlewareDefaultsToAnyOrigin(t *testing.T) {
	app := corsApp("  ")

	req := httptest.NewRequest("GET", "/ping", nil)
	req.Header.Set("Origin", "https://somewhere.example")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
