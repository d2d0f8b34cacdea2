package context

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	assert.Equal(t, "unknown", GetRequestID(context.Background()))
	assert.Equal(t, "unknown", GetRequestID(nil))
	assert.Equal(t, "abc", GetRequestID(WithRequestID(context.Background(), "abc")))
	assert.Equal(t, "unknown", GetRequestID(context.WithValue(context.Background(), "request_id", "plain-key")))
}

func TestFromFiberCtx(t *testing.T) {
	app := fiber.New()
	app.Get("/local", func(c *fiber.Ctx) error {
		c.Locals(HeaderRequestID, "from-local")
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})
	app.Get("/header", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(FromFiberCtx(c)))
	})

	tests := []struct {
		path   string
		header string
		want   string
	}{
		{"/local", "", "from-local"},
		{"/header", "from-header", "from-header"},
		{"/header", "", "unknown"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set(HeaderRequestID, tt.header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, tt.want, string(body), tt.path)
	}
}
