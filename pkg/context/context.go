package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// HeaderRequestID is both the HTTP header and the fiber local holding the request ID.
const HeaderRequestID = "X-Request-ID"

const unknownRequestID = "unknown"

type ctxKey string

const requestIDKey ctxKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return unknownRequestID
	}
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return unknownRequestID
	}
	return requestID
}

// FromFiberCtx carries the request ID set by the request ID middleware into a standard
// context derived from the request's user context.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(HeaderRequestID).(string)
	if !ok || requestID == "" {
		requestID = c.Get(HeaderRequestID)
	}
	if requestID == "" {
		requestID = unknownRequestID
	}

	return WithRequestID(c.UserContext(), requestID)
}
