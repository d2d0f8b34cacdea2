package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	contextPkg "CommandCore/pkg/context"
	"CommandCore/pkg/utils"
)

// NewRequestIDMiddleware keeps the caller's X-Request-ID or assigns a ULID, and exposes
// it both as a fiber local and on the response.
func NewRequestIDMiddleware() fiber.Handler {
	ids := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(contextPkg.HeaderRequestID)
		if requestID == "" {
			requestID, _ = ids.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(contextPkg.HeaderRequestID, requestID)
		c.Set(contextPkg.HeaderRequestID, requestID)

		return c.Next()
	}
}
