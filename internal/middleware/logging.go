package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const maxLoggedUtterance = 200

func logrusFields(c *fiber.Ctx, requestID string) logrus.Fields {
	return logrus.Fields{
		"request_id": requestID,
		"method":     c.Method(),
		"path":       c.Path(),
		"ip":         c.IP(),
	}
}

// NewLoggingMiddleware logs every request once it has been handled, at a level matching
// its status. The utterance of command requests is included, truncated.
func (m *middleware) NewLoggingMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	err := c.Next()

	status := c.Response().StatusCode()
	fields := logrusFields(c, m.GetRequestID(c))
	fields["status"] = status
	fields["latency_ms"] = time.Since(start).Milliseconds()
	fields["response_size"] = len(c.Response().Body())

	if text := utterance(c.Body()); text != "" {
		fields["utterance"] = text
	}

	entry := m.log.WithFields(fields)
	switch {
	case status >= 500:
		entry.Error("Server error")
	case status >= 400:
		entry.Warn("Client error")
	default:
		entry.Info("Success")
	}

	return err
}

func utterance(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	text := jsoniter.Get(body, "text").ToString()
	if len(text) > maxLoggedUtterance {
		text = text[:maxLoggedUtterance] + "..."
	}
	return text
}

// NewRecoverMiddleware turns a panic in any later handler into a logged 500.
func (m *middleware) NewRecoverMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			fields := logrusFields(c, m.GetRequestID(c))
			fields["panic"] = fmt.Sprint(e)
			m.log.WithFields(fields).Error("Recovered from panic")
		},
	})
}
