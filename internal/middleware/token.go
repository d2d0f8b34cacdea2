package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	jwtPkg "CommandCore/pkg/jwt"
)

// SubjectLocal holds the authenticated token subject.
const SubjectLocal = "token_subject"

// WithTokenSecret requires an HS256 bearer token signed with secret on routes using
// NewTokenMiddleware. An empty secret leaves those routes open.
func WithTokenSecret(secret string) Option {
	return func(m *middleware) {
		m.tokenSecret = secret
	}
}

// NewTokenMiddleware authenticates the Authorization header. Websocket clients that cannot
// set headers may pass the token as the access_token query parameter instead.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	if m.tokenSecret == "" {
		return ctx.Next()
	}

	header := ctx.Get(fiber.HeaderAuthorization)
	if header == "" {
		if token := ctx.Query("access_token"); token != "" {
			header = "Bearer " + token
		}
	}

	subject, err := jwtPkg.VerifyHeader(header, m.tokenSecret)
	if err != nil {
		fields := logrusFields(ctx, m.GetRequestID(ctx))
		fields["error"] = err.Error()
		m.log.WithFields(fields).Warn("Token verification failed")
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized, access token invalid or expired",
		})
	}

	ctx.Locals(SubjectLocal, subject)
	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"subject":    subject,
	}).Debug("Authentication successful")
	return ctx.Next()
}
