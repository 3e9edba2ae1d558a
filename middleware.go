package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// UserIDKey is the fiber.Ctx Locals key under which the bearer middleware
// stores the resolved user id.
const UserIDKey = "auth_user_id"

type contextKey string

const userIDContextKey contextKey = "auth.user_id"

// Protected returns a middleware that validates the request's bearer token
// and injects its subject as the authenticated user id. Workflows behind it
// can assume the id was resolved upstream.
//
// Failures answer with the standard {success:false, message} envelope, not
// a bare status, matching what storefront clients parse.
func Protected(validator TokenValidator, logger Logger) fiber.Handler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx) error {
		raw := extractToken(c)
		if raw == "" {
			return c.JSON(Response{Success: false, Message: ErrUnableToDecodeToken.Message})
		}

		subject, err := validator.Validate(raw)
		if err != nil {
			logger.Info("bearer token rejected", "error", err)
			return c.JSON(Response{Success: false, Message: ErrUnableToDecodeToken.Message})
		}

		c.Locals(UserIDKey, subject)
		c.SetUserContext(context.WithValue(c.UserContext(), userIDContextKey, subject))

		return c.Next()
	}
}

// UserID returns the authenticated user id the middleware resolved for this
// request, if any.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(UserIDKey).(string)
	return id, ok && id != ""
}

// UserIDFromContext reads the id the middleware propagated to the standard
// request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDContextKey).(string)
	return id, ok && id != ""
}

// extractToken accepts "Authorization: Bearer <token>", a bare
// Authorization value, or the legacy "token" header older clients send.
func extractToken(c *fiber.Ctx) string {
	if h := c.Get(fiber.HeaderAuthorization); h != "" {
		if strings.HasPrefix(strings.ToLower(h), "bearer ") {
			return strings.TrimSpace(h[len("bearer "):])
		}
		return strings.TrimSpace(h)
	}

	return strings.TrimSpace(c.Get("token"))
}
