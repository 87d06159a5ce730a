// Package middleware provides the fiber middleware used by the HTTP server.
package middleware

import (
	"context"
	"strings"

	"brainvault/internal/models"
	"brainvault/internal/observability"

	"github.com/gofiber/fiber/v2"
)

const bearerPrefix = "Bearer "

// Locals keys set by SessionGuard.
const (
	LocalUserID   = "userID"
	LocalUsername = "username"
)

// TokenVerifier checks a bearer token and returns the identity it asserts.
type TokenVerifier interface {
	Verify(token string) (models.Identity, error)
}

// SessionGuard rejects requests without a valid bearer token. On success the
// caller's identity is available through UserID and in the request context.
func SessionGuard(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			observability.AuthFailures.WithLabelValues(observability.ReasonMissingToken).Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Message:  "Missing or invalid token",
				Code:     models.CodeUnauthorized,
				Redirect: "Sign In",
			})
		}

		identity, err := verifier.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			observability.AuthFailures.WithLabelValues(observability.ReasonInvalidToken).Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Message: "Invalid token",
				Code:    models.CodeUnauthorized,
			})
		}

		c.Locals(LocalUserID, identity.ID)
		c.Locals(LocalUsername, identity.Username)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), observability.UserIDKey, identity.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// UserID returns the id stored by SessionGuard.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}
