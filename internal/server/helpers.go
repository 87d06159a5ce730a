package server

import (
	"brainvault/internal/middleware"
	"brainvault/internal/models"

	"github.com/gofiber/fiber/v2"
)

// respondError writes err with the status derived from its code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// currentUserID returns the caller set by the session guard. Routes using it
// are always mounted behind the guard.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := middleware.UserID(c)
	return id
}
