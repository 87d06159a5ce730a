package server

import (
	"brainvault/internal/models"

	"github.com/gofiber/fiber/v2"
)

// UpdateShare handles POST /api/v1/brain/share
// @Summary Publish or revoke the shared vault
// @Description share=true mints a new public hash; share=false revokes every hash of the caller
// @Tags share
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{share=boolean} true "Share flag"
// @Success 200 {object} object{message=string,hash=string,user=integer}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /brain/share [post]
func (s *Server) UpdateShare(c *fiber.Ctx) error {
	var req struct {
		Share *bool `json:"share"`
	}
	if err := c.BodyParser(&req); err != nil || req.Share == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("share must be true or false"))
	}

	ownerID := currentUserID(c)
	ctx := c.UserContext()

	if *req.Share {
		hash, err := s.shares.Publish(ctx, ownerID)
		if err != nil {
			return shareUpdateFailed(c)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Success",
			"hash":    hash,
			"user":    ownerID,
		})
	}

	if err := s.shares.Unpublish(ctx, ownerID); err != nil {
		return shareUpdateFailed(c)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Updated Shareable link",
	})
}

func shareUpdateFailed(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Message: "Unable to update shareable link",
		Code:    models.CodeInternal,
	})
}

// GetSharedBrain handles GET /api/v1/brain/:shareLink
// @Summary View a shared vault
// @Description Resolve a share hash and return the owner's content. No authentication.
// @Tags share
// @Produce json
// @Param shareLink path string true "Share hash"
// @Success 200 {object} object{message=string,data=[]models.Content}
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /brain/{shareLink} [get]
func (s *Server) GetSharedBrain(c *fiber.Ctx) error {
	ctx := c.UserContext()

	ownerID, err := s.shares.Resolve(ctx, c.Params("shareLink"))
	if err != nil {
		return respondError(c, err)
	}

	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return respondError(c, err)
	}

	items, err := s.contents.ListPublicByOwner(ctx, owner.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Success",
		"data":    items,
	})
}
