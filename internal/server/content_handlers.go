package server

import (
	"encoding/json"
	"strconv"

	"brainvault/internal/models"
	"brainvault/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createContentRequest struct {
	Type  string   `json:"type"`
	Link  string   `json:"link"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// CreateContent handles POST /api/v1/content
// @Summary Add content
// @Description Store a new item in the caller's vault
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{type=string,link=string,title=string,tags=[]string} true "Content item"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /content [post]
func (s *Server) CreateContent(c *fiber.Ctx) error {
	var req createContentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	_, err := s.contents.Create(c.UserContext(), currentUserID(c), service.CreateContentInput{
		Type:  req.Type,
		Link:  req.Link,
		Title: req.Title,
		Tags:  req.Tags,
	})
	if err != nil {
		if models.IsCode(err, models.CodeValidation) {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Message: "Unable to post data at this moment",
			Code:    models.CodeInternal,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Data added successfully!",
	})
}

// ListContent handles GET /api/v1/content
// @Summary List content
// @Description Return every item in the caller's vault, newest first
// @Tags content
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{data=[]models.Content}
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /content [get]
func (s *Server) ListContent(c *fiber.Ctx) error {
	items, err := s.contents.ListByOwner(c.UserContext(), currentUserID(c))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Message: "Unable to fetch content at this moment",
			Code:    models.CodeInternal,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"data": items,
	})
}

// DeleteContent handles DELETE /api/v1/content
// @Summary Remove content
// @Description Delete an item of the caller's vault. Items the caller does not own are left alone.
// @Tags content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{_id=integer} true "Content id"
// @Success 200 {object} object{message=string,deleted=boolean}
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /content [delete]
func (s *Server) DeleteContent(c *fiber.Ctx) error {
	var req struct {
		ID json.Number `json:"_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	contentID, err := strconv.ParseUint(req.ID.String(), 10, 0)
	if err != nil || contentID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Content id is required"))
	}

	deleted, err := s.contents.DeleteByOwnerAndID(c.UserContext(), currentUserID(c), uint(contentID))
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Data removed successfully",
		"deleted": deleted,
	})
}
