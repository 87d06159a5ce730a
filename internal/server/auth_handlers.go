package server

import (
	"strings"

	"brainvault/internal/models"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func parseCredentials(c *fiber.Ctx) (credentialsRequest, error) {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return req, models.NewValidationError("Invalid request body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return req, models.NewValidationError("Username and password are required")
	}
	return req, nil
}

// Signup handles POST /api/v1/signup
// @Summary User signup
// @Description Register a new user account and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Signup request"
// @Success 200 {object} object{message=string,token=string,user=models.Identity}
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	req, err := parseCredentials(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.credentials.Register(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return s.respondWithToken(c, "User created successfully", user)
}

// Signin handles POST /api/v1/signin
// @Summary User signin
// @Description Verify credentials and return a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Signin request"
// @Success 200 {object} object{message=string,token=string,user=models.Identity}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /signin [post]
func (s *Server) Signin(c *fiber.Ctx) error {
	req, err := parseCredentials(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := s.credentials.Verify(c.UserContext(), req.Username, req.Password)
	if err != nil {
		// Unknown usernames surface as 401, like a wrong password.
		if models.IsCode(err, models.CodeNotFound) {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		return respondError(c, err)
	}

	return s.respondWithToken(c, "SignIn successfull", user)
}

func (s *Server) respondWithToken(c *fiber.Ctx, message string, user *models.User) error {
	identity := user.Identity()
	token, err := s.tokens.Issue(identity)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": message,
		"token":   token,
		"user":    identity,
	})
}
