package server

import (
	"strings"

	"innovalley/internal/middleware"
	"innovalley/internal/models"

	"github.com/gofiber/fiber/v2"
)

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Message string `json:"message" form:"message"`
}

// ContactForm handles GET /contact
func (s *Server) ContactForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":   middleware.CurrentIdentity(c),
		"fields": []string{"name", "email", "message"},
	})
}

// SubmitContact handles POST /contact. Submissions are only logged.
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || strings.TrimSpace(req.Message) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Name and message are required"))
	}

	middleware.Logger.InfoContext(c.UserContext(), "contact form submitted",
		"name", req.Name,
		"email", req.Email,
		"message_length", len(req.Message),
	)
	return c.JSON(fiber.Map{
		"submitted": true,
		"name":      req.Name,
	})
}
