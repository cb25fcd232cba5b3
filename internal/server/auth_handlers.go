package server

import (
	"innovalley/internal/middleware"
	"innovalley/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Role     string `json:"role" form:"role"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// RegisterForm handles GET /register
func (s *Server) RegisterForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":   middleware.CurrentIdentity(c),
		"fields": []string{"username", "email", "password", "role"},
	})
}

// Register handles POST /register
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	user, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return respondError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		"username", user.Username,
		"role", user.Role,
	)
	return c.Redirect("/login", fiber.StatusFound)
}

// LoginForm handles GET /login
func (s *Server) LoginForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user":   middleware.CurrentIdentity(c),
		"fields": []string{"email", "password"},
	})
}

// Login handles POST /login
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return bodyError(c)
	}

	identity, err := s.authService.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	if err := s.sessions.Set(c, identity); err != nil {
		return respondError(c, err)
	}
	return c.Redirect("/", fiber.StatusFound)
}

// Logout handles GET /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	s.sessions.Clear(c)
	return c.Redirect("/", fiber.StatusSeeOther)
}
