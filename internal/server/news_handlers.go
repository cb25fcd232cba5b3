package server

import (
	"innovalley/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Home handles GET /
func (s *Server) Home(c *fiber.Ctx) error {
	return s.News(c)
}

// News handles GET /news. The feed never fails; an unreachable source
// yields an empty list.
func (s *Server) News(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"user": middleware.CurrentIdentity(c),
		"news": s.feed.Latest(c.UserContext()),
	})
}
