// Package middleware provides session, logging, tracing, metrics and rate
// limiting middleware for the application.
package middleware

import (
	"innovalley/internal/models"

	"github.com/gofiber/fiber/v2"
)

const identityLocal = "identity"

// IdentityReader resolves the identity carried by a request.
type IdentityReader interface {
	Get(c *fiber.Ctx) *models.Identity
}

// SessionLoader decodes the session cookie once per request and stores the
// identity in Fiber locals. Invalid or missing cookies leave the request anonymous.
func SessionLoader(sessions IdentityReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := sessions.Get(c); id != nil {
			c.Locals(identityLocal, id)
		}
		return c.Next()
	}
}

// CurrentIdentity returns the identity loaded by SessionLoader, or nil.
func CurrentIdentity(c *fiber.Ctx) *models.Identity {
	id, _ := c.Locals(identityLocal).(*models.Identity)
	return id
}

// LoginRequired redirects anonymous requests to the login form.
func LoginRequired(c *fiber.Ctx) error {
	if CurrentIdentity(c) == nil {
		return c.Redirect("/login", fiber.StatusSeeOther)
	}
	return c.Next()
}
