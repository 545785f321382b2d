package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"printshop/internal/domain"
	applog "printshop/internal/log"
	"printshop/internal/services"
)

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Protect requires a valid bearer token and stores the account in Locals.
func Protect(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearer(c)
		if raw == "" {
			return domain.Unauthorized("not authorized, no token")
		}
		u, err := auth.CurrentUser(c.UserContext(), raw)
		if err != nil {
			if domain.KindOf(err) == domain.KindUnauthorized {
				applog.Security(c, "auth.token.reject", nil)
			}
			return err
		}
		c.Locals("user", u)
		c.Locals("user_id", u.ID)
		return c.Next()
	}
}

// Optional attaches the account when a valid token is present and carries on
// anonymously otherwise.
func Optional(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw := bearer(c); raw != "" {
			if u, err := auth.CurrentUser(c.UserContext(), raw); err == nil {
				c.Locals("user", u)
				c.Locals("user_id", u.ID)
			}
		}
		return c.Next()
	}
}

// AdminOnly must run after Protect.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !currentUser(c).IsAdmin() {
			applog.Security(c, "access.denied.admin", nil)
			return domain.Forbidden("not authorized as admin")
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
