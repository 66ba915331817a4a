package handlers

import (
	"github.com/gofiber/fiber/v2"

	"frieren/internal/auth"
	"frieren/internal/domain"
	applog "frieren/internal/log"
	"frieren/internal/services"
)

const actorKey = "actor"

// AttachActor resolves the session cookie, if any, for templates and logs.
// It never rejects.
func AttachActor(a *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := c.Cookies(auth.CookieName); tok != "" {
			if actor := a.CurrentActor(tok); actor != nil {
				setActor(c, actor)
			}
		}
		return c.Next()
	}
}

// RequireAdmin answers 401 JSON unless the request carries a valid session.
func RequireAdmin(a *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := a.CurrentActor(c.Cookies(auth.CookieName))
		if actor == nil {
			c.Status(fiber.StatusUnauthorized)
			applog.Security(c, "access.denied.admin", nil)
			return c.JSON(fiber.Map{"error": "Unauthorized"})
		}
		setActor(c, actor)
		return c.Next()
	}
}

// RequireAdminPage is RequireAdmin for HTML pages: it redirects to the login.
func RequireAdminPage(a *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := a.CurrentActor(c.Cookies(auth.CookieName))
		if actor == nil {
			return c.Redirect("/admin/login")
		}
		setActor(c, actor)
		return c.Next()
	}
}

func setActor(c *fiber.Ctx, a *domain.Actor) {
	c.Locals(actorKey, a)
	c.Locals("actor_username", a.Username)
}

func currentActor(c *fiber.Ctx) *domain.Actor {
	a, _ := c.Locals(actorKey).(*domain.Actor)
	return a
}
