package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"frieren/internal/auth"
	"frieren/internal/domain"
	applog "frieren/internal/log"
	"frieren/internal/services"
)

type AuthHandler struct {
	Auth         *services.AuthService
	CookieSecure bool
}

type loginBody struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// POST /auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body loginBody
	if err := c.BodyParser(&body); err != nil {
		c.Status(fiber.StatusUnauthorized)
		applog.Security(c, "auth.login.fail", map[string]any{"reason": "bad_body"})
		return c.JSON(fiber.Map{"error": "Invalid credentials"})
	}

	s, err := h.Auth.Login(c.UserContext(), body.Username, body.Password)
	if errors.Is(err, domain.ErrUnauthorized) {
		c.Status(fiber.StatusUnauthorized)
		applog.Security(c, "auth.login.fail", map[string]any{"username": truncate(body.Username, 50)})
		return c.JSON(fiber.Map{"error": "Invalid credentials"})
	}
	if err != nil {
		return fail(c, "auth.login", err, "Login failed. Please try again.")
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.Expires,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
	})
	setActor(c, &domain.Actor{ID: s.Admin.ID, Username: s.Admin.Username, Role: s.Admin.Role})
	applog.Audit(c, "auth.login.success", map[string]any{"role": s.Admin.Role})
	return c.JSON(fiber.Map{
		"success": true,
		"admin":   fiber.Map{"username": s.Admin.Username, "role": s.Admin.Role},
	})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"success": true})
}

// GET /auth/me
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"admin": currentActor(c)})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
