package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"frieren/internal/metrics"
)

// Mount registers every route. The app should already carry the shared
// middleware from NewApp.
func Mount(app *fiber.App, d *Deps) {
	admin := RequireAdmin(d.Auth)

	// Pages
	app.Get("/", d.PageHandler.Home)
	app.Get("/quote", d.PageHandler.Quote)
	app.Get("/admin/login", d.PageHandler.AdminLogin)
	app.Get("/admin", RequireAdminPage(d.Auth), d.PageHandler.AdminDashboard)

	// Orders
	app.Post("/orders", Throttle(d.Limiter, OrderRule), d.OrderHandler.Submit)
	app.Get("/orders", admin, d.OrderHandler.List)
	app.Get("/orders/:id", admin, d.OrderHandler.Get)
	app.Patch("/orders/:id", admin, d.OrderHandler.UpdateStatus)
	app.Delete("/orders/:id", admin, d.OrderHandler.Delete)
	app.Post("/quote/preview", d.QuoteHandler.Preview)

	// Auth
	app.Post("/auth/login", Throttle(d.Limiter, LoginRule), d.AuthHandler.Login)
	app.Post("/auth/logout", admin, d.AuthHandler.Logout)
	app.Get("/auth/me", admin, d.AuthHandler.Me)

	app.Post("/chat", Throttle(d.Limiter, ChatRule), d.ChatHandler.Reply)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Use(d.PageHandler.NotFound)
}
