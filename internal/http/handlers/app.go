package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	applog "frieren/internal/log"
	"frieren/internal/metrics"
)

// NewApp builds the Fiber app with the error handler and the middleware every
// route shares. views may be nil for JSON-only tests.
func NewApp(views fiber.Views, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		ErrorHandler: errorHandler,
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20

	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(metrics.Middleware())
	app.Use(AttachActor(d.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Status(fiber.StatusTooManyRequests)
			applog.Security(c, "rate.global.hit", nil)
			return c.JSON(fiber.Map{"error": "Too many requests. Please try again later."})
		},
	}))
	return app
}

// errorHandler turns anything a handler let escape into a generic answer.
// Client errors raised by Fiber keep their status; everything else is a 500
// with no detail.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	if fe, ok := err.(*fiber.Error); ok && fe.Code < 500 {
		code, msg = fe.Code, fe.Message
	}
	c.Status(code)
	if code >= 500 {
		applog.Error(c, "server.error", err, nil)
	}
	if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMETextHTML {
		if rerr := c.Render("notfound", fiber.Map{"Message": msg}); rerr == nil {
			return nil
		}
	}
	return c.JSON(fiber.Map{"error": msg})
}
