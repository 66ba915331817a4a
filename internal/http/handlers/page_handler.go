package handlers

import (
	"github.com/gofiber/fiber/v2"

	"frieren/internal/domain"
	"frieren/internal/pricing"
)

type PageHandler struct {
	Catalog pricing.Catalog
}

type priceRow struct {
	ID    string
	Price int64
}

func rows(ids []string, prices map[string]int64) []priceRow {
	out := make([]priceRow, 0, len(ids))
	for _, id := range ids {
		out = append(out, priceRow{ID: id, Price: prices[id]})
	}
	return out
}

func (h *PageHandler) prices() fiber.Map {
	return fiber.Map{
		"Frontend": rows(pricing.FrontendTiers, h.Catalog.Frontend),
		"Backend":  rows(pricing.BackendTiers, h.Catalog.Backend),
		"Database": rows(pricing.DatabaseFeatures, h.Catalog.Database),
		"Payment":  h.Catalog.Payment,
	}
}

// GET /
func (h *PageHandler) Home(c *fiber.Ctx) error {
	return render(c, "home", fiber.Map{"Prices": h.prices()})
}

// GET /quote
func (h *PageHandler) Quote(c *fiber.Ctx) error {
	return render(c, "quote", fiber.Map{"Prices": h.prices()})
}

// GET /admin/login
func (h *PageHandler) AdminLogin(c *fiber.Ctx) error {
	if currentActor(c) != nil {
		return c.Redirect("/admin")
	}
	return render(c, "admin_login", nil)
}

// GET /admin
func (h *PageHandler) AdminDashboard(c *fiber.Ctx) error {
	return render(c, "admin_dashboard", fiber.Map{"Statuses": domain.Statuses})
}

func (h *PageHandler) NotFound(c *fiber.Ctx) error {
	if c.Accepts(fiber.MIMEApplicationJSON, fiber.MIMETextHTML) == fiber.MIMEApplicationJSON {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}
	return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
}
