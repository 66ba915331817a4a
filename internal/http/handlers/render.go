package handlers

import "github.com/gofiber/fiber/v2"

func render(c *fiber.Ctx, tmpl string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	if a := currentActor(c); a != nil {
		data["Admin"] = a
	}
	return c.Render(tmpl, data)
}
