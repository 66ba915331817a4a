package handlers

import (
	"github.com/gofiber/fiber/v2"

	"frieren/internal/domain"
	applog "frieren/internal/log"
	"frieren/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

// POST /orders
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	var in domain.OrderInput
	if err := c.BodyParser(&in); err != nil {
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, "order.create.bad_body", nil)
		return c.JSON(fiber.Map{"error": "Invalid request body"})
	}

	r, err := h.Orders.Submit(c.UserContext(), in)
	if err != nil {
		return fail(c, "order.create", err, "Failed to submit order. Please try again.")
	}

	c.Status(fiber.StatusCreated)
	if r.Overridden {
		applog.Security(c, "order.price.override", map[string]any{
			"order_id":     r.Order.ID,
			"client_total": *r.Claimed,
			"server_total": r.Order.TotalPrice,
		})
	}
	applog.Audit(c, "order.create", map[string]any{"order_id": r.Order.ID, "total": r.Order.TotalPrice})
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Order submitted successfully",
		"orderId": r.Order.ID,
	})
}

// GET /orders
func (h *OrderHandler) List(c *fiber.Ctx) error {
	q, err := services.ParseOrderQuery(c.Queries())
	if err != nil {
		return fail(c, "order.list", err, "Failed to fetch orders")
	}
	list, err := h.Orders.List(c.UserContext(), currentActor(c), q)
	if err != nil {
		return fail(c, "order.list", err, "Failed to fetch orders")
	}
	return c.JSON(list)
}

// GET /orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	o, err := h.Orders.Get(c.UserContext(), currentActor(c), c.Params("id"))
	if err != nil {
		return fail(c, "order.get", err, "Failed to fetch order")
	}
	return c.JSON(fiber.Map{"order": o})
}

// PATCH /orders/:id
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status value"})
	}
	id := c.Params("id")
	o, err := h.Orders.UpdateStatus(c.UserContext(), currentActor(c), id, body.Status)
	if err != nil {
		return fail(c, "order.status", err, "Failed to update order")
	}
	applog.Audit(c, "order.status", map[string]any{"order_id": id, "status": o.Status})
	return c.JSON(fiber.Map{"success": true, "order": o})
}

// DELETE /orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Orders.Delete(c.UserContext(), currentActor(c), id); err != nil {
		return fail(c, "order.delete", err, "Failed to delete order")
	}
	applog.Audit(c, "order.delete", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"success": true, "message": "Order deleted"})
}
