package handlers

import (
	"github.com/gofiber/fiber/v2"

	"frieren/internal/domain"
	"frieren/internal/intake"
	"frieren/internal/pricing"
)

type QuoteHandler struct {
	Catalog pricing.Catalog
}

type previewBody struct {
	Step     intake.Step     `json:"step"`
	Action   string          `json:"action"`
	Client   intake.Client   `json:"client"`
	Services domain.Services `json:"services"`
	Toggle   *struct {
		Feature string `json:"feature"`
		Checked bool   `json:"checked"`
	} `json:"toggle,omitempty"`
}

// POST /quote/preview runs the intake form on the posted state and returns
// the priced bundle, so the browser never does its own arithmetic. Action
// "next", "back" or "submit" moves the form; the response carries the step the
// browser should show and, on a clean submit, the order body for POST /orders.
func (h *QuoteHandler) Preview(c *fiber.Ctx) error {
	var body previewBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	f := intake.New(h.Catalog)
	if body.Step >= intake.StepClient && body.Step <= intake.StepReview {
		f.Step = body.Step
	}
	f.Client = body.Client
	f.SetFrontend(body.Services.Frontend.Tier)
	f.SetBackend(body.Services.Backend.Tier)
	f.Sel.Features = pricing.NormalizeFeatures(body.Services.Database.Features)
	f.SetPayment(body.Services.Payment.Included)
	if t := body.Toggle; t != nil {
		f.ToggleFeature(t.Feature, t.Checked)
	}

	var order *domain.OrderInput
	switch body.Action {
	case "next":
		f.Next()
	case "back":
		f.Back()
	case "submit":
		if in, ok := f.Submission(); ok {
			order = &in
		}
	case "":
		if body.Step == intake.StepClient || body.Step == intake.StepServices {
			f.ValidateStep(body.Step)
		}
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown action"})
	}

	errs := f.Errors
	if errs == nil {
		errs = map[string]string{}
	}
	priced, total := f.Priced()
	res := fiber.Map{
		"step":            f.Step,
		"services":        priced,
		"totalPrice":      total,
		"backendRequired": f.BackendRequired(),
		"errors":          errs,
	}
	if order != nil {
		res["order"] = order
	}
	return c.JSON(res)
}
