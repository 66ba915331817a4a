package handlers

import (
	"errors"
	"sort"

	"github.com/gofiber/fiber/v2"

	"frieren/internal/domain"
	applog "frieren/internal/log"
	"frieren/internal/ratelimit"
)

// fail maps a service error to its status and a client-safe body. Anything
// outside the domain taxonomy is logged and answered with public.
func fail(c *fiber.Ctx, action string, err error, public string) error {
	var (
		verr *domain.ValidationError
		rerr *domain.RateLimitedError
	)
	switch {
	case errors.As(err, &verr):
		c.Status(fiber.StatusBadRequest)
		applog.Security(c, action+".invalid", map[string]any{"fields": fieldNames(verr)})
		return c.JSON(fiber.Map{"error": "Validation failed", "details": verr.Fields})
	case errors.Is(err, domain.ErrUnauthorized):
		c.Status(fiber.StatusUnauthorized)
		applog.Security(c, action+".unauthorized", nil)
		return c.JSON(fiber.Map{"error": "Unauthorized"})
	case errors.As(err, &rerr):
		secs := ratelimit.RetryAfterSeconds(rerr.RetryAfter)
		c.Set(fiber.HeaderRetryAfter, itoa(secs))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many requests. Please try again later.", "retryAfter": secs})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Order not found"})
	default:
		c.Status(fiber.StatusInternalServerError)
		applog.Error(c, action+".fail", err, nil)
		return c.JSON(fiber.Map{"error": public})
	}
}

func fieldNames(v *domain.ValidationError) []string {
	out := make([]string, 0, len(v.Fields))
	for k := range v.Fields {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
