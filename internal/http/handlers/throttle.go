package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	applog "frieren/internal/log"
	"frieren/internal/metrics"
	"frieren/internal/ratelimit"
)

// Rule is one fixed-window budget keyed by action and client address.
type Rule struct {
	Action  string
	Window  time.Duration
	Max     int
	Message func(retryAfter int) string
}

var (
	OrderRule = Rule{
		Action: "order",
		Window: time.Hour,
		Max:    3,
		Message: func(int) string {
			return "Too many requests. Please try again later."
		},
	}
	LoginRule = Rule{
		Action: "login",
		Window: 15 * time.Minute,
		Max:    5,
		Message: func(secs int) string {
			return fmt.Sprintf("Too many login attempts. Please try again in %d seconds.", secs)
		},
	}
	ChatRule = Rule{
		Action: "chat",
		Window: time.Minute,
		Max:    20,
		Message: func(int) string {
			return "Too many messages. Please slow down."
		},
	}
)

// Throttle consults the limiter once per request before the handler runs.
// A limiter backend failure lets the request through.
func Throttle(l ratelimit.Limiter, r Rule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := r.Action + ":" + clientIP(c)
		res, err := l.Check(c.UserContext(), key, r.Window, r.Max)
		if err != nil {
			applog.Error(c, "rate."+r.Action+".backend", err, nil)
			return c.Next()
		}
		if res.Allowed {
			return c.Next()
		}
		secs := ratelimit.RetryAfterSeconds(res.RetryAfter)
		metrics.RateLimited.WithLabelValues(r.Action).Inc()
		c.Set(fiber.HeaderRetryAfter, itoa(secs))
		c.Status(fiber.StatusTooManyRequests)
		applog.Security(c, "rate."+r.Action+".hit", map[string]any{"retry_after": secs})
		return c.JSON(fiber.Map{"error": r.Message(secs), "retryAfter": secs})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(c *fiber.Ctx) string {
	if xff := c.Get(fiber.HeaderXForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return c.IP()
}

func itoa(n int) string { return strconv.Itoa(n) }
