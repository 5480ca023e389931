package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/career-pathfinder/internal/logger"
	"alfredoptarigan/career-pathfinder/internal/services"
)

// RateLimit caps requests per client IP. Counter store failures let the
// request through.
func RateLimit(limiter *services.RateLimiter, scope string, log *logger.Logger) fiber.Handler {
	log = log.With("middleware", "ratelimit", "scope", scope)
	return func(c *fiber.Ctx) error {
		key := scope + ":" + c.IP()
		decision, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			log.Warn("rate limiter unavailable", "key", key, "error", err)
			return c.Next()
		}

		if decision.Remaining >= 0 {
			c.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
		if !decision.Allowed {
			retryAfter := int(time.Until(decision.ResetAt).Seconds()) + 1
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return errorJSON(c, fiber.StatusTooManyRequests,
				fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter))
		}
		return c.Next()
	}
}
