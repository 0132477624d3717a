package middleware

import (
	"context"
	"fmt"
	"time"

	"yatube/internal/models"
	"yatube/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// rateLimitKey groups a caller's hits against a named resource inside one
// redis counter per window.
func rateLimitKey(resource, id string) string {
	return fmt.Sprintf("rl:%s:%s", resource, id)
}

// CheckRateLimit counts one hit against the caller's window and reports
// whether the request is still within the limit. A nil client or a redis
// error never blocks the request.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return true, nil
	}

	key := rateLimitKey(resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit returns middleware enforcing `limit` requests per `window` for
// the named resource. Hits are keyed by the authenticated user when one is
// set in c.Locals("userID"), by remote IP otherwise. The limiter stands down
// entirely when the application runs with Env "test".
func RateLimit(rdb *redis.Client, env string, limit int, window time.Duration, name ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if env == "test" {
			return c.Next()
		}

		id := fmt.Sprintf("ip:%s", c.IP())
		if uid := c.Locals("userID"); uid != nil {
			id = fmt.Sprintf("user:%v", uid)
		}

		resource := c.Path()
		if len(name) > 0 {
			resource = name[0]
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			observability.GlobalLogger.Warn("rate limit check failed, allowing request",
				"resource", resource,
				"error", err.Error(),
			)
			return c.Next()
		}
		if !allowed {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitError("Too many requests, please try again later"))
		}
		return c.Next()
	}
}
