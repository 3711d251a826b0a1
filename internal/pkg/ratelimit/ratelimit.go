package ratelimit

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/storage/redis"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PosCloud/internal/pkg/config"
)

// limiterDatabase keeps limiter counters apart from the cache (DB 0).
const limiterDatabase = 1

// NewStorage returns a redis-backed limiter storage on the cache server, or
// nil when there is no reachable cache and the limiter should keep counters
// in memory.
func NewStorage(cfg *config.Config, client *goredis.Client) fiber.Storage {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnf("rate limiter falls back to memory storage: %v", err)
		return nil
	}

	host := cfg.CacheHost
	port := 6379
	if h, p, err := net.SplitHostPort(client.Options().Addr); err == nil {
		host = h
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	return redis.New(redis.Config{
		Host:     host,
		Port:     port,
		Password: cfg.CachePassword,
		Database: limiterDatabase,
		Reset:    false,
	})
}

// New builds the per-client request limiter for the API group.
func New(cfg *config.Config, storage fiber.Storage, keyFn func(*fiber.Ctx) string) fiber.Handler {
	lc := limiter.Config{
		Max:          cfg.RateLimitMax,
		Expiration:   cfg.RateLimitWindow,
		KeyGenerator: keyFn,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":   "rate_limited",
				"message": "too many requests",
			})
		},
	}
	if storage != nil {
		lc.Storage = storage
	}
	return limiter.New(lc)
}
