package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/tajious/shagun/internal/logging"
	"go.uber.org/zap"
)

var errRateLimited = errors.New("rate limit exceeded")

type RateLimitStore interface {
	// Increment adds one hit and returns the count in the current window.
	Increment(ctx context.Context, key string, window time.Duration) (int, error)
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment bumps the counter. The window starts on the first hit; later
// hits do not extend it.
func (s *RedisStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	pipe := s.client.TxPipeline()

	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return int(incr.Val()), nil
}

// MemoryStore is a fixed-window counter for single-instance deployments.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*counterWindow
	now     func() time.Time
}

type counterWindow struct {
	count     int
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*counterWindow),
		now:     time.Now,
	}
}

func (s *MemoryStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, w := range s.windows {
		if now.After(w.expiresAt) {
			delete(s.windows, k)
		}
	}

	w, exists := s.windows[key]
	if !exists {
		w = &counterWindow{expiresAt: now.Add(window)}
		s.windows[key] = w
	}

	w.count++
	return w.count, nil
}

type RateLimiter struct {
	store   RateLimitStore
	enabled bool
}

type RateLimitConfig struct {
	Name    string
	Enabled bool
	Limit   int
	Window  time.Duration
}

func NewRateLimiter(store RateLimitStore, enabled bool) *RateLimiter {
	return &RateLimiter{
		store:   store,
		enabled: enabled,
	}
}

// RateLimit counts requests per IP and, once authenticated, per tenant.
// A failing store lets the request through.
func (r *RateLimiter) RateLimit(config RateLimitConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !r.enabled || !config.Enabled {
			return c.Next()
		}

		ip := c.IP()
		ipKey := fmt.Sprintf("rate_limit:%s:ip:%s", config.Name, ip)
		if err := r.checkRateLimit(c.Context(), ipKey, config); err != nil {
			if errors.Is(err, errRateLimited) {
				c.Set(fiber.HeaderRetryAfter, retryAfter(config.Window))
				return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			}
			logging.FromCtx(c).Warn("rate limit store unavailable", zap.Error(err))
		}

		if claims := ClaimsFrom(c); claims != nil {
			tenantKey := fmt.Sprintf("rate_limit:%s:tenant:%s", config.Name, claims.ID)
			if err := r.checkRateLimit(c.Context(), tenantKey, config); err != nil {
				if errors.Is(err, errRateLimited) {
					c.Set(fiber.HeaderRetryAfter, retryAfter(config.Window))
					return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests, please try again later.")
				}
				logging.FromCtx(c).Warn("rate limit store unavailable", zap.Error(err))
			}
		}

		return c.Next()
	}
}

func (r *RateLimiter) checkRateLimit(ctx context.Context, key string, config RateLimitConfig) error {
	count, err := r.store.Increment(ctx, key, config.Window)
	if err != nil {
		return err
	}
	if count > config.Limit {
		return errRateLimited
	}
	return nil
}

func retryAfter(window time.Duration) string {
	return strconv.Itoa(int(window.Seconds()))
}
