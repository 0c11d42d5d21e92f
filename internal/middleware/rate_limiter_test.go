package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreWindow(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	count, err := store.Increment(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	count, _ = store.Increment(ctx, "k", time.Minute)
	assert.Equal(t, 2, count)

	now = now.Add(time.Minute + time.Second)
	count, _ = store.Increment(ctx, "k", time.Minute)
	assert.Equal(t, 1, count)
}

func TestCheckRateLimitUnderConcurrency(t *testing.T) {
	limiter := NewRateLimiter(NewMemoryStore(), true)
	cfg := RateLimitConfig{Name: "test", Enabled: true, Limit: 5, Window: time.Minute}

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.checkRateLimit(context.Background(), "shared", cfg) == nil {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), allowed.Load())
}

func limitedApp(store RateLimitStore, cfg RateLimitConfig) *fiber.App {
	app := fiber.New()
	app.Get("/", NewRateLimiter(store, true).RateLimit(cfg), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	app := limitedApp(NewMemoryStore(), RateLimitConfig{Name: "test", Enabled: true, Limit: 2, Window: time.Minute})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestRateLimitDisabled(t *testing.T) {
	app := limitedApp(NewMemoryStore(), RateLimitConfig{Name: "test", Enabled: false, Limit: 1, Window: time.Minute})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}

type brokenStore struct{}

func (brokenStore) Increment(context.Context, string, time.Duration) (int, error) {
	return 0, errors.New("connection refused")
}

func TestRateLimitFailsOpen(t *testing.T) {
	app := limitedApp(brokenStore{}, RateLimitConfig{Name: "test", Enabled: true, Limit: 1, Window: time.Minute})

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
