package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/logging"
	"github.com/tajious/shagun/internal/metrics"
	"github.com/tajious/shagun/internal/storage"
	"github.com/tajious/shagun/internal/subscription"
	"go.uber.org/zap"
)

// SubscriptionGuard enforces the subscription status on every protected
// request and performs the lazy active -> expired transition. It always
// reads the tenant from the store; token claims are not trusted here.
type SubscriptionGuard struct {
	store   storage.TenantStore
	cookies auth.CookiePolicy
	now     func() time.Time
}

func NewSubscriptionGuard(store storage.TenantStore, cookies auth.CookiePolicy) *SubscriptionGuard {
	return &SubscriptionGuard{
		store:   store,
		cookies: cookies,
		now:     time.Now,
	}
}

func (g *SubscriptionGuard) WithClock(now func() time.Time) *SubscriptionGuard {
	g.now = now
	return g
}

func (g *SubscriptionGuard) Check() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return c.Next()
		}

		tenant, err := g.store.GetTenant(c.Context(), claims.ID)
		if err != nil {
			if errors.Is(err, storage.ErrTenantNotFound) {
				metrics.RecordAuthError("tenant_missing")
				return apperror.Unauthorized("Invalid user")
			}
			return err
		}

		now := g.now()
		switch subscription.Evaluate(subscription.StateOf(tenant), now) {
		case subscription.RejectInactive:
			c.Cookie(g.cookies.Cleared())
			metrics.RecordAuthError("subscription_inactive")
			return apperror.New(apperror.ErrSubscriptionInactive, "Subscription inactive")

		case subscription.Expire:
			changed, err := g.store.ApplyExpiry(c.Context(), tenant.ID, now, subscription.ExpireTransition())
			if err != nil {
				return err
			}
			if changed {
				metrics.RecordTransition("expired")
				logging.FromCtx(c).Info("subscription expired",
					zap.String("tenant_id", tenant.ID),
					zap.Timep("expired_at", tenant.SubscriptionExpiresAt))
			}
			c.Cookie(g.cookies.Cleared())
			metrics.RecordAuthError("subscription_expired")
			return apperror.New(apperror.ErrSubscriptionExpired, "Subscription expired")
		}

		return c.Next()
	}
}
