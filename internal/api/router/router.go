package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/shagun/internal/api/handlers"
	"github.com/tajious/shagun/internal/metrics"
	"github.com/tajious/shagun/internal/middleware"
	"github.com/tajious/shagun/internal/models"
)

type Router struct {
	app                 *fiber.App
	authHandler         *handlers.AuthHandler
	tenantHandler       *handlers.TenantHandler
	contributionHandler *handlers.ContributionHandler
	authMiddleware      *middleware.AuthMiddleware
	subscriptionGuard   *middleware.SubscriptionGuard
	rateLimiter         *middleware.RateLimiter
	loginRateLimit      int
}

func NewRouter(
	app *fiber.App,
	authHandler *handlers.AuthHandler,
	tenantHandler *handlers.TenantHandler,
	contributionHandler *handlers.ContributionHandler,
	authMiddleware *middleware.AuthMiddleware,
	subscriptionGuard *middleware.SubscriptionGuard,
	rateLimiter *middleware.RateLimiter,
	loginRateLimit int,
) *Router {
	return &Router{
		app:                 app,
		authHandler:         authHandler,
		tenantHandler:       tenantHandler,
		contributionHandler: contributionHandler,
		authMiddleware:      authMiddleware,
		subscriptionGuard:   subscriptionGuard,
		rateLimiter:         rateLimiter,
		loginRateLimit:      loginRateLimit,
	}
}

func (r *Router) SetupRoutes() {
	r.app.Get("/healthz", handlers.Health)
	r.app.Get("/metrics", metrics.Handler())

	authenticate := r.authMiddleware.Authenticate()
	guard := r.subscriptionGuard.Check()

	// Public routes
	marriages := r.app.Group("/api/marriages")
	marriages.Post("/register", r.authHandler.Register)
	marriages.Post("/login", r.rateLimiter.RateLimit(middleware.RateLimitConfig{
		Name:    "login",
		Enabled: r.loginRateLimit > 0,
		Limit:   r.loginRateLimit,
		Window:  time.Minute,
	}), r.authHandler.Login)
	marriages.Post("/logout", r.authHandler.Logout)

	// Protected routes
	marriages.Get("/me", authenticate, guard, r.tenantHandler.GetMe)
	marriages.Get("/", authenticate, r.authMiddleware.RequireRole(models.RoleAdmin), r.tenantHandler.ListTenants)
	marriages.Put("/me/update", authenticate, guard, r.tenantHandler.UpdateMe)
	marriages.Put("/:marriageId/access", authenticate, guard, r.tenantHandler.UpdateAccess)
	marriages.Delete("/delete/:marriageId", authenticate, guard, r.tenantHandler.DeleteTenant)

	visitors := r.app.Group("/api/marriage/visitors", authenticate, guard)
	visitors.Post("/", r.contributionHandler.Add)
	visitors.Get("/dashboard", r.contributionHandler.Dashboard)
	visitors.Get("/export", r.contributionHandler.Export)
	visitors.Get("/", r.contributionHandler.List)
	visitors.Put("/update/:id", r.contributionHandler.Update)
	visitors.Delete("/:id", r.contributionHandler.Delete)
}
