// Package api assembles the fiber application: global middleware, services,
// handlers and routes.
package api

import (
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/shopspring/decimal"
	"github.com/tajious/shagun/internal/api/handlers"
	"github.com/tajious/shagun/internal/api/router"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/config"
	"github.com/tajious/shagun/internal/logging"
	"github.com/tajious/shagun/internal/metrics"
	"github.com/tajious/shagun/internal/middleware"
	"github.com/tajious/shagun/internal/service"
	"github.com/tajious/shagun/internal/storage"
	"go.uber.org/zap"
)

type Deps struct {
	Config         *config.Config
	Store          storage.Storage
	Hasher         auth.Hasher
	Logger         *zap.Logger
	RateLimitStore middleware.RateLimitStore
	// Now overrides the clock; nil means time.Now.
	Now func() time.Time
}

var jsonNumbers sync.Once

func New(deps Deps) *fiber.App {
	// Amounts go over the wire as JSON numbers.
	jsonNumbers.Do(func() { decimal.MarshalJSONWithoutQuotes = true })

	cfg := deps.Config
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	rateStore := deps.RateLimitStore
	if rateStore == nil {
		rateStore = middleware.NewMemoryStore()
	}

	app := fiber.New(fiber.Config{
		AppName:      "Shagun",
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(logging.Middleware(log))
	app.Use(helmet.New())
	app.Use(cors.New(corsConfig(cfg.Server.AllowedOrigins)))

	rateLimiter := middleware.NewRateLimiter(rateStore, true)
	app.Use(rateLimiter.RateLimit(middleware.RateLimitConfig{
		Name:    "global",
		Enabled: cfg.Server.RateLimit.Enabled,
		Limit:   cfg.Server.RateLimit.Limit,
		Window:  cfg.Server.RateLimit.Window,
	}))

	cookies := auth.CookiePolicy{Production: cfg.IsProduction()}
	tokens := auth.NewTokenCodec(cfg.JWT.Secret, cfg.JWT.Expiration).WithClock(now)

	authService := service.NewAuthService(deps.Store, deps.Hasher, tokens, cfg.Subscription.Window).WithClock(now)
	tenantService := service.NewTenantService(deps.Store, deps.Hasher, cfg.Subscription.Window).WithClock(now)
	contributionService := service.NewContributionService(deps.Store, deps.Store)

	apiRouter := router.NewRouter(
		app,
		handlers.NewAuthHandler(authService, cookies),
		handlers.NewTenantHandler(tenantService),
		handlers.NewContributionHandler(contributionService),
		middleware.NewAuthMiddleware(tokens),
		middleware.NewSubscriptionGuard(deps.Store, cookies).WithClock(now),
		rateLimiter,
		cfg.Server.LoginRateLimit,
	)
	apiRouter.SetupRoutes()

	return app
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods: "GET,POST,PUT,DELETE,PATCH",
		AllowHeaders: "Content-Type,Authorization",
		MaxAge:       86400,
	}
	if len(origins) > 0 {
		c.AllowOrigins = strings.Join(origins, ",")
		c.AllowCredentials = true
	}
	return c
}
