package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RegistrationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shagun_registrations_total",
			Help: "Total number of tenant registrations",
		},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shagun_logins_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success, not_found, invalid_credentials
	)

	AuthErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shagun_auth_errors_total",
			Help: "Rejected requests at the auth gate and subscription guard",
		},
		[]string{"type"},
	)

	SubscriptionTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shagun_subscription_transitions_total",
			Help: "Subscription state transitions",
		},
		[]string{"transition"}, // activated, renewed, expired, reactivated
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shagun_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shagun_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method", "status"},
	)
)

var registerOnce sync.Once

// Register adds every collector to the default registry. Safe to call twice.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RegistrationsTotal,
			LoginsTotal,
			AuthErrorsTotal,
			SubscriptionTransitionsTotal,
			HTTPRequestsTotal,
			HTTPRequestDuration,
		)
	})
}

func RecordRegistration() { RegistrationsTotal.Inc() }

func RecordLogin(outcome string) { LoginsTotal.WithLabelValues(outcome).Inc() }

func RecordAuthError(kind string) { AuthErrorsTotal.WithLabelValues(kind).Inc() }

func RecordTransition(transition string) {
	SubscriptionTransitionsTotal.WithLabelValues(transition).Inc()
}

// Middleware records request count and latency. It must sit outside the
// request logger, which resolves errors into the final status.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		HTTPRequestsTotal.WithLabelValues(route, c.Method(), status).Inc()
		HTTPRequestDuration.WithLabelValues(route, c.Method(), status).Observe(time.Since(start).Seconds())
		return err
	}
}

func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
