package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	localsLogger    = "logger"
	localsRequestID = "requestid"
	// LocalsTenantID is set by the auth middleware once a token is verified.
	LocalsTenantID = "tenant_id"
)

// New builds a JSON logger in production and a console logger otherwise.
func New(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if environment == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(lvl)

	return cfg.Build()
}

// Middleware logs one line per request. Errors from the chain are resolved
// through the app's error handler first so the logged status is the one
// the client sees.
func Middleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		requestID, _ := c.Locals(localsRequestID).(string)
		reqLog := log.With(zap.String("request_id", requestID))
		c.Locals(localsLogger, reqLog)

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if tenantID, ok := c.Locals(LocalsTenantID).(string); ok && tenantID != "" {
			fields = append(fields, zap.String("tenant_id", tenantID))
		}

		switch {
		case chainErr != nil && c.Response().StatusCode() >= fiber.StatusInternalServerError:
			reqLog.Error("HTTP request failed", append(fields, zap.Error(chainErr))...)
		case chainErr != nil:
			reqLog.Info("HTTP request rejected", append(fields, zap.String("reason", chainErr.Error()))...)
		default:
			reqLog.Info("HTTP request completed", fields...)
		}
		return nil
	}
}

// FromCtx returns the request logger, or a no-op logger outside a request.
func FromCtx(c *fiber.Ctx) *zap.Logger {
	if log, ok := c.Locals(localsLogger).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}
