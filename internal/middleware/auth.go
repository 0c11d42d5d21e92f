package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/logging"
	"github.com/tajious/shagun/internal/metrics"
	"github.com/tajious/shagun/internal/models"
)

const localsClaims = "claims"

type AuthMiddleware struct {
	tokens *auth.TokenCodec
}

func NewAuthMiddleware(tokens *auth.TokenCodec) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
	}
}

// tokenFrom reads the session cookie, falling back to a bearer header.
func tokenFrom(c *fiber.Ctx) string {
	if token := c.Cookies(auth.SessionCookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Authenticate verifies the session token and stores its claims on the
// request. It never reads the store.
func (m *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := tokenFrom(c)
		if tokenString == "" {
			metrics.RecordAuthError("missing_token")
			return apperror.Unauthorized("Not authorized")
		}

		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			metrics.RecordAuthError("invalid_token")
			return apperror.Wrap(apperror.ErrInvalidToken, "Invalid token", err)
		}

		c.Locals(localsClaims, claims)
		c.Locals(logging.LocalsTenantID, claims.ID)
		return c.Next()
	}
}

// RequireRole rejects callers whose token role is not exactly role.
func (m *AuthMiddleware) RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := auth.RequireRole(ClaimsFrom(c), role); err != nil {
			return err
		}
		return c.Next()
	}
}

// ClaimsFrom returns the verified claims, or nil on unauthenticated routes.
func ClaimsFrom(c *fiber.Ctx) *models.Claims {
	claims, _ := c.Locals(localsClaims).(*models.Claims)
	return claims
}
