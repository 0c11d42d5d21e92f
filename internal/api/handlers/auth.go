package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	cookies auth.CookiePolicy
}

func NewAuthHandler(authService *service.AuthService, cookies auth.CookiePolicy) *AuthHandler {
	return &AuthHandler{
		auth:    authService,
		cookies: cookies,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req service.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	tenant, err := h.auth.Register(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    tenant,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	session, err := h.auth.Login(c.Context(), req)
	if err != nil {
		return err
	}

	c.Cookie(h.cookies.Session(session.Token, session.ExpiresAt))

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"_id":                   session.Tenant.ID,
			"marriageName":          session.Tenant.MarriageName,
			"role":                  session.Tenant.Role,
			"permissions":           session.Tenant.Permissions,
			"status":                session.Tenant.Status,
			"subscriptionExpiresAt": session.Tenant.SubscriptionExpiresAt,
		},
	})
}

// Logout clears the session cookie. Tokens are stateless, so nothing is
// revoked server side.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.cookies.Cleared())
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}
