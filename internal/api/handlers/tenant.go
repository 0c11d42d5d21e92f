package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tajious/shagun/internal/middleware"
	"github.com/tajious/shagun/internal/service"
)

type TenantHandler struct {
	tenants *service.TenantService
}

func NewTenantHandler(tenants *service.TenantService) *TenantHandler {
	return &TenantHandler{
		tenants: tenants,
	}
}

func (h *TenantHandler) GetMe(c *fiber.Ctx) error {
	tenant, err := h.tenants.GetOwn(c.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    tenant,
	})
}

func (h *TenantHandler) ListTenants(c *fiber.Ctx) error {
	tenants, err := h.tenants.ListAll(c.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(tenants),
		"data":    tenants,
	})
}

func (h *TenantHandler) UpdateMe(c *fiber.Ctx) error {
	var req service.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	tenant, err := h.tenants.UpdateProfile(c.Context(), middleware.ClaimsFrom(c), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    tenant,
	})
}

func (h *TenantHandler) UpdateAccess(c *fiber.Ctx) error {
	var req service.AccessRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	tenant, err := h.tenants.UpdateAccess(c.Context(), middleware.ClaimsFrom(c), c.Params("marriageId"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Marriage details updated successfully",
		"data":    tenant,
	})
}

func (h *TenantHandler) DeleteTenant(c *fiber.Ctx) error {
	if err := h.tenants.Delete(c.Context(), middleware.ClaimsFrom(c), c.Params("marriageId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Marriage deleted successfully",
	})
}
