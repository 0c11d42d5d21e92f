package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tajious/shagun/internal/middleware"
	"github.com/tajious/shagun/internal/service"
)

type ContributionHandler struct {
	contributions *service.ContributionService
}

func NewContributionHandler(contributions *service.ContributionService) *ContributionHandler {
	return &ContributionHandler{
		contributions: contributions,
	}
}

func (h *ContributionHandler) Add(c *fiber.Ctx) error {
	var req service.ContributionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	contribution, err := h.contributions.Add(c.Context(), middleware.ClaimsFrom(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Visitor added successfully",
		"data":    contribution,
	})
}

type listQuery struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

func (h *ContributionHandler) List(c *fiber.Ctx) error {
	var q listQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidBody(err)
	}

	page, err := h.contributions.List(c.Context(), middleware.ClaimsFrom(c), q.Page, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success":       true,
		"page":          page.Page,
		"limit":         page.Limit,
		"totalVisitors": page.TotalVisitors,
		"totalPages":    page.TotalPages,
		"hasNextPage":   page.HasNextPage,
		"hasPrevPage":   page.HasPrevPage,
		"data":          page.Data,
	})
}

func (h *ContributionHandler) Export(c *fiber.Ctx) error {
	contributions, err := h.contributions.Export(c.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(contributions),
		"data":    contributions,
	})
}

func (h *ContributionHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.contributions.Stats(c.Context(), middleware.ClaimsFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

func (h *ContributionHandler) Update(c *fiber.Ctx) error {
	var req service.ContributionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	contribution, err := h.contributions.Update(c.Context(), middleware.ClaimsFrom(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Visitor updated successfully",
		"data":    contribution,
	})
}

func (h *ContributionHandler) Delete(c *fiber.Ctx) error {
	if err := h.contributions.Delete(c.Context(), middleware.ClaimsFrom(c), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Visitor deleted successfully",
	})
}
