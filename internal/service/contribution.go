package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/models"
	"github.com/tajious/shagun/internal/storage"
	"github.com/tajious/shagun/internal/validation"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type ContributionService struct {
	tenants       storage.TenantStore
	contributions storage.ContributionStore
}

func NewContributionService(tenants storage.TenantStore, contributions storage.ContributionStore) *ContributionService {
	return &ContributionService{
		tenants:       tenants,
		contributions: contributions,
	}
}

type ContributionRequest struct {
	VisitorName string             `json:"visitorName" validate:"required"`
	Amount      decimal.Decimal    `json:"amount"`
	PaymentMode models.PaymentMode `json:"paymentMode" validate:"required,oneof=CASH UPI"`
	Address     string             `json:"address" validate:"required"`
	Notes       string             `json:"notes"`
	GiftGiven   bool               `json:"giftGiven"`
}

func validAmount(d decimal.Decimal) error {
	if !d.IsPositive() {
		return apperror.Validation("amount must be greater than zero")
	}
	return nil
}

func identity(claims *models.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperror.Unauthorized("Not authorized")
	}
	return nil
}

// Add records a visitor. The approval check reads the stored tenant, not the
// token, since permissions may have changed since login.
func (s *ContributionService) Add(ctx context.Context, claims *models.Claims, req ContributionRequest) (*models.Contribution, error) {
	if err := identity(claims); err != nil {
		return nil, err
	}

	req.VisitorName = strings.TrimSpace(req.VisitorName)
	req.Address = strings.TrimSpace(req.Address)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := validAmount(req.Amount); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetTenant(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			return nil, apperror.Unauthorized("Invalid user")
		}
		return nil, err
	}
	if tenant.Permissions != models.PermissionApproved {
		return nil, apperror.Forbidden("Marriage is not approved to add visitors")
	}

	notes := req.Notes
	if notes == "" {
		notes = models.DefaultContributionNotes
	}

	c := &models.Contribution{
		ID:          uuid.NewString(),
		MarriageID:  tenant.ID,
		VisitorName: req.VisitorName,
		Amount:      req.Amount,
		PaymentMode: req.PaymentMode,
		Address:     req.Address,
		Notes:       notes,
		GiftGiven:   req.GiftGiven,
	}
	if err := s.contributions.CreateContribution(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

type ContributionPage struct {
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalVisitors int64                  `json:"totalVisitors"`
	TotalPages    int                    `json:"totalPages"`
	HasNextPage   bool                   `json:"hasNextPage"`
	HasPrevPage   bool                   `json:"hasPrevPage"`
	Data          []*models.Contribution `json:"data"`
}

// maxPage keeps (page-1)*limit within int for any accepted limit.
const maxPage = math.MaxInt / MaxPageLimit

// normalizePage clamps page to >= 1 and limit to (0, MaxPageLimit].
func normalizePage(page, limit int) (int, int, error) {
	if page > maxPage {
		return 0, 0, apperror.Validation("page is out of range")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit, nil
}

func (s *ContributionService) List(ctx context.Context, claims *models.Claims, page, limit int) (*ContributionPage, error) {
	if err := identity(claims); err != nil {
		return nil, err
	}
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}

	items, total, err := s.contributions.ListContributions(ctx, claims.ID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Contribution{}
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return &ContributionPage{
		Page:          page,
		Limit:         limit,
		TotalVisitors: total,
		TotalPages:    totalPages,
		HasNextPage:   page < totalPages,
		HasPrevPage:   page > 1,
		Data:          items,
	}, nil
}

func (s *ContributionService) Export(ctx context.Context, claims *models.Claims) ([]*models.Contribution, error) {
	if err := identity(claims); err != nil {
		return nil, err
	}
	return s.contributions.AllContributions(ctx, claims.ID)
}

// owned loads a contribution and checks it belongs to the caller.
func (s *ContributionService) owned(ctx context.Context, claims *models.Claims, id string) (*models.Contribution, error) {
	c, err := s.contributions.GetContribution(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrContributionNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "Visitor not found", err)
		}
		return nil, err
	}
	if c.MarriageID != claims.ID {
		return nil, apperror.Forbidden("Not authorized")
	}
	return c, nil
}

type ContributionUpdateRequest struct {
	VisitorName *string             `json:"visitorName"`
	Amount      *decimal.Decimal    `json:"amount"`
	PaymentMode *models.PaymentMode `json:"paymentMode" validate:"omitempty,oneof=CASH UPI"`
	Address     *string             `json:"address"`
	Notes       *string             `json:"notes"`
	GiftGiven   *bool               `json:"giftGiven"`
}

func (s *ContributionService) Update(ctx context.Context, claims *models.Claims, id string, req ContributionUpdateRequest) (*models.Contribution, error) {
	if err := identity(claims); err != nil {
		return nil, err
	}

	req.VisitorName = trimmed(req.VisitorName)
	req.Address = trimmed(req.Address)
	req.Notes = trimmed(req.Notes)
	if err := requireNonEmpty(map[string]*string{
		"visitorName": req.VisitorName,
		"address":     req.Address,
	}); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	if req.Amount != nil {
		if err := validAmount(*req.Amount); err != nil {
			return nil, err
		}
	}

	if _, err := s.owned(ctx, claims, id); err != nil {
		return nil, err
	}

	updated, err := s.contributions.UpdateContribution(ctx, id, models.ContributionPatch{
		VisitorName: req.VisitorName,
		Amount:      req.Amount,
		PaymentMode: req.PaymentMode,
		Address:     req.Address,
		Notes:       req.Notes,
		GiftGiven:   req.GiftGiven,
	})
	if err != nil {
		if errors.Is(err, storage.ErrContributionNotFound) {
			return nil, apperror.Wrap(apperror.ErrNotFound, "Visitor not found", err)
		}
		return nil, err
	}
	return updated, nil
}

func (s *ContributionService) Delete(ctx context.Context, claims *models.Claims, id string) error {
	if err := identity(claims); err != nil {
		return err
	}
	if _, err := s.owned(ctx, claims, id); err != nil {
		return err
	}
	if err := s.contributions.DeleteContribution(ctx, id); err != nil {
		if errors.Is(err, storage.ErrContributionNotFound) {
			return apperror.Wrap(apperror.ErrNotFound, "Visitor not found", err)
		}
		return err
	}
	return nil
}

func (s *ContributionService) Stats(ctx context.Context, claims *models.Claims) (*models.ContributionStats, error) {
	if err := identity(claims); err != nil {
		return nil, err
	}
	return s.contributions.ContributionStats(ctx, claims.ID)
}
