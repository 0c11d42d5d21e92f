package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/metrics"
	"github.com/tajious/shagun/internal/models"
	"github.com/tajious/shagun/internal/storage"
	"github.com/tajious/shagun/internal/subscription"
	"github.com/tajious/shagun/internal/validation"
)

type TenantService struct {
	store  storage.TenantStore
	hasher auth.Hasher
	window time.Duration
	now    func() time.Time
}

func NewTenantService(store storage.TenantStore, hasher auth.Hasher, window time.Duration) *TenantService {
	return &TenantService{
		store:  store,
		hasher: hasher,
		window: window,
		now:    time.Now,
	}
}

func (s *TenantService) WithClock(now func() time.Time) *TenantService {
	s.now = now
	return s
}

func notFoundTenant(err error) error {
	if errors.Is(err, storage.ErrTenantNotFound) {
		return apperror.Wrap(apperror.ErrNotFound, "Marriage not found", err)
	}
	return err
}

func (s *TenantService) GetOwn(ctx context.Context, claims *models.Claims) (*models.Tenant, error) {
	if claims == nil {
		return nil, apperror.Unauthorized("Not authorized")
	}
	tenant, err := s.store.GetTenant(ctx, claims.ID)
	if err != nil {
		return nil, notFoundTenant(err)
	}
	return tenant, nil
}

func (s *TenantService) ListAll(ctx context.Context, claims *models.Claims) ([]*models.Tenant, error) {
	if err := auth.RequireRole(claims, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.store.ListTenants(ctx)
}

// ProfileRequest holds the fields a tenant may change on itself.
type ProfileRequest struct {
	MarriageName      *string `json:"marriageName" validate:"omitempty,min=1"`
	MarriageDate      *string `json:"marriageDate" validate:"omitempty,min=1"`
	Location          *string `json:"location" validate:"omitempty,min=1"`
	AdminMobileNumber *string `json:"adminMobileNumber" validate:"omitempty,mobile"`
	UpiID             *string `json:"upiId" validate:"omitempty,upi"`
	UpiPayeeName      *string `json:"upiPayeeName" validate:"omitempty,min=1"`
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func (r *ProfileRequest) normalize() {
	r.MarriageName = trimmed(r.MarriageName)
	r.MarriageDate = trimmed(r.MarriageDate)
	r.Location = trimmed(r.Location)
	r.AdminMobileNumber = trimmed(r.AdminMobileNumber)
	r.UpiPayeeName = trimmed(r.UpiPayeeName)
	if r.UpiID = trimmed(r.UpiID); r.UpiID != nil {
		lower := strings.ToLower(*r.UpiID)
		r.UpiID = &lower
	}
}

func requireNonEmpty(fields map[string]*string) error {
	for name, v := range fields {
		if v != nil && *v == "" {
			return apperror.Validation(name + " cannot be empty")
		}
	}
	return nil
}

func (s *TenantService) UpdateProfile(ctx context.Context, claims *models.Claims, req ProfileRequest) (*models.Tenant, error) {
	if err := auth.RequireRole(claims, models.RoleUser); err != nil {
		return nil, err
	}

	req.normalize()
	if err := requireNonEmpty(map[string]*string{
		"marriageName":      req.MarriageName,
		"marriageDate":      req.MarriageDate,
		"location":          req.Location,
		"adminMobileNumber": req.AdminMobileNumber,
		"upiId":             req.UpiID,
		"upiPayeeName":      req.UpiPayeeName,
	}); err != nil {
		return nil, err
	}
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	patch := models.TenantPatch{
		MarriageName:      req.MarriageName,
		MarriageDate:      req.MarriageDate,
		Location:          req.Location,
		AdminMobileNumber: req.AdminMobileNumber,
		UpiID:             req.UpiID,
		UpiPayeeName:      req.UpiPayeeName,
	}

	tenant, err := s.store.UpdateTenant(ctx, claims.ID, patch)
	if err != nil {
		if errors.Is(err, storage.ErrDuplicateMobile) {
			return nil, apperror.Wrap(apperror.ErrConflict, "Mobile number already registered", err)
		}
		return nil, notFoundTenant(err)
	}
	return tenant, nil
}

// AccessRequest is the admin-only access update.
type AccessRequest struct {
	Permissions           *models.Permission `json:"permissions"`
	Password              *string            `json:"password"`
	Status                *models.Status     `json:"status"`
	SubscriptionExpiresAt *time.Time         `json:"subscriptionExpiresAt"`
}

func (r AccessRequest) validate() error {
	if r.Permissions == nil && r.Password == nil && r.Status == nil && r.SubscriptionExpiresAt == nil {
		return apperror.Validation("No valid fields provided")
	}
	if r.Permissions != nil && !r.Permissions.Valid() {
		return apperror.Validation("permissions must be one of: pending approved rejected expired")
	}
	if r.Status != nil && !r.Status.Valid() {
		return apperror.Validation("status must be one of: active inactive")
	}
	if r.Password != nil {
		if err := auth.CheckPassword(*r.Password); err != nil {
			return apperror.Wrap(apperror.ErrValidation, err.Error(), err)
		}
	}
	return nil
}

// UpdateAccess applies an admin edit to another tenant. An omitted expiry
// defaults to now+window and an inactive tenant is reactivated.
func (s *TenantService) UpdateAccess(ctx context.Context, claims *models.Claims, targetID string, req AccessRequest) (*models.Tenant, error) {
	if err := auth.RequireRole(claims, models.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(targetID) == "" {
		return nil, apperror.Validation("Marriage ID is required")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	target, err := s.store.GetTenant(ctx, targetID)
	if err != nil {
		return nil, notFoundTenant(err)
	}

	change := subscription.AccessChange{
		Permissions:           req.Permissions,
		Status:                req.Status,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		change.PasswordHash = &hash
	}

	patch := subscription.ReactivateOnAdminEdit(subscription.StateOf(target), change, s.now(), s.window)
	updated, err := s.store.UpdateTenant(ctx, targetID, patch)
	if err != nil {
		return nil, notFoundTenant(err)
	}

	if req.Status == nil && target.Status == models.StatusInactive {
		metrics.RecordTransition("reactivated")
	}
	return updated, nil
}

func (s *TenantService) Delete(ctx context.Context, claims *models.Claims, targetID string) error {
	if err := auth.RequireRole(claims, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.store.DeleteTenant(ctx, targetID); err != nil {
		return notFoundTenant(err)
	}
	return nil
}
