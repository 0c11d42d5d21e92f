package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/metrics"
	"github.com/tajious/shagun/internal/models"
	"github.com/tajious/shagun/internal/storage"
	"github.com/tajious/shagun/internal/subscription"
	"github.com/tajious/shagun/internal/validation"
)

// AuthService registers tenants and turns credentials into sessions.
type AuthService struct {
	store  storage.TenantStore
	hasher auth.Hasher
	tokens *auth.TokenCodec
	window time.Duration
	now    func() time.Time
}

func NewAuthService(store storage.TenantStore, hasher auth.Hasher, tokens *auth.TokenCodec, window time.Duration) *AuthService {
	return &AuthService{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		window: window,
		now:    time.Now,
	}
}

func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

type RegisterRequest struct {
	MarriageName      string `json:"marriageName" validate:"required"`
	MarriageDate      string `json:"marriageDate" validate:"required"`
	Location          string `json:"location" validate:"required"`
	AdminMobileNumber string `json:"adminMobileNumber" validate:"required,mobile"`
	Password          string `json:"password" validate:"required"`
	UpiID             string `json:"upiId" validate:"required,upi"`
	UpiPayeeName      string `json:"upiPayeeName" validate:"required"`
}

func (r *RegisterRequest) normalize() {
	r.MarriageName = strings.TrimSpace(r.MarriageName)
	r.MarriageDate = strings.TrimSpace(r.MarriageDate)
	r.Location = strings.TrimSpace(r.Location)
	r.AdminMobileNumber = strings.TrimSpace(r.AdminMobileNumber)
	r.UpiID = strings.ToLower(strings.TrimSpace(r.UpiID))
	r.UpiPayeeName = strings.TrimSpace(r.UpiPayeeName)
}

// Register creates a pending, inactive tenant with the user role.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.Tenant, error) {
	req.normalize()
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := auth.CheckPassword(req.Password); err != nil {
		return nil, apperror.Wrap(apperror.ErrValidation, err.Error(), err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	tenant := &models.Tenant{
		ID:                uuid.NewString(),
		MarriageName:      req.MarriageName,
		MarriageDate:      req.MarriageDate,
		Location:          req.Location,
		AdminMobileNumber: req.AdminMobileNumber,
		Password:          hash,
		UpiID:             req.UpiID,
		UpiPayeeName:      req.UpiPayeeName,
		Role:              models.RoleUser,
		Permissions:       models.PermissionPending,
		Status:            models.StatusInactive,
	}

	if err := s.store.CreateTenant(ctx, tenant); err != nil {
		if errors.Is(err, storage.ErrDuplicateMobile) {
			return nil, apperror.Wrap(apperror.ErrConflict, "Marriage already registered with this mobile number", err)
		}
		return nil, err
	}

	metrics.RecordRegistration()
	return tenant, nil
}

type LoginRequest struct {
	AdminMobileNumber string `json:"adminMobileNumber" validate:"required"`
	Password          string `json:"password" validate:"required"`
}

type Session struct {
	Tenant    *models.Tenant
	Token     string
	ExpiresAt time.Time
}

// Login verifies the credentials, issues a token carrying the tenant's role
// and permissions, and renews the subscription clock.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	req.AdminMobileNumber = strings.TrimSpace(req.AdminMobileNumber)
	if err := validation.ValidateStruct(req); err != nil {
		return nil, err
	}

	tenant, err := s.store.GetTenantByMobile(ctx, req.AdminMobileNumber)
	if err != nil {
		if errors.Is(err, storage.ErrTenantNotFound) {
			metrics.RecordLogin("not_found")
			return nil, apperror.NotFound("Marriage not found")
		}
		return nil, err
	}

	if err := s.hasher.Compare(tenant.Password, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			metrics.RecordLogin("invalid_credentials")
			return nil, apperror.New(apperror.ErrInvalidCredentials, "Invalid credentials")
		}
		return nil, err
	}

	token, expiresAt, err := s.tokens.Issue(tenant)
	if err != nil {
		return nil, err
	}

	patch := subscription.ActivateOnLogin(subscription.StateOf(tenant), s.now(), s.window)
	updated, err := s.store.UpdateTenant(ctx, tenant.ID, patch)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		metrics.RecordTransition("activated")
	} else {
		metrics.RecordTransition("renewed")
	}
	metrics.RecordLogin("success")

	return &Session{
		Tenant:    updated,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
