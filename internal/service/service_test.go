package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tajious/shagun/internal/auth"
	"github.com/tajious/shagun/internal/models"
	"github.com/tajious/shagun/internal/storage"
)

const window = 72 * time.Hour

type fixture struct {
	store         *storage.InMemoryStorage
	hasher        auth.Hasher
	tokens        *auth.TokenCodec
	auth          *AuthService
	tenants       *TenantService
	contributions *ContributionService
	now           time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:  storage.NewInMemoryStorage(),
		hasher: auth.BcryptHasher{Cost: 4},
		now:    time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return f.now }
	f.store.Now = clock
	f.tokens = auth.NewTokenCodec("test-secret", window).WithClock(clock)
	f.auth = NewAuthService(f.store, f.hasher, f.tokens, window).WithClock(clock)
	f.tenants = NewTenantService(f.store, f.hasher, window).WithClock(clock)
	f.contributions = NewContributionService(f.store, f.store)
	return f
}

func registerRequest(mobile string) RegisterRequest {
	return RegisterRequest{
		MarriageName:      "Asha weds Ravi",
		MarriageDate:      "2026-11-21",
		Location:          "Pune",
		AdminMobileNumber: mobile,
		Password:          "s3cretpass",
		UpiID:             "Ravi.Kumar@OKAXIS",
		UpiPayeeName:      "Ravi Kumar",
	}
}

func (f *fixture) register(t *testing.T, mobile string) *models.Tenant {
	t.Helper()
	tenant, err := f.auth.Register(context.Background(), registerRequest(mobile))
	require.NoError(t, err)
	return tenant
}

// admin creates a tenant and promotes it directly in the store.
func (f *fixture) admin(t *testing.T, mobile string) *models.Claims {
	t.Helper()
	tenant := f.register(t, mobile)
	role := models.RoleAdmin
	_, err := f.store.UpdateTenant(context.Background(), tenant.ID, models.TenantPatch{Role: &role})
	require.NoError(t, err)
	return &models.Claims{ID: tenant.ID, Role: models.RoleAdmin}
}

func (f *fixture) approve(t *testing.T, id string) {
	t.Helper()
	approved := models.PermissionApproved
	_, err := f.store.UpdateTenant(context.Background(), id, models.TenantPatch{Permissions: &approved})
	require.NoError(t, err)
}
