package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/models"
)

func TestRegisterDefaults(t *testing.T) {
	f := newFixture(t)
	tenant := f.register(t, "9876543210")

	assert.NotEmpty(t, tenant.ID)
	assert.Equal(t, models.RoleUser, tenant.Role)
	assert.Equal(t, models.PermissionPending, tenant.Permissions)
	assert.Equal(t, models.StatusInactive, tenant.Status)
	assert.Nil(t, tenant.SubscriptionExpiresAt)
	assert.Equal(t, "ravi.kumar@okaxis", tenant.UpiID)
	assert.NotEqual(t, "s3cretpass", tenant.Password)
	assert.NoError(t, f.hasher.Compare(tenant.Password, "s3cretpass"))
}

func TestRegisterDuplicateMobile(t *testing.T) {
	f := newFixture(t)
	f.register(t, "9876543210")

	other := registerRequest("9876543210")
	other.MarriageName = "Someone else"
	other.Location = "Nagpur"
	_, err := f.auth.Register(context.Background(), other)
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)

	cases := map[string]func(r *RegisterRequest){
		"missing name":     func(r *RegisterRequest) { r.MarriageName = "   " },
		"missing date":     func(r *RegisterRequest) { r.MarriageDate = "" },
		"missing location": func(r *RegisterRequest) { r.Location = "" },
		"bad mobile":       func(r *RegisterRequest) { r.AdminMobileNumber = "1234567890" },
		"short password":   func(r *RegisterRequest) { r.Password = "short" },
		"four characters":  func(r *RegisterRequest) { r.Password = "éééé" },
		"long password":    func(r *RegisterRequest) { r.Password = strings.Repeat("x", 80) },
		"bad upi":          func(r *RegisterRequest) { r.UpiID = "not-a-upi" },
		"missing payee":    func(r *RegisterRequest) { r.UpiPayeeName = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := registerRequest("9876543210")
			mutate(&req)
			_, err := f.auth.Register(context.Background(), req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}
}

func TestLoginUnknownMobile(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Login(context.Background(), LoginRequest{AdminMobileNumber: "9876543210", Password: "s3cretpass"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLoginWrongPassword(t *testing.T) {
	f := newFixture(t)
	tenant := f.register(t, "9876543210")

	_, err := f.auth.Login(context.Background(), LoginRequest{AdminMobileNumber: "9876543210", Password: "wrongpass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	stored, _ := f.store.GetTenant(context.Background(), tenant.ID)
	assert.Equal(t, models.StatusInactive, stored.Status, "failed login must not activate")
}

func TestLoginIssuesTokenAndActivates(t *testing.T) {
	f := newFixture(t)
	tenant := f.register(t, "9876543210")
	f.approve(t, tenant.ID)

	session, err := f.auth.Login(context.Background(), LoginRequest{AdminMobileNumber: "9876543210", Password: "s3cretpass"})
	require.NoError(t, err)

	claims, err := f.tokens.Parse(session.Token)
	require.NoError(t, err)
	assert.Equal(t, tenant.ID, claims.ID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, models.PermissionApproved, claims.Permissions)
	assert.Equal(t, f.now.Add(window), session.ExpiresAt)

	assert.Equal(t, models.StatusActive, session.Tenant.Status)
	require.NotNil(t, session.Tenant.SubscriptionExpiresAt)
	assert.Equal(t, f.now.Add(window), *session.Tenant.SubscriptionExpiresAt)
}

func TestLoginRenewsExpiryWhenAlreadyActive(t *testing.T) {
	f := newFixture(t)
	f.register(t, "9876543210")
	ctx := context.Background()

	_, err := f.auth.Login(ctx, LoginRequest{AdminMobileNumber: "9876543210", Password: "s3cretpass"})
	require.NoError(t, err)

	f.now = f.now.Add(24 * time.Hour)
	session, err := f.auth.Login(ctx, LoginRequest{AdminMobileNumber: "9876543210", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, session.Tenant.Status)
	assert.Equal(t, f.now.Add(window), *session.Tenant.SubscriptionExpiresAt)
}

func TestLoginAfterExpiryKeepsExpiredPermission(t *testing.T) {
	f := newFixture(t)
	tenant := f.register(t, "9876543210")
	ctx := context.Background()

	status := models.StatusInactive
	expired := models.PermissionExpired
	_, err := f.store.UpdateTenant(ctx, tenant.ID, models.TenantPatch{Status: &status, Permissions: &expired})
	require.NoError(t, err)

	session, err := f.auth.Login(ctx, LoginRequest{AdminMobileNumber: "9876543210", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, session.Tenant.Status)
	assert.Equal(t, models.PermissionExpired, session.Tenant.Permissions)
}

func TestRegisterAcceptsMultibytePassword(t *testing.T) {
	f := newFixture(t)
	req := registerRequest("9876543210")
	req.Password = "éééééééé"

	tenant, err := f.auth.Register(context.Background(), req)
	require.NoError(t, err)
	assert.NoError(t, f.hasher.Compare(tenant.Password, "éééééééé"))
}
