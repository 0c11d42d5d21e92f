package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tajious/shagun/internal/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	codec := NewTokenCodec("test-secret", 72*time.Hour).WithClock(fixedClock(now))

	tenant := &models.Tenant{ID: "t-1", Role: models.RoleAdmin, Permissions: models.PermissionApproved}
	token, expiresAt, err := codec.Issue(tenant)
	require.NoError(t, err)
	assert.Equal(t, now.Add(72*time.Hour), expiresAt)

	claims, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "t-1", claims.ID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, models.PermissionApproved, claims.Permissions)
	assert.Equal(t, now.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenRejectsExpired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	current := issued
	codec := NewTokenCodec("test-secret", time.Hour).WithClock(func() time.Time { return current })

	token, _, err := codec.Issue(&models.Tenant{ID: "t-1", Role: models.RoleUser})
	require.NoError(t, err)

	current = issued.Add(2 * time.Hour)
	_, err = codec.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenCodec("secret-a", time.Hour).Issue(&models.Tenant{ID: "t-1"})
	require.NoError(t, err)

	_, err = NewTokenCodec("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsTamperedAndNoneAlg(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	_, err := codec.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, models.Claims{
		ID:   "t-1",
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
