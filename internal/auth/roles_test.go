package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/models"
)

func TestRequireRoleIsExactMatch(t *testing.T) {
	roles := []models.Role{models.RoleUser, models.RoleSuperAdmin, models.Role(""), models.Role("Admin")}
	for _, role := range roles {
		err := RequireRole(&models.Claims{ID: "t-1", Role: role}, models.RoleAdmin)
		assert.ErrorIs(t, err, apperror.ErrForbidden, "role %q", role)
	}

	assert.NoError(t, RequireRole(&models.Claims{ID: "t-1", Role: models.RoleAdmin}, models.RoleAdmin))
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	assert.ErrorIs(t, RequireRole(nil, models.RoleUser), apperror.ErrUnauthenticated)
}
