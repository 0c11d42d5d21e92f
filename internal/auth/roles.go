package auth

import (
	"github.com/tajious/shagun/internal/apperror"
	"github.com/tajious/shagun/internal/models"
)

// RequireRole fails unless the caller holds exactly the required role.
// Roles are flat: superadmin does not satisfy an admin check.
func RequireRole(claims *models.Claims, required models.Role) error {
	if claims == nil {
		return apperror.Unauthorized("Not authorized")
	}
	if claims.Role != required {
		return apperror.Forbidden("Access denied")
	}
	return nil
}
