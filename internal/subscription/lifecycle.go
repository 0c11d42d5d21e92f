// Package subscription holds the subscription state machine. Every function
// here is pure: callers load the tenant, apply a transition and persist the
// resulting patch.
package subscription

import (
	"time"

	"github.com/tajious/shagun/internal/models"
)

// State is the part of a tenant the lifecycle cares about.
type State struct {
	Status      models.Status
	Permissions models.Permission
	ExpiresAt   *time.Time
}

func StateOf(t *models.Tenant) State {
	return State{
		Status:      t.Status,
		Permissions: t.Permissions,
		ExpiresAt:   t.SubscriptionExpiresAt,
	}
}

type Verdict int

const (
	// Allow lets the request through unchanged.
	Allow Verdict = iota
	// RejectInactive rejects without writing anything.
	RejectInactive
	// Expire requires the Expire transition to be persisted before rejecting.
	Expire
)

func (v Verdict) String() string {
	switch v {
	case Allow:
		return "allow"
	case RejectInactive:
		return "inactive"
	case Expire:
		return "expired"
	}
	return "unknown"
}

// Evaluate decides what a protected request observing s at now must do.
// Status is checked before expiry, so an already inactive tenant is never
// written again.
func Evaluate(s State, now time.Time) Verdict {
	if s.Status != models.StatusActive {
		return RejectInactive
	}
	if s.ExpiresAt != nil && now.After(*s.ExpiresAt) {
		return Expire
	}
	return Allow
}

// ExpireTransition is the system-driven active -> inactive move. It is the
// only transition allowed to write permissions without an admin.
func ExpireTransition() models.TenantPatch {
	status := models.StatusInactive
	permissions := models.PermissionExpired
	return models.TenantPatch{
		Status:      &status,
		Permissions: &permissions,
	}
}

// ActivateOnLogin renews the subscription clock. An inactive tenant becomes
// active; the expiry is always reset to now+window. Permissions are untouched.
func ActivateOnLogin(s State, now time.Time, window time.Duration) models.TenantPatch {
	expires := now.Add(window)
	patch := models.TenantPatch{SubscriptionExpiresAt: &expires}
	if s.Status != models.StatusActive {
		status := models.StatusActive
		patch.Status = &status
	}
	return patch
}

// AccessChange is what an admin asked to change on a tenant.
type AccessChange struct {
	Permissions           *models.Permission
	PasswordHash          *string
	Status                *models.Status
	SubscriptionExpiresAt *time.Time
}

func (c AccessChange) Empty() bool {
	return c.Permissions == nil && c.PasswordHash == nil && c.Status == nil && c.SubscriptionExpiresAt == nil
}

// ReactivateOnAdminEdit turns an admin access change into the patch to
// persist. A missing expiry defaults to now+window, and an inactive tenant
// is reactivated unless the admin set a status explicitly.
func ReactivateOnAdminEdit(s State, change AccessChange, now time.Time, window time.Duration) models.TenantPatch {
	patch := models.TenantPatch{
		Permissions: change.Permissions,
		Password:    change.PasswordHash,
		Status:      change.Status,
	}

	if change.SubscriptionExpiresAt != nil {
		expires := *change.SubscriptionExpiresAt
		patch.SubscriptionExpiresAt = &expires
	} else {
		expires := now.Add(window)
		patch.SubscriptionExpiresAt = &expires
	}

	if change.Status == nil && s.Status == models.StatusInactive {
		status := models.StatusActive
		patch.Status = &status
	}
	return patch
}
