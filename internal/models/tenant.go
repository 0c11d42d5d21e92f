package models

import (
	"time"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Permission is the approval workflow state of a tenant.
type Permission string

const (
	PermissionPending  Permission = "pending"
	PermissionApproved Permission = "approved"
	PermissionRejected Permission = "rejected"
	PermissionExpired  Permission = "expired"
)

func (p Permission) Valid() bool {
	switch p {
	case PermissionPending, PermissionApproved, PermissionRejected, PermissionExpired:
		return true
	}
	return false
}

// Status is the subscription gate, independent from Permission.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Tenant is a registered marriage event.
type Tenant struct {
	ID                    string     `json:"_id" gorm:"primaryKey"`
	MarriageName          string     `json:"marriageName" gorm:"not null"`
	MarriageDate          string     `json:"marriageDate" gorm:"not null"`
	Location              string     `json:"location" gorm:"not null"`
	AdminMobileNumber     string     `json:"adminMobileNumber" gorm:"not null;uniqueIndex"`
	Password              string     `json:"-" gorm:"not null"` // Hashed password
	UpiID                 string     `json:"upiId" gorm:"not null"`
	UpiPayeeName          string     `json:"upiPayeeName" gorm:"not null"`
	Role                  Role       `json:"role" gorm:"not null;default:user"`
	Permissions           Permission `json:"permissions" gorm:"not null;default:pending"`
	Status                Status     `json:"status" gorm:"not null;default:inactive;index"`
	SubscriptionExpiresAt *time.Time `json:"subscriptionExpiresAt"`
	CreatedAt             time.Time  `json:"createdAt" gorm:"index"`
	UpdatedAt             time.Time  `json:"updatedAt"`
}

// TenantPatch lists the columns a single update may change. Nil fields are
// left untouched.
type TenantPatch struct {
	MarriageName          *string
	MarriageDate          *string
	Location              *string
	AdminMobileNumber     *string
	Password              *string
	UpiID                 *string
	UpiPayeeName          *string
	Role                  *Role
	Permissions           *Permission
	Status                *Status
	SubscriptionExpiresAt *time.Time
}

func (p TenantPatch) Empty() bool {
	return p == TenantPatch{}
}

// Apply copies the set fields onto t.
func (p TenantPatch) Apply(t *Tenant) {
	if p.MarriageName != nil {
		t.MarriageName = *p.MarriageName
	}
	if p.MarriageDate != nil {
		t.MarriageDate = *p.MarriageDate
	}
	if p.Location != nil {
		t.Location = *p.Location
	}
	if p.AdminMobileNumber != nil {
		t.AdminMobileNumber = *p.AdminMobileNumber
	}
	if p.Password != nil {
		t.Password = *p.Password
	}
	if p.UpiID != nil {
		t.UpiID = *p.UpiID
	}
	if p.UpiPayeeName != nil {
		t.UpiPayeeName = *p.UpiPayeeName
	}
	if p.Role != nil {
		t.Role = *p.Role
	}
	if p.Permissions != nil {
		t.Permissions = *p.Permissions
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.SubscriptionExpiresAt != nil {
		expires := *p.SubscriptionExpiresAt
		t.SubscriptionExpiresAt = &expires
	}
}

// Columns returns the patch as a gorm column map.
func (p TenantPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.MarriageName != nil {
		cols["marriage_name"] = *p.MarriageName
	}
	if p.MarriageDate != nil {
		cols["marriage_date"] = *p.MarriageDate
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.AdminMobileNumber != nil {
		cols["admin_mobile_number"] = *p.AdminMobileNumber
	}
	if p.Password != nil {
		cols["password"] = *p.Password
	}
	if p.UpiID != nil {
		cols["upi_id"] = *p.UpiID
	}
	if p.UpiPayeeName != nil {
		cols["upi_payee_name"] = *p.UpiPayeeName
	}
	if p.Role != nil {
		cols["role"] = *p.Role
	}
	if p.Permissions != nil {
		cols["permissions"] = *p.Permissions
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.SubscriptionExpiresAt != nil {
		cols["subscription_expires_at"] = *p.SubscriptionExpiresAt
	}
	return cols
}
