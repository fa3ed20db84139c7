package domain

import "time"

type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Address   *string
	CreatedAt time.Time
}

// VIPThreshold is the completed-order count a customer must exceed to be
// shown as VIP. Display only, never pricing or access control.
const VIPThreshold = 5

type AdminRole string

const (
	RoleStaff      AdminRole = "staff"
	RoleManager    AdminRole = "manager"
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "super_admin"
)

func (r AdminRole) Valid() bool {
	switch r {
	case RoleStaff, RoleManager, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// AdminUser lives in a separate identity space from Customer.
type AdminUser struct {
	ID          string
	Email       string
	FullName    string
	Role        AdminRole
	Active      bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
}
