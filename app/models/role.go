package models

import "strings"

// Role is the closed set of user roles carried in access tokens.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleOwner      Role = "owner"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"
)

// Permission names an action guarded at the HTTP boundary.
type Permission int

const (
	PermViewTenant Permission = iota
	PermViewBilling
	PermManageBilling
	PermManageTenant
	PermAdminister
)

func (p Permission) String() string {
	switch p {
	case PermViewTenant:
		return "view_tenant"
	case PermViewBilling:
		return "view_billing"
	case PermManageBilling:
		return "manage_billing"
	case PermManageTenant:
		return "manage_tenant"
	case PermAdminister:
		return "administer"
	default:
		return "unknown"
	}
}

// ParseRole maps a raw claim value onto a known role.
func ParseRole(raw string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(raw))); r {
	case RoleSuperAdmin, RoleOwner, RoleManager, RoleCashier:
		return r, true
	default:
		return "", false
	}
}

// Can reports whether the role grants p. Unknown roles get nothing.
func (r Role) Can(p Permission) bool {
	switch r {
	case RoleSuperAdmin:
		return p == PermAdminister
	case RoleOwner:
		switch p {
		case PermViewTenant, PermViewBilling, PermManageBilling, PermManageTenant:
			return true
		}
		return false
	case RoleManager:
		switch p {
		case PermViewTenant, PermViewBilling, PermManageTenant:
			return true
		}
		return false
	case RoleCashier:
		return p == PermViewTenant
	default:
		return false
	}
}

// TenantScoped reports whether users with this role always belong to a tenant.
func (r Role) TenantScoped() bool {
	switch r {
	case RoleOwner, RoleManager, RoleCashier:
		return true
	default:
		return false
	}
}
