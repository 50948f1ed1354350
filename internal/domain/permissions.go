package domain

// PermissionAll grants every permission and every module
const PermissionAll = "all"

// Modules gated by CanAccessModule
const (
	ModuleClient   = "client"
	ModuleSupplier = "fournisseur"
	ModuleAdmin    = "admin"
)

// DefaultPermissions returns the permission set a new account of role receives
func DefaultPermissions(role Role) []string {
	switch role {
	case RoleAdmin:
		return []string{PermissionAll}
	case RoleClient:
		return []string{"catalog:read", "orders:create", "orders:read", "invoices:read", "deliveries:read"}
	case RoleSupplier:
		return []string{"stocks:read", "stocks:write", "orders:read", "returns:read", "analytics:read"}
	default:
		return []string{}
	}
}

// HasPermission reports whether user holds permission
func HasPermission(user *User, permission string) bool {
	if user == nil {
		return false
	}
	for _, p := range user.Permissions {
		if p == PermissionAll || p == permission {
			return true
		}
	}
	return false
}

// CanAccessModule reports whether user may open module
func CanAccessModule(user *User, module string) bool {
	if user == nil {
		return false
	}
	if HasPermission(user, PermissionAll) {
		return true
	}

	switch module {
	case ModuleClient:
		return user.Role == RoleClient || user.Role == RoleAdmin
	case ModuleSupplier:
		return user.Role == RoleSupplier || user.Role == RoleAdmin
	case ModuleAdmin:
		return user.Role == RoleAdmin
	default:
		return false
	}
}

// HasRole reports whether user has one of roles
func HasRole(user *User, roles ...Role) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}
