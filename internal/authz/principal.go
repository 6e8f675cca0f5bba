package authz

// Role is the three-tier role hierarchy. super_admin operates across all
// tenants, tenant_admin administers a single tenant, user is a plain member.
type Role string

const (
	RoleSuperAdmin  Role = "super_admin"
	RoleTenantAdmin Role = "tenant_admin"
	RoleUser        Role = "user"
)

// ValidRole reports whether r names a known role
func ValidRole(r string) bool {
	switch Role(r) {
	case RoleSuperAdmin, RoleTenantAdmin, RoleUser:
		return true
	}
	return false
}

// Principal is the authenticated actor behind a request, supplied by the
// auth middleware from validated token claims. TenantID is nil exclusively
// for super_admin.
type Principal struct {
	UserID   string
	TenantID *string
	Email    string
	Role     Role
}

// InTenant reports whether the principal belongs to the given tenant
func (p Principal) InTenant(tenantID string) bool {
	return p.TenantID != nil && *p.TenantID == tenantID
}

// IsSuperAdmin reports whether the principal bypasses tenant scoping
func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}
