package authz

import (
	"errors"

	"gorm.io/gorm"
)

// ErrAccessDenied is returned when a resource exists and is known to the
// caller, but the caller's tenant fails the ownership check. Read paths that
// must not leak existence translate this to a not-found result instead.
var ErrAccessDenied = errors.New("access denied")

// Scope is the tenant visibility filter derived from a principal. It is an
// explicit two-variant value (unrestricted or scoped to one tenant) instead
// of a nullable tenant ID sentinel.
type Scope struct {
	// Unrestricted grants visibility across all tenants. Only super_admin
	// principals resolve to an unrestricted scope.
	Unrestricted bool
	TenantID     string
}

// ResolveScope derives the effective visibility filter for a principal
func ResolveScope(p Principal) Scope {
	if p.IsSuperAdmin() {
		return Scope{Unrestricted: true}
	}
	tenantID := ""
	if p.TenantID != nil {
		tenantID = *p.TenantID
	}
	return Scope{TenantID: tenantID}
}

// Apply narrows a query to the scope's tenant. Unrestricted scopes leave the
// query untouched.
func (s Scope) Apply(db *gorm.DB) *gorm.DB {
	if s.Unrestricted {
		return db
	}
	return db.Where("tenant_id = ?", s.TenantID)
}

// AuthorizeTenantMatch checks that the principal may touch a resource owned
// by resourceTenantID. super_admin always passes; everyone else must belong
// to the owning tenant.
func AuthorizeTenantMatch(p Principal, resourceTenantID string) error {
	if p.IsSuperAdmin() {
		return nil
	}
	if !p.InTenant(resourceTenantID) {
		return ErrAccessDenied
	}
	return nil
}
