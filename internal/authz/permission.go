package authz

import "errors"

// ErrForbidden is returned when a role is categorically disallowed from an
// action, regardless of tenant.
var ErrForbidden = errors.New("insufficient permissions")

// Action is a verb a principal can perform on a resource kind
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// Resource is a kind of record subject to permission checks
type Resource string

const (
	ResourceTenant  Resource = "tenant"
	ResourceUser    Resource = "user"
	ResourceProject Resource = "project"
	ResourceTask    Resource = "task"
)

// Can evaluates the fixed role/action/resource matrix. ownerUserID is the
// resource's owning user where ownership matters (a project's creator, a user
// record's own ID); pass "" when there is no owner to consider.
//
// The matrix is an allow-list: any pair not explicitly granted is denied.
// Tenant ownership is not evaluated here; callers pair Can with
// AuthorizeTenantMatch so that role policy and tenant isolation stay
// independent checks.
func Can(p Principal, action Action, resource Resource, ownerUserID string) error {
	if p.IsSuperAdmin() {
		return nil
	}

	switch resource {
	case ResourceProject:
		switch p.Role {
		case RoleTenantAdmin:
			return nil
		case RoleUser:
			switch action {
			case ActionCreate, ActionRead, ActionList:
				return nil
			case ActionUpdate, ActionDelete:
				// Creator-or-admin rule
				if ownerUserID != "" && ownerUserID == p.UserID {
					return nil
				}
			}
		}

	case ResourceTask:
		// Any tenant member may work with tasks; isolation comes from the
		// tenant match performed alongside this check.
		switch p.Role {
		case RoleTenantAdmin, RoleUser:
			return nil
		}

	case ResourceUser:
		switch p.Role {
		case RoleTenantAdmin:
			return nil
		case RoleUser:
			// Plain users may read and edit their own account, nothing else.
			if (action == ActionRead || action == ActionUpdate) && ownerUserID == p.UserID {
				return nil
			}
		}

	case ResourceTenant:
		if p.Role == RoleTenantAdmin && (action == ActionRead || action == ActionUpdate) {
			return nil
		}
	}

	return ErrForbidden
}
