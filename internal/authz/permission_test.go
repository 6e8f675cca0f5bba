package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"workspace-service/internal/authz"
)

func TestCan_Matrix(t *testing.T) {
	tenantID := "tenant-1"
	super := authz.Principal{UserID: "root", Role: authz.RoleSuperAdmin}
	admin := authz.Principal{UserID: "admin-1", TenantID: &tenantID, Role: authz.RoleTenantAdmin}
	member := authz.Principal{UserID: "user-1", TenantID: &tenantID, Role: authz.RoleUser}

	tests := []struct {
		name      string
		principal authz.Principal
		action    authz.Action
		resource  authz.Resource
		owner     string
		allowed   bool
	}{
		{"super admin does anything", super, authz.ActionDelete, authz.ResourceTenant, "", true},

		{"admin manages projects", admin, authz.ActionDelete, authz.ResourceProject, "someone-else", true},
		{"member creates projects", member, authz.ActionCreate, authz.ResourceProject, "", true},
		{"member reads projects", member, authz.ActionRead, authz.ResourceProject, "", true},
		{"member updates own project", member, authz.ActionUpdate, authz.ResourceProject, "user-1", true},
		{"member cannot update foreign project", member, authz.ActionUpdate, authz.ResourceProject, "user-2", false},
		{"member cannot delete foreign project", member, authz.ActionDelete, authz.ResourceProject, "user-2", false},

		{"member works with tasks", member, authz.ActionUpdate, authz.ResourceTask, "", true},
		{"member deletes tasks", member, authz.ActionDelete, authz.ResourceTask, "", true},
		{"admin works with tasks", admin, authz.ActionCreate, authz.ResourceTask, "", true},

		{"admin manages users", admin, authz.ActionCreate, authz.ResourceUser, "", true},
		{"member reads own account", member, authz.ActionRead, authz.ResourceUser, "user-1", true},
		{"member updates own account", member, authz.ActionUpdate, authz.ResourceUser, "user-1", true},
		{"member cannot read peers", member, authz.ActionRead, authz.ResourceUser, "user-2", false},
		{"member cannot create users", member, authz.ActionCreate, authz.ResourceUser, "", false},
		{"member cannot delete users", member, authz.ActionDelete, authz.ResourceUser, "user-1", false},
		{"member cannot list users", member, authz.ActionList, authz.ResourceUser, "", false},

		{"admin reads its tenant", admin, authz.ActionRead, authz.ResourceTenant, "", true},
		{"admin updates its tenant", admin, authz.ActionUpdate, authz.ResourceTenant, "", true},
		{"admin cannot list tenants", admin, authz.ActionList, authz.ResourceTenant, "", false},
		{"admin cannot delete tenants", admin, authz.ActionDelete, authz.ResourceTenant, "", false},
		{"member touches no tenant", member, authz.ActionRead, authz.ResourceTenant, "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := authz.Can(tc.principal, tc.action, tc.resource, tc.owner)
			if tc.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, authz.ErrForbidden)
			}
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, authz.ValidRole("super_admin"))
	assert.True(t, authz.ValidRole("tenant_admin"))
	assert.True(t, authz.ValidRole("user"))
	assert.False(t, authz.ValidRole("admin"))
	assert.False(t, authz.ValidRole(""))
}
