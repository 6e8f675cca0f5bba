package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
	"workspace-service/internal/service"
)

func TestTenantList_SuperAdminOnly(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewTenantService(db, newTestRecorder(db))

	tenantA := seedTenant(t, db, "Acme", "acme", 5, 3)
	seedTenant(t, db, "Bravo", "bravo", 5, 3)
	admin := seedUser(t, db, &tenantA.ID, "admin@acme.test", "tenant_admin")
	member := seedUser(t, db, &tenantA.ID, "member@acme.test", "user")

	ctx := context.Background()

	_, _, err := svc.List(ctx, principalFor(admin), service.ListTenantsFilter{})
	require.ErrorIs(t, err, authz.ErrForbidden)
	_, _, err = svc.List(ctx, principalFor(member), service.ListTenantsFilter{})
	require.ErrorIs(t, err, authz.ErrForbidden)

	tenants, pagination, err := svc.List(ctx, superPrincipal(), service.ListTenantsFilter{})
	require.NoError(t, err)
	assert.Len(t, tenants, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)

	byStatus, _, err := svc.List(ctx, superPrincipal(), service.ListTenantsFilter{Status: "suspended"})
	require.NoError(t, err)
	assert.Empty(t, byStatus)

	bySearch, _, err := svc.List(ctx, superPrincipal(), service.ListTenantsFilter{Search: "brav"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "bravo", bySearch[0].Subdomain)
}

func TestTenantGet(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewTenantService(db, newTestRecorder(db))

	tenantA := seedTenant(t, db, "Acme", "acme", 5, 3)
	tenantB := seedTenant(t, db, "Bravo", "bravo", 5, 3)
	admin := seedUser(t, db, &tenantA.ID, "admin@acme.test", "tenant_admin")
	member := seedUser(t, db, &tenantA.ID, "member@acme.test", "user")

	ctx := context.Background()

	got, err := svc.Get(ctx, principalFor(admin), tenantA.ID)
	require.NoError(t, err)
	assert.Equal(t, tenantA.ID, got.ID)

	// Another tenant reads as not found for a tenant_admin.
	_, err = svc.Get(ctx, principalFor(admin), tenantB.ID)
	require.ErrorIs(t, err, service.ErrNotFound)

	// Plain users have no tenant read permission at all.
	_, err = svc.Get(ctx, principalFor(member), tenantA.ID)
	require.ErrorIs(t, err, authz.ErrForbidden)

	_, err = svc.Get(ctx, superPrincipal(), tenantB.ID)
	require.NoError(t, err)
}

func TestTenantUpdate_AdminRenamesOnly(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewTenantService(db, newTestRecorder(db))

	tenant := seedTenant(t, db, "Acme", "acme", 5, 3)
	admin := seedUser(t, db, &tenant.ID, "admin@acme.test", "tenant_admin")

	ctx := context.Background()

	name := "Acme Worldwide"
	got, err := svc.Update(ctx, principalFor(admin), tenant.ID, service.UpdateTenantInput{Name: &name}, "")
	require.NoError(t, err)
	assert.Equal(t, "Acme Worldwide", got.Name)
	assert.Equal(t, int64(1), countAuditEntries(t, db, audit.ActionUpdateTenant))

	// Plan, status and limit changes are super_admin territory.
	plan := model.PlanEnterprise
	_, err = svc.Update(ctx, principalFor(admin), tenant.ID, service.UpdateTenantInput{SubscriptionPlan: &plan}, "")
	require.ErrorIs(t, err, authz.ErrForbidden)

	maxUsers := 50
	_, err = svc.Update(ctx, principalFor(admin), tenant.ID, service.UpdateTenantInput{MaxUsers: &maxUsers}, "")
	require.ErrorIs(t, err, authz.ErrForbidden)
}

func TestTenantUpdate_SuperAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := service.NewTenantService(db, newTestRecorder(db))

	tenant := seedTenant(t, db, "Acme", "acme", 5, 3)

	ctx := context.Background()
	plan := model.PlanPro
	status := model.TenantStatusSuspended
	maxUsers := 25
	got, err := svc.Update(ctx, superPrincipal(), tenant.ID, service.UpdateTenantInput{
		SubscriptionPlan: &plan,
		Status:           &status,
		MaxUsers:         &maxUsers,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, model.PlanPro, got.SubscriptionPlan)
	assert.Equal(t, model.TenantStatusSuspended, got.Status)
	assert.Equal(t, 25, got.MaxUsers)
	assert.Equal(t, "acme", got.Subdomain, "subdomain is immutable")

	bad := 0
	_, err = svc.Update(ctx, superPrincipal(), tenant.ID, service.UpdateTenantInput{MaxProjects: &bad}, "")
	var ve *service.ValidationError
	require.ErrorAs(t, err, &ve)
}
