package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
	"workspace-service/internal/service"
	"workspace-service/pkg/jwtutil"
)

func newAuthService(t *testing.T, db *gorm.DB) (*service.AuthService, *jwtutil.JWTUtil) {
	t.Helper()
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
	return service.NewAuthService(db, newTestRecorder(db), jwt), jwt
}

func TestRegisterTenant(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db)

	tenant, admin, err := svc.RegisterTenant(context.Background(), service.RegisterTenantInput{
		TenantName: "Acme Corp",
		Subdomain:  "Acme",
		Email:      "Founder@Acme.test",
		Password:   "secret123",
		FullName:   "Founder",
	}, "127.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "acme", tenant.Subdomain, "subdomain is lowercased")
	assert.Equal(t, model.TenantStatusActive, tenant.Status)
	assert.Equal(t, model.PlanFree, tenant.SubscriptionPlan)
	assert.Equal(t, 5, tenant.MaxUsers)
	assert.Equal(t, 3, tenant.MaxProjects)

	require.NotNil(t, admin.TenantID)
	assert.Equal(t, tenant.ID, *admin.TenantID)
	assert.Equal(t, "founder@acme.test", admin.Email)
	assert.Equal(t, "tenant_admin", admin.Role)
	assert.Equal(t, int64(1), countAuditEntries(t, db, audit.ActionRegisterTenant))
}

func TestRegisterTenant_PlanLimits(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db)

	tenant, _, err := svc.RegisterTenant(context.Background(), service.RegisterTenantInput{
		TenantName:       "Big Corp",
		Subdomain:        "big",
		Email:            "boss@big.test",
		Password:         "secret123",
		SubscriptionPlan: model.PlanPro,
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 25, tenant.MaxUsers)
	assert.Equal(t, 15, tenant.MaxProjects)
}

func TestRegisterTenant_DuplicateSubdomain(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db)

	ctx := context.Background()
	_, _, err := svc.RegisterTenant(ctx, service.RegisterTenantInput{
		TenantName: "First",
		Subdomain:  "taken",
		Email:      "a@first.test",
		Password:   "secret123",
	}, "")
	require.NoError(t, err)

	_, _, err = svc.RegisterTenant(ctx, service.RegisterTenantInput{
		TenantName: "Second",
		Subdomain:  "taken",
		Email:      "b@second.test",
		Password:   "secret123",
	}, "")
	require.ErrorIs(t, err, service.ErrConflict)

	// The failed registration must not leave a half-created admin behind.
	var users int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "b@second.test").Count(&users).Error)
	assert.Equal(t, int64(0), users)
}

func TestRegisterTenant_Validation(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db)

	var ve *service.ValidationError
	for name, in := range map[string]service.RegisterTenantInput{
		"missing fields": {TenantName: "X"},
		"bad subdomain":  {TenantName: "X", Subdomain: "has space", Email: "a@x.test", Password: "p"},
		"bad plan":       {TenantName: "X", Subdomain: "x", Email: "a@x.test", Password: "p", SubscriptionPlan: "platinum"},
	} {
		_, _, err := svc.RegisterTenant(context.Background(), in, "")
		require.ErrorAs(t, err, &ve, name)
	}
}

func TestLogin(t *testing.T) {
	db := newTestDB(t)
	svc, jwt := newAuthService(t, db)

	ctx := context.Background()
	tenant, admin, err := svc.RegisterTenant(ctx, service.RegisterTenantInput{
		TenantName: "Acme",
		Subdomain:  "acme",
		Email:      "founder@acme.test",
		Password:   "secret123",
	}, "")
	require.NoError(t, err)

	result, err := svc.Login(ctx, service.LoginInput{
		Subdomain: "ACME",
		Email:     "Founder@acme.test",
		Password:  "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, result.User.ID)
	require.NotNil(t, result.Tenant)
	assert.Equal(t, tenant.ID, result.Tenant.ID)

	claims, err := jwt.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, claims.UserID)
	assert.Equal(t, "tenant_admin", claims.Role)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, tenant.ID, *claims.TenantID)
}

func TestLogin_FailureModesAreUniform(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db)

	ctx := context.Background()
	_, _, err := svc.RegisterTenant(ctx, service.RegisterTenantInput{
		TenantName: "Acme",
		Subdomain:  "acme",
		Email:      "founder@acme.test",
		Password:   "secret123",
	}, "")
	require.NoError(t, err)

	// Wrong password, unknown email, unknown subdomain and a tenant user
	// trying the tenantless path all collapse into the same error.
	for name, in := range map[string]service.LoginInput{
		"wrong password":    {Subdomain: "acme", Email: "founder@acme.test", Password: "nope"},
		"unknown email":     {Subdomain: "acme", Email: "ghost@acme.test", Password: "secret123"},
		"unknown subdomain": {Subdomain: "nowhere", Email: "founder@acme.test", Password: "secret123"},
		"missing subdomain": {Email: "founder@acme.test", Password: "secret123"},
	} {
		_, err := svc.Login(ctx, in)
		require.ErrorIs(t, err, service.ErrInvalidCredentials, name)
	}
}

func TestLogin_DisabledAccountAndSuspendedTenant(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db)

	ctx := context.Background()
	tenant, admin, err := svc.RegisterTenant(ctx, service.RegisterTenantInput{
		TenantName: "Acme",
		Subdomain:  "acme",
		Email:      "founder@acme.test",
		Password:   "secret123",
	}, "")
	require.NoError(t, err)

	admin.IsActive = false
	require.NoError(t, db.Save(admin).Error)
	_, err = svc.Login(ctx, service.LoginInput{Subdomain: "acme", Email: "founder@acme.test", Password: "secret123"})
	require.ErrorIs(t, err, authz.ErrForbidden)

	admin.IsActive = true
	require.NoError(t, db.Save(admin).Error)
	tenant.Status = model.TenantStatusSuspended
	require.NoError(t, db.Save(tenant).Error)
	_, err = svc.Login(ctx, service.LoginInput{Subdomain: "acme", Email: "founder@acme.test", Password: "secret123"})
	require.ErrorIs(t, err, authz.ErrForbidden)
}

func TestLogin_SuperAdminWithoutSubdomain(t *testing.T) {
	db := newTestDB(t)
	svc, jwt := newAuthService(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("rootsecret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	root := &model.User{
		Email:        "root@platform.test",
		PasswordHash: string(hash),
		Role:         "super_admin",
		IsActive:     true,
	}
	require.NoError(t, db.Create(root).Error)

	result, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "root@platform.test",
		Password: "rootsecret",
	})
	require.NoError(t, err)
	assert.Nil(t, result.Tenant)

	claims, err := jwt.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Nil(t, claims.TenantID)
	assert.Equal(t, "super_admin", claims.Role)
}

func TestMe(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newAuthService(t, db)

	tenant := seedTenant(t, db, "Acme", "acme", 5, 3)
	member := seedUser(t, db, &tenant.ID, "member@acme.test", "user")

	got, err := svc.Me(context.Background(), principalFor(member))
	require.NoError(t, err)
	assert.Equal(t, member.ID, got.ID)
	assert.Equal(t, member.Email, got.Email)
}
