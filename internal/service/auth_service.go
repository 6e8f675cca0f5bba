package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"workspace-service/internal/audit"
	"workspace-service/internal/authz"
	"workspace-service/internal/model"
	"workspace-service/pkg/jwtutil"
	"workspace-service/prometheus"
)

// ErrInvalidCredentials is returned for any login failure that must not
// reveal whether the email, the password or the subdomain was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]{0,61}[a-z0-9])?$`)

// AuthService handles tenant registration and credential verification
type AuthService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	jwt      *jwtutil.JWTUtil
}

// NewAuthService creates an auth service on the given database handle
func NewAuthService(db *gorm.DB, recorder *audit.Recorder, jwt *jwtutil.JWTUtil) *AuthService {
	return &AuthService{db: db, recorder: recorder, jwt: jwt}
}

// RegisterTenantInput carries the tenant registration payload
type RegisterTenantInput struct {
	TenantName       string
	Subdomain        string
	Email            string
	Password         string
	FullName         string
	SubscriptionPlan string
}

// LoginInput carries a login attempt. Subdomain disambiguates the tenant;
// super_admin accounts log in without one.
type LoginInput struct {
	Subdomain string
	Email     string
	Password  string
}

// LoginResult is a successful authentication
type LoginResult struct {
	Token  string        `json:"token"`
	User   *model.User   `json:"user"`
	Tenant *model.Tenant `json:"tenant,omitempty"`
}

// RegisterTenant bootstraps a new organization: the tenant row and its first
// tenant_admin are created in one transaction, so a failure on either side
// leaves nothing behind. A taken subdomain surfaces as a conflict.
func (s *AuthService) RegisterTenant(ctx context.Context, in RegisterTenantInput, origin string) (*model.Tenant, *model.User, error) {
	if in.TenantName == "" || in.Subdomain == "" || in.Email == "" || in.Password == "" {
		return nil, nil, validationf("tenant name, subdomain, email and password are required")
	}
	subdomain := strings.ToLower(in.Subdomain)
	if !subdomainPattern.MatchString(subdomain) {
		return nil, nil, validationf("invalid subdomain %q", in.Subdomain)
	}
	plan := in.SubscriptionPlan
	if plan == "" {
		plan = model.PlanFree
	}
	if !model.ValidPlan(plan) {
		return nil, nil, validationf("invalid subscription plan %q", plan)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, translate(err)
	}

	maxUsers, maxProjects := model.PlanLimits(plan)
	tenant := model.Tenant{
		Name:             in.TenantName,
		Subdomain:        subdomain,
		Status:           model.TenantStatusActive,
		SubscriptionPlan: plan,
		MaxUsers:         maxUsers,
		MaxProjects:      maxProjects,
	}
	admin := model.User{
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         string(authz.RoleTenantAdmin),
		IsActive:     true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		admin.TenantID = &tenant.ID
		return tx.Create(&admin).Error
	})
	if err != nil {
		return nil, nil, translate(err)
	}

	s.recorder.Record(ctx, &tenant.ID, admin.ID, audit.ActionRegisterTenant, "tenant", tenant.ID, origin)
	return &tenant, &admin, nil
}

// Login verifies credentials and issues a signed token. Every failure mode
// collapses into ErrInvalidCredentials except a disabled account or a
// suspended tenant, which are told apart deliberately: those callers did
// authenticate.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, validationf("email and password are required")
	}
	email := strings.ToLower(in.Email)

	var user model.User
	var tenant *model.Tenant
	if in.Subdomain != "" {
		var t model.Tenant
		if err := s.db.WithContext(ctx).First(&t, "subdomain = ?", strings.ToLower(in.Subdomain)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, translate(err)
		}
		tenant = &t
		if err := s.db.WithContext(ctx).First(&user, "tenant_id = ? AND email = ?", t.ID, email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, translate(err)
		}
	} else {
		// No subdomain: only super_admin accounts live outside a tenant.
		if err := s.db.WithContext(ctx).First(&user, "tenant_id IS NULL AND email = ?", email).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, translate(err)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, authz.ErrForbidden
	}
	if tenant != nil && tenant.Status == model.TenantStatusSuspended {
		return nil, authz.ErrForbidden
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Email, user.TenantID, user.Role)
	if err != nil {
		return nil, translate(err)
	}

	return &LoginResult{Token: token, User: &user, Tenant: tenant}, nil
}

// Me returns the principal's own user row
func (s *AuthService) Me(ctx context.Context, p authz.Principal) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", p.UserID).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
