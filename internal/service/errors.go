package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"workspace-service/internal/authz"
	"workspace-service/internal/quota"
)

// Terminal error classes handled at the service boundary. None of these are
// retried by this core; only ErrUnavailable marks a failure a caller may
// choose to retry.
var (
	// ErrNotFound marks a resource that is absent, or that exists outside
	// the caller's visible scope when its existence has not been established.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict marks a unique-constraint violation such as a duplicate
	// subdomain or a duplicate email within a tenant.
	ErrConflict = errors.New("resource already exists")

	// ErrUnavailable marks a transient persistence failure.
	ErrUnavailable = errors.New("service unavailable")
)

// ValidationError reports malformed or cross-tenant-referencing input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// translate maps an error leaving a service operation into the taxonomy.
// Known classes (including the authorization and quota errors raised inside
// transactions) pass through untouched; gorm's not-found and duplicate-key
// errors map to their taxonomy peers; anything else is treated as a
// transient persistence failure and surfaced as ErrUnavailable.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var ve *ValidationError
	var qe *quota.ExceededError
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, authz.ErrAccessDenied),
		errors.Is(err, authz.ErrForbidden),
		errors.As(err, &ve),
		errors.As(err, &qe):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
