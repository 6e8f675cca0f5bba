package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"workspace-service/internal/authz"
	"workspace-service/internal/quota"
	"workspace-service/internal/service"
	"workspace-service/prometheus"
)

// respondData writes the success envelope with a payload
func respondData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

// respondMessage writes the success envelope with a message and optional payload
func respondMessage(c echo.Context, status int, message string, data interface{}) error {
	body := echo.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(status, body)
}

// respondList writes one page of items with its pagination block
func respondList(c echo.Context, items interface{}, pagination service.Pagination) error {
	return respondData(c, http.StatusOK, echo.Map{
		"items":      items,
		"pagination": pagination,
	})
}

// respondError maps a service-layer error onto its HTTP status and writes
// the failure envelope. Unknown errors are reported as a bare internal
// error so persistence details never leak to the caller.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	message := "internal error"

	var ve *service.ValidationError
	var qe *quota.ExceededError
	switch {
	case errors.As(err, &ve):
		status, message = http.StatusBadRequest, ve.Message
		prometheus.RecordError("validation")
	case errors.Is(err, service.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, "invalid credentials"
		prometheus.RecordError("invalid_credentials")
	case errors.As(err, &qe):
		status, message = http.StatusForbidden, qe.Error()
		prometheus.RecordError("quota_exceeded")
	case errors.Is(err, authz.ErrForbidden):
		status, message = http.StatusForbidden, "insufficient permissions"
		prometheus.RecordError("forbidden")
	case errors.Is(err, authz.ErrAccessDenied):
		status, message = http.StatusForbidden, "access denied"
		prometheus.RecordError("access_denied")
	case errors.Is(err, service.ErrNotFound):
		status, message = http.StatusNotFound, "resource not found"
		prometheus.RecordError("not_found")
	case errors.Is(err, service.ErrConflict):
		status, message = http.StatusConflict, "resource already exists"
		prometheus.RecordError("conflict")
	case errors.Is(err, service.ErrUnavailable):
		status, message = http.StatusServiceUnavailable, "service unavailable"
		prometheus.RecordError("unavailable")
	default:
		prometheus.RecordError("internal")
	}

	return c.JSON(status, echo.Map{"success": false, "message": message})
}

// unauthorized is the reply for requests missing an authenticated principal
func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "authentication required"})
}
