package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"workspace-service/pkg/database"
)

// HealthCheck reports service liveness and database reachability
func HealthCheck(c echo.Context) error {
	dbStatus := "up"
	if database.DB == nil {
		dbStatus = "down"
	} else if sqlDB, err := database.DB.DB(); err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
		dbStatus = "down"
	}

	status := http.StatusOK
	healthy := "healthy"
	if dbStatus != "up" {
		status = http.StatusServiceUnavailable
		healthy = "degraded"
	}

	return c.JSON(status, echo.Map{
		"status":   healthy,
		"service":  "workspace-service",
		"database": dbStatus,
	})
}
