package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"workspace-service/internal/service"
)

// pageRequest reads ?page= and ?limit= from the query string. Missing or
// malformed values are left at zero and normalized downstream.
func pageRequest(c echo.Context) service.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return service.PageRequest{Page: page, Limit: limit}
}

// parseDate accepts a date-only value or a full RFC 3339 timestamp
func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
