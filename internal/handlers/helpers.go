package handlers

import (
	"net/http"
	"strconv"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// getUserClaims pulls the JWT claims stored by the auth middleware.
func getUserClaims(c echo.Context) (*models.JwtCustomClaims, error) {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	return claims, nil
}

// getUserIDFromContext returns the authenticated user's ID.
func getUserIDFromContext(c echo.Context) (uint, error) {
	claims, err := getUserClaims(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// parseUintParam parses a numeric path parameter.
func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	return uint(v), nil
}

// parseOptionalUintQuery parses a numeric query parameter, returning nil when
// it is absent.
func parseOptionalUintQuery(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid "+name)
	}
	id := uint(v)
	return &id, nil
}

// parsePagination reads page/limit query params with sane bounds.
func parsePagination(c echo.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

// httpError maps a service or repository error onto an echo HTTP error using
// the application error taxonomy.
func httpError(err error, fallback string) *echo.HTTPError {
	status := apperrors.HTTPStatus(err)
	msg := fallback
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	return echo.NewHTTPError(status, msg)
}

// paginationMeta is the envelope metadata returned by every list endpoint.
func paginationMeta(page, limit int, totalItems int64) echo.Map {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return echo.Map{
		"currentPage":     page,
		"totalPages":      totalPages,
		"totalItems":      totalItems,
		"itemsPerPage":    limit,
		"hasNextPage":     page < totalPages,
		"hasPreviousPage": page > 1,
	}
}
