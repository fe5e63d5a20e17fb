package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthCheck provides a simple health check endpoint
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"message": "server is healthy",
	})
}

// RegisterHealthRoutes registers health check routes
func RegisterHealthRoutes(e *echo.Echo) {
	e.GET("/health", HealthCheck)
}
