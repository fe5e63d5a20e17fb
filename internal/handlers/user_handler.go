package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user profile routes.
type UserHandler struct {
	users repositories.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{users: userRepo}
}

// GetMe returns the authenticated user's profile.
func (h *UserHandler) GetMe(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		return httpError(err, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// GetUser returns a user's public profile by ID.
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetUserByID(userID)
	if err != nil {
		return httpError(err, "Failed to fetch user")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// UpdateMe updates the authenticated user's profile.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.GetUserByID(userID)
	if err != nil {
		return httpError(err, "Failed to fetch user")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.AvatarURL != "" {
		user.AvatarURL = req.AvatarURL
	}
	if req.Program != "" {
		user.Program = req.Program
	}
	if req.Level != "" {
		user.Level = req.Level
	}

	if err := h.users.UpdateUser(user); err != nil {
		return httpError(err, "Failed to update user")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// DeleteMe deletes the authenticated user's account.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(userID); err != nil {
		return httpError(err, "Failed to delete user")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

// SearchUsers searches users by name or email fragment.
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}
	_, limit := parsePagination(c, 20, 50)

	users, err := h.users.SearchUsers(query, limit)
	if err != nil {
		return httpError(err, "Failed to search users")
	}

	results := make([]models.UserCompact, 0, len(users))
	for i := range users {
		results = append(results, users[i].ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": results})
}

// RegisterUserRoutes registers user routes.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/me", h.GetMe)
	g.PUT("/users/me", h.UpdateMe)
	g.DELETE("/users/me", h.DeleteMe)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/:id", h.GetUser)
}
