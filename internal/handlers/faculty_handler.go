package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// FacultyHandler handles faculty routes.
type FacultyHandler struct {
	faculties repositories.FacultyRepository
	users     repositories.UserRepository
}

// NewFacultyHandler creates a new FacultyHandler.
func NewFacultyHandler(facultyRepo repositories.FacultyRepository, userRepo repositories.UserRepository) *FacultyHandler {
	return &FacultyHandler{faculties: facultyRepo, users: userRepo}
}

// ListFaculties lists all faculties.
func (h *FacultyHandler) ListFaculties(c echo.Context) error {
	faculties, err := h.faculties.ListFaculties()
	if err != nil {
		return httpError(err, "Failed to fetch faculties")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": faculties})
}

// ListFacultyMembers lists users belonging to a faculty, paginated.
func (h *FacultyHandler) ListFacultyMembers(c echo.Context) error {
	facultyID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 100)

	if _, err := h.faculties.GetFacultyByID(facultyID); err != nil {
		return httpError(err, "Failed to fetch faculty")
	}

	users, total, err := h.users.ListByFaculty(facultyID, page, limit)
	if err != nil {
		return httpError(err, "Failed to fetch faculty members")
	}

	results := make([]models.UserCompact, 0, len(users))
	for i := range users {
		results = append(results, users[i].ToCompact())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    results,
		"meta":    paginationMeta(page, limit, total),
	})
}

// RegisterFacultyRoutes registers faculty routes.
func (h *FacultyHandler) RegisterFacultyRoutes(g *echo.Group) {
	g.GET("/faculties", h.ListFaculties)
	g.GET("/faculties/:id/members", h.ListFacultyMembers)
}
