package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// ReportHandler handles post reports from users.
type ReportHandler struct {
	reports repositories.ReportRepository
	posts   repositories.PostRepository
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportRepo repositories.ReportRepository, postRepo repositories.PostRepository) *ReportHandler {
	return &ReportHandler{reports: reportRepo, posts: postRepo}
}

// CreateReport flags a post for moderation. A user may report a given post
// once; a second report returns 409.
func (h *ReportHandler) CreateReport(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	postID := c.Param("id")
	if _, err := h.posts.GetPostByID(c.Request().Context(), postID); err != nil {
		return httpError(err, "Failed to fetch post")
	}

	report := &models.Report{
		PostID:      postID,
		ReporterID:  userID,
		Reason:      req.Reason,
		Description: req.Description,
		Status:      models.ReportStatusPending,
	}
	created, err := h.reports.CreateReport(report)
	if err != nil {
		return httpError(err, "Failed to create report")
	}
	if !created {
		return echo.NewHTTPError(http.StatusConflict, "Post already reported")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": report})
}

// RegisterReportRoutes registers report routes.
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/posts/:id/report", h.CreateReport)
}
