package handlers

import (
	"net/http"
	"strconv"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles moderation and dashboard routes. All routes require
// the admin role.
type AdminHandler struct {
	reports  repositories.ReportRepository
	posts    repositories.PostRepository
	users    repositories.UserRepository
	comments repositories.CommentRepository
	groups   repositories.GroupRepository
	events   repositories.EventRepository
	notifier *services.Notifier
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reportRepo repositories.ReportRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository, commentRepo repositories.CommentRepository, groupRepo repositories.GroupRepository, eventRepo repositories.EventRepository, notifier *services.Notifier) *AdminHandler {
	return &AdminHandler{
		reports:  reportRepo,
		posts:    postRepo,
		users:    userRepo,
		comments: commentRepo,
		groups:   groupRepo,
		events:   eventRepo,
		notifier: notifier,
	}
}

// ListReports lists reports by status, defaulting to pending.
func (h *AdminHandler) ListReports(c echo.Context) error {
	status := c.QueryParam("status")
	if status == "" {
		status = models.ReportStatusPending
	}
	page, limit := parsePagination(c, 20, 100)

	reports, total, err := h.reports.ListByStatus(status, page, limit)
	if err != nil {
		return httpError(err, "Failed to fetch reports")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    reports,
		"meta":    paginationMeta(page, limit, total),
	})
}

// ResolveReport settles a report. When the action is "removed" the reported
// post and its comments are deleted and the author is notified.
func (h *AdminHandler) ResolveReport(c echo.Context) error {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	reportID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.ResolveReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	report, err := h.reports.Resolve(reportID, req.Status, req.Action)
	if err != nil {
		return httpError(err, "Failed to resolve report")
	}

	if req.Action == models.ReportActionRemoved {
		ctx := c.Request().Context()
		post, err := h.posts.GetPostByID(ctx, report.PostID)
		if err == nil {
			if err := h.posts.DeletePost(ctx, report.PostID); err != nil {
				log.Error().Err(err).Str("post_id", report.PostID).Msg("failed to delete reported post")
			} else {
				if err := h.comments.DeleteByPostID(report.PostID); err != nil {
					log.Error().Err(err).Str("post_id", report.PostID).Msg("failed to delete reported post comments")
				}
				if err := h.users.AdjustPostsCount(post.AuthorID, -1); err != nil {
					log.Error().Err(err).Uint("user_id", post.AuthorID).Msg("failed to decrement posts count")
				}
				h.notifier.Notify(services.NotificationEvent{
					Type:        models.NotificationAdmin,
					ActorID:     adminID,
					RecipientID: post.AuthorID,
					TargetID:    report.PostID,
					TargetType:  "post",
					Message:     "Your post was removed for violating community guidelines",
				})
			}
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}

// Dashboard returns aggregate platform counts.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	userCount, err := h.users.CountUsers()
	if err != nil {
		return httpError(err, "Failed to fetch dashboard")
	}
	postCount, err := h.posts.CountPosts(ctx)
	if err != nil {
		return httpError(err, "Failed to fetch dashboard")
	}
	groupCount, err := h.groups.CountGroups()
	if err != nil {
		return httpError(err, "Failed to fetch dashboard")
	}
	eventCount, err := h.events.CountEvents()
	if err != nil {
		return httpError(err, "Failed to fetch dashboard")
	}
	pendingReports, err := h.reports.CountByStatus(models.ReportStatusPending)
	if err != nil {
		return httpError(err, "Failed to fetch dashboard")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"users":          userCount,
			"posts":          postCount,
			"groups":         groupCount,
			"events":         eventCount,
			"pendingReports": pendingReports,
		},
	})
}

// ListUsers lists all users, optionally filtered by role.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit := parsePagination(c, 20, 100)

	users, total, err := h.users.ListUsers(page, limit, c.QueryParam("role"))
	if err != nil {
		return httpError(err, "Failed to fetch users")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    users,
		"meta":    paginationMeta(page, limit, total),
	})
}

// Announce sends an announcement notification to a user.
func (h *AdminHandler) Announce(c echo.Context) error {
	adminID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req struct {
		UserID  uint   `json:"user_id" validate:"required"`
		Message string `json:"message" validate:"required,max=500"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.users.GetUserByID(req.UserID); err != nil {
		return httpError(err, "Failed to fetch user")
	}

	h.notifier.Notify(services.NotificationEvent{
		Type:        models.NotificationAnnouncement,
		ActorID:     adminID,
		RecipientID: req.UserID,
		TargetID:    strconv.FormatUint(uint64(adminID), 10),
		TargetType:  "announcement",
		Message:     req.Message,
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"sent": true}})
}

// RegisterAdminRoutes registers moderation routes on an admin-only group.
func (h *AdminHandler) RegisterAdminRoutes(g *echo.Group) {
	g.GET("/reports", h.ListReports)
	g.PUT("/reports/:id", h.ResolveReport)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/users", h.ListUsers)
	g.POST("/announce", h.Announce)
}
