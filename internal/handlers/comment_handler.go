package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles comment routes.
type CommentHandler struct {
	engagement *services.EngagementService
	comments   repositories.CommentRepository
	users      repositories.UserRepository
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(engagement *services.EngagementService, commentRepo repositories.CommentRepository, userRepo repositories.UserRepository) *CommentHandler {
	return &CommentHandler{engagement: engagement, comments: commentRepo, users: userRepo}
}

// commentView is a comment with its author summary.
type commentView struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// CreateComment adds a comment to a post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	comment, err := h.engagement.Comment(c.Request().Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		return httpError(err, "Failed to create comment")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": comment})
}

// GetComments lists a post's comments, newest first.
func (h *CommentHandler) GetComments(c echo.Context) error {
	page, limit := parsePagination(c, 20, 100)

	comments, total, err := h.comments.GetCommentsByPostID(c.Param("id"), page, limit)
	if err != nil {
		return httpError(err, "Failed to fetch comments")
	}

	authors := make(map[uint]models.UserCompact)
	views := make([]commentView, 0, len(comments))
	for i := range comments {
		author, ok := authors[comments[i].UserID]
		if !ok {
			u, err := h.users.GetUserByID(comments[i].UserID)
			if err != nil {
				author = models.UserCompact{ID: comments[i].UserID, Name: "Unknown"}
			} else {
				author = u.ToCompact()
			}
			authors[comments[i].UserID] = author
		}
		views = append(views, commentView{Comment: comments[i], Author: author})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"meta":    paginationMeta(page, limit, total),
	})
}

// DeleteComment removes a comment. Only its author or an admin may delete it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	claims, err := getUserClaims(c)
	if err != nil {
		return err
	}
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		return err
	}

	comment, err := h.comments.GetCommentByID(commentID)
	if err != nil {
		return httpError(err, "Failed to fetch comment")
	}
	if comment.UserID != claims.UserID && claims.Role != models.RoleAdmin {
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to delete this comment")
	}

	if err := h.engagement.DeleteComment(c.Request().Context(), comment); err != nil {
		return httpError(err, "Failed to delete comment")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

// RegisterCommentRoutes registers comment routes.
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetComments)
	g.DELETE("/comments/:commentId", h.DeleteComment)
}
