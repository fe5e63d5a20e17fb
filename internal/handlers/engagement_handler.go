package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// EngagementHandler handles like and save toggles on posts.
type EngagementHandler struct {
	engagement *services.EngagementService
	marks      repositories.MarkRepository
	posts      repositories.PostRepository
	enrich     *PostHandler
}

// NewEngagementHandler creates a new EngagementHandler.
func NewEngagementHandler(engagement *services.EngagementService, markRepo repositories.MarkRepository, postRepo repositories.PostRepository, postHandler *PostHandler) *EngagementHandler {
	return &EngagementHandler{engagement: engagement, marks: markRepo, posts: postRepo, enrich: postHandler}
}

// ToggleLike flips the authenticated user's like on a post.
func (h *EngagementHandler) ToggleLike(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	liked, err := h.engagement.ToggleLike(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return httpError(err, "Failed to toggle like")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"liked": liked},
	})
}

// GetLikeStatus reports whether the authenticated user has liked the post,
// with the post's current like count.
func (h *EngagementHandler) GetLikeStatus(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")

	post, err := h.posts.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		return httpError(err, "Failed to fetch post")
	}
	liked, err := h.marks.HasMark(userID, postID, models.MarkKindLike)
	if err != nil {
		return httpError(err, "Failed to fetch like status")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"liked": liked, "likesCount": post.LikesCount},
	})
}

// ToggleSave flips the authenticated user's bookmark on a post.
func (h *EngagementHandler) ToggleSave(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	saved, err := h.engagement.ToggleSave(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		return httpError(err, "Failed to toggle save")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"saved": saved},
	})
}

// SharePost counts a share of the post and returns the running total.
func (h *EngagementHandler) SharePost(c echo.Context) error {
	if _, err := getUserIDFromContext(c); err != nil {
		return err
	}

	count, err := h.engagement.Share(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err, "Failed to share post")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"sharesCount": count},
	})
}

// GetSavedPosts lists the authenticated user's bookmarked posts, most
// recently saved first.
func (h *EngagementHandler) GetSavedPosts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	_, limit := parsePagination(c, 20, 50)

	ids, err := h.marks.ListPostIDsByUser(userID, models.MarkKindSave, limit)
	if err != nil {
		return httpError(err, "Failed to fetch saved posts")
	}

	ctx := c.Request().Context()
	posts, err := h.posts.ListByIDs(ctx, ids)
	if err != nil {
		return httpError(err, "Failed to fetch saved posts")
	}

	views, err := h.enrich.enrichPosts(ctx, userID, posts)
	if err != nil {
		return httpError(err, "Failed to enrich posts")
	}
	if views == nil {
		views = []postView{}
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": views})
}

// RegisterEngagementRoutes registers like and save routes.
func (h *EngagementHandler) RegisterEngagementRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.ToggleLike)
	g.GET("/posts/:id/like", h.GetLikeStatus)
	g.POST("/posts/:id/save", h.ToggleSave)
	g.POST("/posts/:id/share", h.SharePost)
	g.GET("/posts/saved", h.GetSavedPosts)
}
