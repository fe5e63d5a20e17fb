package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the home feed built from followed authors.
type FeedHandler struct {
	posts  repositories.PostRepository
	graph  *services.GraphService
	enrich *PostHandler
}

// NewFeedHandler creates a new FeedHandler.
func NewFeedHandler(postRepo repositories.PostRepository, graph *services.GraphService, postHandler *PostHandler) *FeedHandler {
	return &FeedHandler{posts: postRepo, graph: graph, enrich: postHandler}
}

// GetFeed returns the posts of followed users plus the viewer's own posts,
// newest first. Authors the viewer has blocked are masked out.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	viewerID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 50)

	authorIDs, err := h.graph.FeedAuthors(viewerID)
	if err != nil {
		return httpError(err, "Failed to fetch following")
	}

	ctx := c.Request().Context()
	posts, total, err := h.posts.ListByAuthors(ctx, authorIDs, int64((page-1)*limit), int64(limit))
	if err != nil {
		return httpError(err, "Failed to fetch feed")
	}

	views, err := h.enrich.enrichPosts(ctx, viewerID, posts)
	if err != nil {
		return httpError(err, "Failed to enrich feed")
	}
	if views == nil {
		views = []postView{}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"meta":    paginationMeta(page, limit, total),
	})
}

// RegisterFeedRoutes registers feed routes.
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
}
