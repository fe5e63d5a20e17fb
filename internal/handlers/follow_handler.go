package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow and block routes.
type FollowHandler struct {
	graph   *services.GraphService
	follows repositories.FollowRepository
	blocks  repositories.BlockRepository
}

// NewFollowHandler creates a new FollowHandler.
func NewFollowHandler(graph *services.GraphService, followRepo repositories.FollowRepository, blockRepo repositories.BlockRepository) *FollowHandler {
	return &FollowHandler{graph: graph, follows: followRepo, blocks: blockRepo}
}

// Follow makes the authenticated user follow the target. Re-following an
// already followed user succeeds without changing anything.
func (h *FollowHandler) Follow(c echo.Context) error {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	created, err := h.graph.Follow(actorID, targetID)
	if err != nil {
		return httpError(err, "Failed to follow user")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"following": true, "created": created},
	})
}

// Unfollow removes the follow edge. Unfollowing a user who was never
// followed succeeds without changing anything.
func (h *FollowHandler) Unfollow(c echo.Context) error {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	removed, err := h.graph.Unfollow(actorID, targetID)
	if err != nil {
		return httpError(err, "Failed to unfollow user")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"following": false, "removed": removed},
	})
}

// Block makes the authenticated user block the target.
func (h *FollowHandler) Block(c echo.Context) error {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.graph.Block(actorID, targetID); err != nil {
		return httpError(err, "Failed to block user")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"blocked": true},
	})
}

// Unblock removes a block edge.
func (h *FollowHandler) Unblock(c echo.Context) error {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.graph.Unblock(actorID, targetID); err != nil {
		return httpError(err, "Failed to unblock user")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"blocked": false},
	})
}

// GetFollowers lists a user's followers, paginated.
func (h *FollowHandler) GetFollowers(c echo.Context) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 100)

	users, total, err := h.follows.GetFollowers(userID, page, limit)
	if err != nil {
		return httpError(err, "Failed to fetch followers")
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

// GetFollowing lists who a user follows, paginated.
func (h *FollowHandler) GetFollowing(c echo.Context) error {
	userID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 100)

	users, total, err := h.follows.GetFollowing(userID, page, limit)
	if err != nil {
		return httpError(err, "Failed to fetch following")
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

// GetFollowStatus reports whether the authenticated user follows the target.
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	actorID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	targetID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	following, err := h.follows.IsFollowing(actorID, targetID)
	if err != nil {
		return httpError(err, "Failed to fetch follow status")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"following": following},
	})
}

// RegisterFollowRoutes registers follow and block routes.
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.Follow)
	g.DELETE("/users/:id/follow", h.Unfollow)
	g.GET("/users/:id/follow", h.GetFollowStatus)
	g.POST("/users/:id/block", h.Block)
	g.DELETE("/users/:id/block", h.Unblock)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
}
