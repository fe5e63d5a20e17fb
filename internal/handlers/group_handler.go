package handlers

import (
	"net/http"
	"strconv"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// GroupHandler handles group routes.
type GroupHandler struct {
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	notifier *services.Notifier
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groupRepo repositories.GroupRepository, userRepo repositories.UserRepository, notifier *services.Notifier) *GroupHandler {
	return &GroupHandler{groups: groupRepo, users: userRepo, notifier: notifier}
}

// CreateGroup creates a group owned by the authenticated user. The owner
// becomes the first member.
func (h *GroupHandler) CreateGroup(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsPrivate:   req.IsPrivate,
		OwnerID:     userID,
	}
	if err := h.groups.CreateGroup(group); err != nil {
		return httpError(err, "Failed to create group")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": group})
}

// ListGroups lists public groups, optionally filtered by category.
func (h *GroupHandler) ListGroups(c echo.Context) error {
	page, limit := parsePagination(c, 20, 50)

	groups, total, err := h.groups.ListGroups(page, limit, c.QueryParam("category"))
	if err != nil {
		return httpError(err, "Failed to fetch groups")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    groups,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetGroup returns a single group with the viewer's membership state.
func (h *GroupHandler) GetGroup(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	group, err := h.groups.GetGroupByID(groupID)
	if err != nil {
		return httpError(err, "Failed to fetch group")
	}
	isMember, err := h.groups.IsMember(groupID, userID)
	if err != nil {
		return httpError(err, "Failed to fetch membership")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"group": group, "isMember": isMember},
	})
}

// JoinGroup adds the authenticated user to a group. Joining a group the user
// already belongs to succeeds without changing anything.
func (h *GroupHandler) JoinGroup(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.groups.GetGroupByID(groupID); err != nil {
		return httpError(err, "Failed to fetch group")
	}
	joined, err := h.groups.AddMember(groupID, userID)
	if err != nil {
		return httpError(err, "Failed to join group")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"member": true, "joined": joined},
	})
}

// LeaveGroup removes the authenticated user from a group.
func (h *GroupHandler) LeaveGroup(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	left, err := h.groups.RemoveMember(groupID, userID)
	if err != nil {
		return httpError(err, "Failed to leave group")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"member": false, "left": left},
	})
}

// InviteToGroup notifies another user about a group. Only members may invite.
func (h *GroupHandler) InviteToGroup(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req models.InviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.groups.GetGroupByID(groupID); err != nil {
		return httpError(err, "Failed to fetch group")
	}
	isMember, err := h.groups.IsMember(groupID, userID)
	if err != nil {
		return httpError(err, "Failed to fetch membership")
	}
	if !isMember {
		return echo.NewHTTPError(http.StatusForbidden, "Only members can invite")
	}
	if _, err := h.users.GetUserByID(req.UserID); err != nil {
		return httpError(err, "Failed to fetch invitee")
	}

	h.notifier.Notify(services.NotificationEvent{
		Type:        models.NotificationGroupInvite,
		ActorID:     userID,
		RecipientID: req.UserID,
		TargetID:    strconv.FormatUint(uint64(groupID), 10),
		TargetType:  "group",
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"invited": true}})
}

// ListMembers lists a group's members.
func (h *GroupHandler) ListMembers(c echo.Context) error {
	groupID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 100)

	users, total, err := h.groups.ListMembers(groupID, page, limit)
	if err != nil {
		return httpError(err, "Failed to fetch members")
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

// RegisterGroupRoutes registers group routes.
func (h *GroupHandler) RegisterGroupRoutes(g *echo.Group) {
	g.POST("/groups", h.CreateGroup)
	g.GET("/groups", h.ListGroups)
	g.GET("/groups/:id", h.GetGroup)
	g.POST("/groups/:id/join", h.JoinGroup)
	g.POST("/groups/:id/leave", h.LeaveGroup)
	g.POST("/groups/:id/invite", h.InviteToGroup)
	g.GET("/groups/:id/members", h.ListMembers)
}
