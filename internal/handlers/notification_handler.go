package handlers

import (
	"net/http"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification inbox routes.
type NotificationHandler struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notificationRepo, users: userRepo}
}

// notificationView is a notification with its actor summary.
type notificationView struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

// GetNotifications lists the authenticated user's notifications, newest
// first.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	page, limit := parsePagination(c, 20, 50)

	notifications, total, err := h.notifications.GetByRecipientID(userID, page, limit)
	if err != nil {
		return httpError(err, "Failed to fetch notifications")
	}

	actors := make(map[uint]models.UserCompact)
	views := make([]notificationView, 0, len(notifications))
	for i := range notifications {
		actor, ok := actors[notifications[i].ActorID]
		if !ok {
			u, err := h.users.GetUserByID(notifications[i].ActorID)
			if err != nil {
				actor = models.UserCompact{ID: notifications[i].ActorID, Name: "Unknown"}
			} else {
				actor = u.ToCompact()
			}
			actors[notifications[i].ActorID] = actor
		}
		views = append(views, notificationView{Notification: notifications[i], Actor: actor})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    views,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetUnreadCount returns the number of unread notifications.
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	count, err := h.notifications.GetUnreadCount(userID)
	if err != nil {
		return httpError(err, "Failed to fetch unread count")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"unreadCount": count},
	})
}

// MarkAsRead marks one of the authenticated user's notifications as read.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	notificationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAsRead(notificationID, userID); err != nil {
		return httpError(err, "Failed to mark notification as read")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"read": true}})
}

// MarkAllAsRead marks all of the authenticated user's notifications as read.
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	if err := h.notifications.MarkAllAsRead(userID); err != nil {
		return httpError(err, "Failed to mark notifications as read")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"read": true}})
}

// DeleteNotification removes one of the authenticated user's notifications.
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	notificationID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notifications.DeleteNotification(notificationID, userID); err != nil {
		return httpError(err, "Failed to delete notification")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"deleted": true}})
}

// RegisterNotificationRoutes registers notification routes.
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}
