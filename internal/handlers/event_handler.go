package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/campusnet-app/backend/pkg/apperrors"
	"github.com/labstack/echo/v4"
)

// EventHandler handles campus event routes.
type EventHandler struct {
	events   repositories.EventRepository
	users    repositories.UserRepository
	notifier *services.Notifier
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventRepo repositories.EventRepository, userRepo repositories.UserRepository, notifier *services.Notifier) *EventHandler {
	return &EventHandler{events: eventRepo, users: userRepo, notifier: notifier}
}

// CreateEvent creates an event organized by the authenticated user. The
// organizer is counted as the first attendee.
func (h *EventHandler) CreateEvent(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req models.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	event := &models.Event{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Category:     req.Category,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		MaxAttendees: req.MaxAttendees,
		OrganizerID:  userID,
		FacultyID:    req.FacultyID,
		GroupID:      req.GroupID,
	}
	if err := h.events.CreateEvent(event); err != nil {
		return httpError(err, "Failed to create event")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": event})
}

// ListEvents lists upcoming events, soonest first.
func (h *EventHandler) ListEvents(c echo.Context) error {
	page, limit := parsePagination(c, 20, 50)

	events, total, err := h.events.ListUpcoming(page, limit, c.QueryParam("category"))
	if err != nil {
		return httpError(err, "Failed to fetch events")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    events,
		"meta":    paginationMeta(page, limit, total),
	})
}

// GetEvent returns a single event with the viewer's RSVP state.
func (h *EventHandler) GetEvent(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	event, err := h.events.GetEventByID(eventID)
	if err != nil {
		return httpError(err, "Failed to fetch event")
	}
	attending, err := h.events.HasRSVP(eventID, userID)
	if err != nil {
		return httpError(err, "Failed to fetch RSVP")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"event": event, "isAttending": attending},
	})
}

// ToggleRSVP flips the authenticated user's attendance. Joining a full event
// returns 409.
func (h *EventHandler) ToggleRSVP(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	eventID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.events.GetEventByID(eventID); err != nil {
		return httpError(err, "Failed to fetch event")
	}

	attending, err := h.events.HasRSVP(eventID, userID)
	if err != nil {
		return httpError(err, "Failed to fetch RSVP")
	}

	if attending {
		if _, err := h.events.RemoveRSVP(eventID, userID); err != nil {
			return httpError(err, "Failed to cancel RSVP")
		}
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"data":    echo.Map{"attending": false},
		})
	}

	if _, err := h.events.AddRSVP(eventID, userID); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "Event is full")
		}
		return httpError(err, "Failed to RSVP")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"attending": true},
	})
}

// InviteToEvent notifies another user about an event.
func (h *EventHandler) InviteToEvent(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	eventID, err := parseUintParam(c, "id")
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

	if _, err := h.events.GetEventByID(eventID); err != nil {
		return httpError(err, "Failed to fetch event")
	}
	if _, err := h.users.GetUserByID(req.UserID); err != nil {
		return httpError(err, "Failed to fetch invitee")
	}

	h.notifier.Notify(services.NotificationEvent{
		Type:        models.NotificationEventInvite,
		ActorID:     userID,
		RecipientID: req.UserID,
		TargetID:    strconv.FormatUint(uint64(eventID), 10),
		TargetType:  "event",
	})
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"invited": true}})
}

// RegisterEventRoutes registers event routes.
func (h *EventHandler) RegisterEventRoutes(g *echo.Group) {
	g.POST("/events", h.CreateEvent)
	g.GET("/events", h.ListEvents)
	g.GET("/events/:id", h.GetEvent)
	g.POST("/events/:id/rsvp", h.ToggleRSVP)
	g.POST("/events/:id/invite", h.InviteToEvent)
}
