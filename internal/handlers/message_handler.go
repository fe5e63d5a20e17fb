package handlers

import (
	"net/http"
	"strconv"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/labstack/echo/v4"
)

// PresenceChecker reports whether a user currently holds a live realtime
// session. Satisfied by the fanout broker.
type PresenceChecker interface {
	Online(userID uint) bool
}

// MessageHandler handles direct messages and the conversation list.
type MessageHandler struct {
	messages      repositories.MessageRepository
	users         repositories.UserRepository
	blocks        repositories.BlockRepository
	conversations *services.ConversationService
	notifier      *services.Notifier
	presence      PresenceChecker
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageRepo repositories.MessageRepository, userRepo repositories.UserRepository, blockRepo repositories.BlockRepository, conversationSvc *services.ConversationService, notifier *services.Notifier, presence PresenceChecker) *MessageHandler {
	return &MessageHandler{
		messages:      messageRepo,
		users:         userRepo,
		blocks:        blockRepo,
		conversations: conversationSvc,
		notifier:      notifier,
		presence:      presence,
	}
}

// SendMessage sends a direct message to another user.
func (h *MessageHandler) SendMessage(c echo.Context) error {
	senderID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	recipientID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	if recipientID == senderID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot message yourself")
	}

	var req models.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.users.GetUserByID(recipientID); err != nil {
		return httpError(err, "Failed to fetch recipient")
	}
	blocked, err := h.blocks.IsBlocked(recipientID, senderID)
	if err != nil {
		return httpError(err, "Failed to check block status")
	}
	if blocked {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot message this user")
	}

	message := &models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Text:        req.Text,
	}
	if err := h.messages.CreateMessage(c.Request().Context(), message); err != nil {
		return httpError(err, "Failed to send message")
	}

	h.notifier.Notify(services.NotificationEvent{
		Type:        models.NotificationMessage,
		ActorID:     senderID,
		RecipientID: recipientID,
		TargetID:    strconv.FormatUint(uint64(senderID), 10),
		TargetType:  "conversation",
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": message})
}

// GetHistory returns the message history between the authenticated user and
// another user, oldest first.
func (h *MessageHandler) GetHistory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}
	partnerID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}
	_, limit := parsePagination(c, 50, 200)

	messages, err := h.messages.GetHistory(c.Request().Context(), userID, partnerID, int64(limit))
	if err != nil {
		return httpError(err, "Failed to fetch messages")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": messages})
}

// conversationView is a conversation summary with the partner's profile and
// live-session state.
type conversationView struct {
	models.ConversationSummary
	Partner  models.UserCompact `json:"partner"`
	IsOnline bool               `json:"isOnline"`
}

// GetConversations lists the authenticated user's conversations, most
// recently active first.
func (h *MessageHandler) GetConversations(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return err
	}

	summaries, err := h.conversations.Conversations(c.Request().Context(), userID)
	if err != nil {
		return httpError(err, "Failed to fetch conversations")
	}

	views := make([]conversationView, 0, len(summaries))
	for _, s := range summaries {
		partner := models.UserCompact{ID: s.PartnerID, Name: "Unknown"}
		if u, err := h.users.GetUserByID(s.PartnerID); err == nil {
			partner = u.ToCompact()
		}
		views = append(views, conversationView{
			ConversationSummary: s,
			Partner:             partner,
			IsOnline:            h.presence.Online(s.PartnerID),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": views})
}

// RegisterMessageRoutes registers messaging routes.
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/messages/:id", h.SendMessage)
	g.GET("/messages/:id", h.GetHistory)
	g.GET("/conversations", h.GetConversations)
}
