package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/campusnet-app/backend/internal/fanout"
	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMessageRepo struct {
	messages []models.Message
}

func (r *stubMessageRepo) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.CreatedAt = time.Now()
	r.messages = append(r.messages, *msg)
	return nil
}

func (r *stubMessageRepo) GetHistory(ctx context.Context, userA, userB uint, limit int64) ([]models.Message, error) {
	var out []models.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.RecipientID == userB) ||
			(m.SenderID == userB && m.RecipientID == userA) {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListByParticipant returns newest-first like the real store.
func (r *stubMessageRepo) ListByParticipant(ctx context.Context, userID uint, limit int64) ([]models.Message, error) {
	var out []models.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		m := r.messages[i]
		if m.SenderID == userID || m.RecipientID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

type stubBlockRepo struct{}

func (stubBlockRepo) CreateBlock(blockerID, blockedID uint) (bool, error) { return false, nil }
func (stubBlockRepo) DeleteBlock(blockerID, blockedID uint) (bool, error) { return false, nil }
func (stubBlockRepo) IsBlocked(blockerID, blockedID uint) (bool, error)   { return false, nil }
func (stubBlockRepo) GetBlockedIDs(blockerID uint) ([]uint, error)        { return nil, nil }

func newMessageFixture(t *testing.T) (*MessageHandler, *stubMessageRepo, *fanout.Broker) {
	t.Helper()
	msgs := &stubMessageRepo{}
	users := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, Name: "Alice"},
		2: {ID: 2, Name: "Bob"},
		3: {ID: 3, Name: "Carol"},
	}}
	broker := fanout.NewBroker()
	notifier := services.NewNotifier(&stubNotificationRepo{}, users, broker)
	conversations := services.NewConversationService(msgs)
	h := NewMessageHandler(msgs, users, stubBlockRepo{}, conversations, notifier, broker)
	return h, msgs, broker
}

func TestConversationsReportPartnerPresence(t *testing.T) {
	h, msgs, broker := newMessageFixture(t)
	ctx := context.Background()

	require.NoError(t, msgs.CreateMessage(ctx, &models.Message{SenderID: 1, RecipientID: 2, Text: "hey"}))
	require.NoError(t, msgs.CreateMessage(ctx, &models.Message{SenderID: 3, RecipientID: 1, Text: "yo"}))

	// only partner 2 holds a live session
	ch := fanout.NewChannel(2)
	broker.Register(2, ch)
	defer broker.Unregister(ch)

	rec := performAs(t, h.GetConversations, http.MethodGet, "/conversations", 1)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			PartnerID uint               `json:"partner_id"`
			Partner   models.UserCompact `json:"partner"`
			IsOnline  bool               `json:"isOnline"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)

	// most recently active conversation first
	assert.Equal(t, uint(3), body.Data[0].PartnerID)
	assert.False(t, body.Data[0].IsOnline)

	assert.Equal(t, uint(2), body.Data[1].PartnerID)
	assert.True(t, body.Data[1].IsOnline)
	assert.Equal(t, "Bob", body.Data[1].Partner.Name)
}

func TestConversationsAllOffline(t *testing.T) {
	h, msgs, _ := newMessageFixture(t)

	require.NoError(t, msgs.CreateMessage(context.Background(), &models.Message{SenderID: 2, RecipientID: 1, Text: "ping"}))

	rec := performAs(t, h.GetConversations, http.MethodGet, "/conversations", 1)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isOnline":false`)
}
