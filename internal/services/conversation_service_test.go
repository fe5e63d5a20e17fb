package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessage(repo *fakeMessageRepo, sender, recipient uint, text string, at time.Time) {
	repo.CreateMessage(context.Background(), &models.Message{
		SenderID:    sender,
		RecipientID: recipient,
		Text:        text,
		CreatedAt:   at,
	})
}

func TestConversationsGroupsByPartner(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewConversationService(repo)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// three messages with user 2, one with user 3
	seedMessage(repo, 1, 2, "hi", base)
	seedMessage(repo, 2, 1, "hey", base.Add(1*time.Minute))
	seedMessage(repo, 1, 2, "how are you", base.Add(2*time.Minute))
	seedMessage(repo, 3, 1, "lunch?", base.Add(3*time.Minute))

	summaries, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// most recently active conversation first
	assert.Equal(t, uint(3), summaries[0].PartnerID)
	assert.Equal(t, "lunch?", summaries[0].LastMessageText)
	assert.Equal(t, uint(2), summaries[1].PartnerID)
	assert.Equal(t, "how are you", summaries[1].LastMessageText)
}

func TestConversationsLatestPerPartner(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewConversationService(repo)
	base := time.Now()

	seedMessage(repo, 1, 2, "first", base)
	seedMessage(repo, 2, 1, "second", base.Add(time.Minute))
	seedMessage(repo, 1, 2, "third", base.Add(2*time.Minute))

	summaries, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "third", summaries[0].LastMessageText)
}

func TestConversationsEmptyHistory(t *testing.T) {
	svc := NewConversationService(newFakeMessageRepo())

	summaries, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestConversationsCapped(t *testing.T) {
	repo := newFakeMessageRepo()
	svc := NewConversationService(repo)
	base := time.Now()

	for i := 0; i < conversationCap+10; i++ {
		partner := uint(100 + i)
		seedMessage(repo, partner, 1, fmt.Sprintf("msg from %d", partner), base.Add(time.Duration(i)*time.Second))
	}

	summaries, err := svc.Conversations(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, summaries, conversationCap)

	// the newest conversations survive the cap
	assert.Equal(t, uint(100+conversationCap+9), summaries[0].PartnerID)
}
