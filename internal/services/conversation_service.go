package services

import (
	"context"

	"github.com/campusnet-app/backend/internal/models"
	"github.com/campusnet-app/backend/internal/repositories"
)

const (
	// conversationCap bounds the number of returned summaries.
	conversationCap = 50
	// conversationScanLimit bounds the snapshot read backing the grouping.
	conversationScanLimit = 2000
)

// ConversationService derives per-counterparty conversation summaries from
// a user's message history.
type ConversationService struct {
	messages repositories.MessageRepository
}

// NewConversationService creates a new ConversationService.
func NewConversationService(messageRepo repositories.MessageRepository) *ConversationService {
	return &ConversationService{messages: messageRepo}
}

// Conversations groups the user's messages by the other party and keeps the
// most recent message per group. The grouping runs over one snapshot read
// sorted newest-first, so the first message seen for a counterparty is that
// group's latest and the result is already ordered by recency.
func (s *ConversationService) Conversations(ctx context.Context, userID uint) ([]models.ConversationSummary, error) {
	msgs, err := s.messages.ListByParticipant(ctx, userID, conversationScanLimit)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	summaries := make([]models.ConversationSummary, 0)
	for _, m := range msgs {
		partner := m.SenderID
		if partner == userID {
			partner = m.RecipientID
		}
		if seen[partner] {
			continue
		}
		seen[partner] = true
		summaries = append(summaries, models.ConversationSummary{
			PartnerID:       partner,
			LastMessageText: m.Text,
			LastMessageAt:   m.CreatedAt,
		})
		if len(summaries) >= conversationCap {
			break
		}
	}
	return summaries, nil
}
