package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message represents a direct message stored in MongoDB.
type Message struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SenderID    uint               `json:"sender_id" bson:"sender_id"`
	RecipientID uint               `json:"recipient_id" bson:"recipient_id"`
	Text        string             `json:"text" bson:"text"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

// SendMessageRequest defines the request body for sending a direct message.
// The recipient comes from the route path.
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// ConversationSummary is the derived per-counterparty view of a user's
// message history. Never persisted.
type ConversationSummary struct {
	PartnerID       uint      `json:"partner_id"`
	LastMessageText string    `json:"last_message_text"`
	LastMessageAt   time.Time `json:"last_message_at"`
}
