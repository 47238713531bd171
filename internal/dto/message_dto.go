package dto

import "github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"

// SendMessageRequest is shared by REST and the realtime channel. The
// conversation id is chosen by the client; the server does not check that
// sender and recipient belong to it.
type SendMessageRequest struct {
	ConversationID string `json:"conversationId" validate:"required,max=255"`
	RecipientID    string `json:"recipientId" validate:"required,uuid"`
	ProductID      string `json:"productId" validate:"omitempty,uuid"`
	Message        string `json:"message" validate:"required,max=2000"`
}

// ConversationSummary is one row of a user's inbox.
type ConversationSummary struct {
	ConversationID string         `json:"conversation_id"`
	LastMessage    models.Message `json:"last_message"`
	UnreadCount    int            `json:"unread_count"`
}
