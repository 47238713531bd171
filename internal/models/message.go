package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const MaxMessageLength = 2000

// Message is one persisted chat line. ConversationID is chosen by the client;
// nothing checks that sender and recipient belong to it.
type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID string     `gorm:"size:255;not null;index:idx_messages_conversation_created,priority:1" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"sender_id"`
	SenderName     string     `gorm:"size:255" json:"sender_name"`
	RecipientID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipient_id"`
	RecipientName  string     `gorm:"size:255" json:"recipient_name"`
	ProductID      *uuid.UUID `gorm:"type:uuid" json:"product_id,omitempty"`
	Body           string     `gorm:"type:text;not null" json:"message"`
	IsRead         bool       `gorm:"not null;default:false" json:"is_read"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `gorm:"index;index:idx_messages_conversation_created,priority:2" json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
