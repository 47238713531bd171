package store

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageStore struct {
	db *gorm.DB
}

func (s *MessageStore) Create(msg *models.Message) error {
	return translate("create message", s.db.Create(msg).Error)
}

func (s *MessageStore) ByID(id uuid.UUID) (*models.Message, error) {
	var msg models.Message
	if err := s.db.First(&msg, "id = ?", id).Error; err != nil {
		return nil, translate("get message", err)
	}
	return &msg, nil
}

// ByConversation returns a conversation's messages newest first.
func (s *MessageStore) ByConversation(conversationID string, limit, skip int) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Offset(skip).
		Limit(limit).
		Find(&messages).Error
	return messages, translate("get conversation", err)
}

// ForUser returns every message the user sent or received, newest first.
func (s *MessageStore) ForUser(userID uuid.UUID) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&messages).Error
	return messages, translate("list user messages", err)
}

// MarkRead flips the read flag once; later calls leave read_at untouched.
func (s *MessageStore) MarkRead(id uuid.UUID, at time.Time) (*models.Message, error) {
	err := s.db.Model(&models.Message{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
	if err != nil {
		return nil, translate("mark message read", err)
	}
	return s.ByID(id)
}

func (s *MessageStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Message{}).Count(&n).Error
	return n, translate("count messages", err)
}
