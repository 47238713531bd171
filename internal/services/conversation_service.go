package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/store"
	"github.com/google/uuid"
)

const (
	defaultConversationLimit = 100
	maxConversationLimit     = 500
)

// ConversationService persists chat messages. Conversation ids are opaque
// strings picked by clients; two participants share a thread only if they
// agree on the id out of band.
type ConversationService struct {
	store *store.Store
	now   func() time.Time
}

func NewConversationService(st *store.Store) *ConversationService {
	return &ConversationService{store: st, now: time.Now}
}

func (s *ConversationService) SendMessage(senderID uuid.UUID, req *dto.SendMessageRequest) (*models.Message, error) {
	req.ConversationID = strings.TrimSpace(req.ConversationID)
	req.Message = strings.TrimSpace(req.Message)
	if err := dto.Validate(req); err != nil {
		return nil, validationError("%s", err.Error())
	}

	recipientID := uuid.MustParse(req.RecipientID)
	if recipientID == senderID {
		return nil, validationError("cannot send a message to yourself")
	}

	sender, err := s.store.Users.ByID(senderID)
	if err != nil {
		return nil, storeError("sender", err)
	}
	recipient, err := s.store.Users.ByID(recipientID)
	if err != nil {
		return nil, storeError("recipient", err)
	}

	msg := &models.Message{
		ConversationID: req.ConversationID,
		SenderID:       sender.ID,
		SenderName:     sender.DisplayName(),
		RecipientID:    recipient.ID,
		RecipientName:  recipient.DisplayName(),
		Body:           req.Message,
		CreatedAt:      s.now(),
	}

	var product *models.Product
	if req.ProductID != "" {
		productID := uuid.MustParse(req.ProductID)
		if product, err = s.store.Products.ByID(productID); err != nil {
			return nil, storeError("product", err)
		}
		msg.ProductID = &product.ID
	}

	if err := s.store.Messages.Create(msg); err != nil {
		return nil, storeError("message", err)
	}

	if product != nil && !product.OwnedBy(sender.ID) {
		if err := s.store.Products.AddInterest(product.ID, sender.ID); err != nil {
			slog.Error("failed to record buyer interest", "product_id", product.ID, "user_id", sender.ID, "error", err)
		}
	}
	return msg, nil
}

// GetConversation returns up to limit messages, newest first, after skipping skip.
func (s *ConversationService) GetConversation(conversationID string, limit, skip int) ([]models.Message, error) {
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		return nil, validationError("conversationId is required")
	}
	if limit <= 0 {
		limit = defaultConversationLimit
	}
	if limit > maxConversationLimit {
		limit = maxConversationLimit
	}
	if skip < 0 {
		skip = 0
	}

	messages, err := s.store.Messages.ByConversation(conversationID, limit, skip)
	if err != nil {
		return nil, storeError("conversation", err)
	}
	return messages, nil
}

// ListUserConversations groups every message the user sent or received by
// conversation id and returns the newest message of each group, most recent
// group first.
func (s *ConversationService) ListUserConversations(userID uuid.UUID) ([]dto.ConversationSummary, error) {
	messages, err := s.store.Messages.ForUser(userID)
	if err != nil {
		return nil, storeError("messages", err)
	}

	summaries := []dto.ConversationSummary{}
	index := map[string]int{}
	for _, m := range messages {
		i, seen := index[m.ConversationID]
		if !seen {
			// messages arrive newest first, so the first one seen is the latest.
			i = len(summaries)
			index[m.ConversationID] = i
			summaries = append(summaries, dto.ConversationSummary{ConversationID: m.ConversationID, LastMessage: m})
		}
		if m.RecipientID == userID && !m.IsRead {
			summaries[i].UnreadCount++
		}
	}
	return summaries, nil
}

// MarkRead flags a message as read. Only its recipient may do so.
func (s *ConversationService) MarkRead(messageID, userID uuid.UUID) (*models.Message, error) {
	msg, err := s.store.Messages.ByID(messageID)
	if err != nil {
		return nil, storeError("message", err)
	}
	if msg.RecipientID != userID {
		return nil, authzError("only the recipient can mark a message as read")
	}
	if msg.IsRead {
		return msg, nil
	}

	msg, err = s.store.Messages.MarkRead(messageID, s.now())
	if err != nil {
		return nil, storeError("message", err)
	}
	return msg, nil
}
