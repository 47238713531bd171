package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/collector-backend/internal/services"
	"github.com/google/uuid"
)

// Conversations is the slice of the conversation service the hub needs.
type Conversations interface {
	SendMessage(senderID uuid.UUID, req *dto.SendMessageRequest) (*models.Message, error)
	MarkRead(messageID, userID uuid.UUID) (*models.Message, error)
}

// Hub routes frames between connected clients. Clients join conversation
// groups by id; group broadcasts reach every member.
type Hub struct {
	presence      Presence
	conversations Conversations
	persist       bool
	now           func() time.Time

	mu      sync.Mutex
	clients map[*Client]struct{}
	groups  map[string]map[*Client]struct{}
}

func NewHub(presence Presence, conversations Conversations, persist bool) *Hub {
	if presence == nil {
		presence = NewLocalPresence()
	}
	return &Hub{
		presence:      presence,
		conversations: conversations,
		persist:       persist,
		now:           time.Now,
		clients:       make(map[*Client]struct{}),
		groups:        make(map[string]map[*Client]struct{}),
	}
}

func groupName(conversationID string) string {
	return "conversation_" + conversationID
}

// Register adds c and announces the user to everyone else.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	if prev := h.presence.Bind(c.UserID, c); prev != nil {
		slog.Info("realtime connection replaced", "user_id", c.UserID)
	}
	metrics.ConnectionOpened()
	slog.Info("realtime client connected", "user_id", c.UserID)

	h.broadcastAll(encode(EventUserConnected, presenceData{UserID: c.UserID.String(), Timestamp: h.now()}), c)
}

// Unregister removes c from every group and closes its outbound queue. It is
// safe to call more than once.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for name := range c.groups {
		h.removeFromGroup(name, c)
	}
	h.mu.Unlock()

	c.closeSend()
	metrics.ConnectionClosed()
	slog.Info("realtime client disconnected", "user_id", c.UserID)

	if h.presence.Unbind(c.UserID, c) {
		h.broadcastAll(encode(EventUserDisconnected, presenceData{UserID: c.UserID.String(), Timestamp: h.now()}), c)
	}
}

// removeFromGroup requires h.mu.
func (h *Hub) removeFromGroup(name string, c *Client) {
	delete(c.groups, name)
	members := h.groups[name]
	if members == nil {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(h.groups, name)
	}
}

func (h *Hub) Join(c *Client, conversationID string) {
	name := groupName(conversationID)
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members := h.groups[name]
	if members == nil {
		members = make(map[*Client]struct{})
		h.groups[name] = members
	}
	members[c] = struct{}{}
	c.groups[name] = struct{}{}
}

func (h *Hub) Leave(c *Client, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeFromGroup(groupName(conversationID), c)
}

// Online reports whether userID has a live connection.
func (h *Hub) Online(userID uuid.UUID) bool {
	return h.presence.Online(userID)
}

// PublishMessage announces a stored message to its conversation group. The
// recipient is notified directly when connected but not in the group.
func (h *Hub) PublishMessage(msg *models.Message) {
	frame := encode(EventNewMessage, newMessageData{
		ConversationID: msg.ConversationID,
		Message:        msg,
		Persisted:      true,
	})
	name := groupName(msg.ConversationID)

	h.mu.Lock()
	var slow []*Client
	for c := range h.groups[name] {
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}
	recipient, online := h.presence.Lookup(msg.RecipientID)
	if online {
		if _, joined := h.groups[name][recipient]; joined {
			online = false
		}
	}
	if online && !recipient.enqueue(frame) {
		slow = append(slow, recipient)
	}
	h.mu.Unlock()

	h.drop(slow)
}

// PublishRead announces that readerID has read msg.
func (h *Hub) PublishRead(msg *models.Message, readerID uuid.UUID) {
	h.broadcastGroup(msg.ConversationID, encode(EventMessageRead, messageReadData{
		ConversationID: msg.ConversationID,
		MessageID:      msg.ID.String(),
		UserID:         readerID.String(),
		Timestamp:      h.now(),
	}), nil)
}

// SendToUser delivers frame to the user's bound connection.
func (h *Hub) SendToUser(userID uuid.UUID, frame []byte) bool {
	c, ok := h.presence.Lookup(userID)
	if !ok {
		return false
	}
	h.mu.Lock()
	delivered := c.enqueue(frame)
	h.mu.Unlock()
	if !delivered {
		h.drop([]*Client{c})
	}
	return delivered
}

func (h *Hub) broadcastGroup(conversationID string, frame []byte, except *Client) {
	h.mu.Lock()
	var slow []*Client
	for c := range h.groups[groupName(conversationID)] {
		if c == except {
			continue
		}
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()
	h.drop(slow)
}

func (h *Hub) broadcastAll(frame []byte, except *Client) {
	h.mu.Lock()
	var slow []*Client
	for c := range h.clients {
		if c == except {
			continue
		}
		if !c.enqueue(frame) {
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()
	h.drop(slow)
}

func (h *Hub) drop(slow []*Client) {
	for _, c := range slow {
		slog.Warn("dropping slow realtime client", "user_id", c.UserID)
		h.Unregister(c)
	}
}

// HandleFrame dispatches one inbound frame from c.
func (h *Hub) HandleFrame(c *Client, raw []byte) {
	var f Frame
	if err := json.Unmarshal(raw, &f); err != nil || f.Event == "" {
		c.sendError("", "invalid frame")
		return
	}
	if !inboundEvents[f.Event] {
		c.sendError(f.Event, "unknown event")
		return
	}
	metrics.RealtimeEvent(f.Event)

	switch f.Event {
	case EventJoinConversation:
		if id := conversationID(f.Data); id != "" {
			h.Join(c, id)
		} else {
			c.sendError(f.Event, "conversationId is required")
		}
	case EventLeaveConversation:
		if id := conversationID(f.Data); id != "" {
			h.Leave(c, id)
		}
	case EventSendMessage:
		h.handleSend(c, f.Data)
	case EventMarkRead:
		h.handleMarkRead(c, f.Data)
	case EventTypingStart:
		if id := conversationID(f.Data); id != "" {
			h.broadcastGroup(id, encode(EventUserTyping, typingData{
				ConversationID: id,
				UserID:         c.UserID.String(),
				UserEmail:      c.Email,
			}), c)
		}
	case EventTypingStop:
		if id := conversationID(f.Data); id != "" {
			h.broadcastGroup(id, encode(EventUserStoppedTyping, typingData{
				ConversationID: id,
				UserID:         c.UserID.String(),
			}), c)
		}
	}
}

func (h *Hub) handleSend(c *Client, data json.RawMessage) {
	var p sendPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.sendError(EventSendMessage, "invalid payload")
		return
	}

	if h.persist && p.RecipientID != "" && h.conversations != nil {
		msg, err := h.conversations.SendMessage(c.UserID, &dto.SendMessageRequest{
			ConversationID: p.ConversationID,
			RecipientID:    p.RecipientID,
			ProductID:      p.ProductID,
			Message:        p.Content,
		})
		if err != nil {
			c.sendError(EventSendMessage, clientMessage(err, "failed to send message"))
			return
		}
		metrics.MessageSent("realtime")
		h.PublishMessage(msg)
		return
	}

	p.ConversationID = strings.TrimSpace(p.ConversationID)
	p.Content = strings.TrimSpace(p.Content)
	switch {
	case p.ConversationID == "":
		c.sendError(EventSendMessage, "conversationId is required")
		return
	case p.Content == "":
		c.sendError(EventSendMessage, "content is required")
		return
	case len([]rune(p.Content)) > models.MaxMessageLength:
		c.sendError(EventSendMessage, "content is too long")
		return
	}
	if p.Type == "" {
		p.Type = "text"
	}

	h.broadcastGroup(p.ConversationID, encode(EventNewMessage, newMessageData{
		ConversationID: p.ConversationID,
		Message: ephemeralMessage{
			ID:          uuid.NewString(),
			SenderID:    c.UserID.String(),
			SenderEmail: c.Email,
			Content:     p.Content,
			Type:        p.Type,
			Timestamp:   h.now(),
		},
	}), nil)
	metrics.MessageSent("ephemeral")
}

func (h *Hub) handleMarkRead(c *Client, data json.RawMessage) {
	var p markReadPayload
	if err := json.Unmarshal(data, &p); err != nil || p.ConversationID == "" || p.MessageID == "" {
		c.sendError(EventMarkRead, "conversationId and messageId are required")
		return
	}

	if id, err := uuid.Parse(p.MessageID); err == nil && h.persist && h.conversations != nil {
		_, err := h.conversations.MarkRead(id, c.UserID)
		// Ephemeral messages are never stored, so a missing id still gets a receipt.
		if err != nil && !errors.Is(err, services.ErrNotFound) {
			c.sendError(EventMarkRead, clientMessage(err, "failed to mark message read"))
			return
		}
	}

	h.broadcastGroup(p.ConversationID, encode(EventMessageRead, messageReadData{
		ConversationID: p.ConversationID,
		MessageID:      p.MessageID,
		UserID:         c.UserID.String(),
		Timestamp:      h.now(),
	}), nil)
}

func clientMessage(err error, fallback string) string {
	var svcErr *services.Error
	if errors.As(err, &svcErr) && svcErr.Kind != services.KindInternal {
		return svcErr.Message
	}
	slog.Error("realtime operation failed", "error", err)
	return fallback
}
