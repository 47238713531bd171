package realtime

import (
	"encoding/json"
	"strings"
	"time"
)

// Client to server events.
const (
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventMarkRead          = "mark_read"
	EventTypingStart       = "typing_start"
	EventTypingStop        = "typing_stop"
)

// Server to client events.
const (
	EventNewMessage        = "new_message"
	EventMessageRead       = "message_read"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
	EventUserConnected     = "user_connected"
	EventUserDisconnected  = "user_disconnected"
	EventError             = "error"
)

var inboundEvents = map[string]bool{
	EventJoinConversation:  true,
	EventLeaveConversation: true,
	EventSendMessage:       true,
	EventMarkRead:          true,
	EventTypingStart:       true,
	EventTypingStop:        true,
}

// Frame is the JSON envelope of every websocket message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type sendPayload struct {
	ConversationID string `json:"conversationId"`
	Content        string `json:"content"`
	Type           string `json:"type"`
	RecipientID    string `json:"recipientId"`
	ProductID      string `json:"productId"`
}

type markReadPayload struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

type newMessageData struct {
	ConversationID string      `json:"conversationId"`
	Message        interface{} `json:"message"`
	Persisted      bool        `json:"persisted"`
}

// ephemeralMessage is a realtime-only chat line that was never stored.
type ephemeralMessage struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	SenderEmail string    `json:"senderEmail"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

type messageReadData struct {
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId"`
	UserID         string    `json:"userId"`
	Timestamp      time.Time `json:"timestamp"`
}

type typingData struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	UserEmail      string `json:"userEmail,omitempty"`
}

type presenceData struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type errorData struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}

func encode(event string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		raw = nil
	}
	frame, _ := json.Marshal(Frame{Event: event, Data: raw})
	return frame
}

// conversationID accepts either a bare JSON string or {"conversationId": "..."}.
func conversationID(data json.RawMessage) string {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return strings.TrimSpace(id)
	}
	var ref struct {
		ConversationID string `json:"conversationId"`
	}
	if err := json.Unmarshal(data, &ref); err == nil {
		return strings.TrimSpace(ref.ConversationID)
	}
	return ""
}
