package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Largest inbound frame: a full-length message plus envelope.
	maxFrameSize = 16 * 1024

	sendBuffer = 256
)

// Client is one authenticated websocket connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	UserID   uuid.UUID
	Email    string
	Username string

	send chan []byte

	mu     sync.Mutex
	closed bool

	// guarded by hub.mu
	groups map[string]struct{}
}

// NewClient builds a client for conn. conn may be nil when the caller reads
// the outbound queue itself.
func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, email, username string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		UserID:   userID,
		Email:    email,
		Username: username,
		send:     make(chan []byte, sendBuffer),
		groups:   make(map[string]struct{}),
	}
}

// enqueue reports false when the outbound queue is full.
func (c *Client) enqueue(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) sendError(event, message string) {
	if !c.enqueue(encode(EventError, errorData{Event: event, Message: message})) {
		c.hub.drop([]*Client{c})
	}
}

// Serve registers the client and runs both pumps until the connection ends.
func (c *Client) Serve() {
	c.hub.Register(c)
	go c.WritePump()
	c.ReadPump()
}

// ReadPump feeds inbound frames to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		messageType, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("realtime read failed", "user_id", c.UserID, "error", err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		c.hub.HandleFrame(c, frame)
	}
}

// WritePump writes queued frames to the connection, one websocket message
// per frame, and keeps the peer alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
