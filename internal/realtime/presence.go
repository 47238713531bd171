package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Presence tracks which connection currently represents each online user.
// A user has at most one bound connection; binding a new one replaces the old.
type Presence interface {
	// Bind maps userID to c and returns the connection it replaced, if any.
	Bind(userID uuid.UUID, c *Client) *Client
	// Unbind removes the mapping only when it still points at c.
	Unbind(userID uuid.UUID, c *Client) bool
	Lookup(userID uuid.UUID) (*Client, bool)
	Online(userID uuid.UUID) bool
	Users() []uuid.UUID
}

// LocalPresence is the in-process presence table.
type LocalPresence struct {
	mu    sync.RWMutex
	conns map[uuid.UUID]*Client
}

func NewLocalPresence() *LocalPresence {
	return &LocalPresence{conns: make(map[uuid.UUID]*Client)}
}

func (p *LocalPresence) Bind(userID uuid.UUID, c *Client) *Client {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.conns[userID]
	p.conns[userID] = c
	if prev == c {
		return nil
	}
	return prev
}

func (p *LocalPresence) Unbind(userID uuid.UUID, c *Client) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.conns[userID]; !ok || cur != c {
		return false
	}
	delete(p.conns, userID)
	return true
}

func (p *LocalPresence) Lookup(userID uuid.UUID) (*Client, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.conns[userID]
	return c, ok
}

func (p *LocalPresence) Online(userID uuid.UUID) bool {
	_, ok := p.Lookup(userID)
	return ok
}

func (p *LocalPresence) Users() []uuid.UUID {
	p.mu.RLock()
	defer p.mu.RUnlock()
	users := make([]uuid.UUID, 0, len(p.conns))
	for id := range p.conns {
		users = append(users, id)
	}
	return users
}
