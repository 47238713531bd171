package realtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	presenceKeyPrefix = "presence:"
	redisOpTimeout    = 2 * time.Second
)

// RedisPresence mirrors an inner Presence into Redis so any instance can
// answer Online for users connected elsewhere. Redis failures are logged and
// never break local delivery.
type RedisPresence struct {
	Presence
	rdb      *redis.Client
	ttl      time.Duration
	instance string
}

func NewRedisPresence(inner Presence, rdb *redis.Client, ttl time.Duration) *RedisPresence {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisPresence{
		Presence: inner,
		rdb:      rdb,
		ttl:      ttl,
		instance: uuid.NewString(),
	}
}

func presenceKey(userID uuid.UUID) string {
	return presenceKeyPrefix + userID.String()
}

func (p *RedisPresence) Bind(userID uuid.UUID, c *Client) *Client {
	prev := p.Presence.Bind(userID, c)

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := p.rdb.Set(ctx, presenceKey(userID), p.instance, p.ttl).Err(); err != nil {
		slog.Warn("presence mirror set failed", "user_id", userID, "error", err)
	}
	return prev
}

func (p *RedisPresence) Unbind(userID uuid.UUID, c *Client) bool {
	if !p.Presence.Unbind(userID, c) {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	// Only clear the key when this instance still owns it.
	owner, err := p.rdb.Get(ctx, presenceKey(userID)).Result()
	switch {
	case err == redis.Nil:
	case err != nil:
		slog.Warn("presence mirror get failed", "user_id", userID, "error", err)
	case owner == p.instance:
		if err := p.rdb.Del(ctx, presenceKey(userID)).Err(); err != nil {
			slog.Warn("presence mirror delete failed", "user_id", userID, "error", err)
		}
	}
	return true
}

func (p *RedisPresence) Online(userID uuid.UUID) bool {
	if p.Presence.Online(userID) {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	n, err := p.rdb.Exists(ctx, presenceKey(userID)).Result()
	if err != nil {
		slog.Warn("presence mirror lookup failed", "user_id", userID, "error", err)
		return false
	}
	return n > 0
}

// Refresh extends the TTL of every locally bound user.
func (p *RedisPresence) Refresh(ctx context.Context) error {
	users := p.Presence.Users()
	if len(users) == 0 {
		return nil
	}
	pipe := p.rdb.Pipeline()
	for _, id := range users {
		pipe.Set(ctx, presenceKey(id), p.instance, p.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Run refreshes the mirror every half TTL until ctx is cancelled.
func (p *RedisPresence) Run(ctx context.Context) {
	ticker := time.NewTicker(p.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.Refresh(ctx); err != nil {
				slog.Warn("presence mirror refresh failed", "error", err)
			}
		}
	}
}
