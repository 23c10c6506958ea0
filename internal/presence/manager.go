// Package presence tracks who is listening in each mood room and fans
// room events out across server instances over Redis pub/sub.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SaurabhKarki-25/Music-Platform/internal/cache"
	"github.com/SaurabhKarki-25/Music-Platform/internal/logger"
	"github.com/SaurabhKarki-25/Music-Platform/internal/mood"
	"go.uber.org/zap"
)

const (
	// EventJoin is published when a listener enters a mood room
	EventJoin = "join"
	// EventLeave is published when a listener exits a mood room
	EventLeave = "leave"

	// Room membership keys expire so crashed instances don't leak members
	membershipTTL = 24 * time.Hour
)

// Event is one room notification, serialized onto the room's Redis channel.
type Event struct {
	Type      string    `json:"type"`
	Mood      string    `json:"mood"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Listeners int64     `json:"listeners"`
	Timestamp time.Time `json:"timestamp"`
}

// Manager coordinates mood room membership through Redis so that every
// server instance sees the same listener sets.
type Manager struct {
	redis *cache.RedisClient
}

// NewManager creates a presence manager backed by the given Redis client.
func NewManager(redis *cache.RedisClient) *Manager {
	return &Manager{redis: redis}
}

func roomKey(m mood.Mood) string {
	return fmt.Sprintf("presence:mood:%s", m)
}

func roomChannel(m mood.Mood) string {
	return fmt.Sprintf("presence:events:%s", m)
}

// Join adds a listener to a mood room and announces it.
func (pm *Manager) Join(ctx context.Context, m mood.Mood, userID, username string) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %s", mood.ErrUnknownMood, m)
	}

	key := roomKey(m)
	if err := pm.redis.SAdd(ctx, key, userID); err != nil {
		return fmt.Errorf("joining mood room %s: %w", m, err)
	}
	if err := pm.redis.Expire(ctx, key, membershipTTL); err != nil {
		logger.Log.Warn("failed to refresh room TTL",
			zap.String("mood", string(m)),
			zap.Error(err),
		)
	}

	return pm.publishEvent(ctx, m, EventJoin, userID, username)
}

// Leave removes a listener from a mood room and announces it.
func (pm *Manager) Leave(ctx context.Context, m mood.Mood, userID, username string) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %s", mood.ErrUnknownMood, m)
	}

	if err := pm.redis.SRem(ctx, roomKey(m), userID); err != nil {
		return fmt.Errorf("leaving mood room %s: %w", m, err)
	}

	return pm.publishEvent(ctx, m, EventLeave, userID, username)
}

// Listeners returns the user IDs currently in a mood room.
func (pm *Manager) Listeners(ctx context.Context, m mood.Mood) ([]string, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s", mood.ErrUnknownMood, m)
	}
	return pm.redis.SMembers(ctx, roomKey(m))
}

func (pm *Manager) publishEvent(ctx context.Context, m mood.Mood, eventType, userID, username string) error {
	members, err := pm.redis.SMembers(ctx, roomKey(m))
	if err != nil {
		members = nil
	}

	event := Event{
		Type:      eventType,
		Mood:      string(m),
		UserID:    userID,
		Username:  username,
		Listeners: int64(len(members)),
		Timestamp: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding presence event: %w", err)
	}

	if err := pm.redis.Publish(ctx, roomChannel(m), payload); err != nil {
		return fmt.Errorf("publishing presence event: %w", err)
	}

	return nil
}

// Subscribe streams room events for a mood until ctx is cancelled. Events
// are delivered on the returned channel, which closes when the
// subscription ends.
func (pm *Manager) Subscribe(ctx context.Context, m mood.Mood) (<-chan Event, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("%w: %s", mood.ErrUnknownMood, m)
	}

	sub := pm.redis.Subscribe(ctx, roomChannel(m))
	events := make(chan Event, 16)

	go func() {
		defer close(events)
		defer sub.Close()

		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Log.Warn("dropping malformed presence event",
						zap.String("mood", string(m)),
						zap.Error(err),
					)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
