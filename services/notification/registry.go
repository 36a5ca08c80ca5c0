package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionRegistry tracks which providers currently hold a live session. It is
// an explicit component with TTL eviction rather than ambient module state;
// everything that needs it takes it by handle.
type SessionRegistry interface {
	// Connect records a live session for the provider, refreshing the TTL.
	Connect(ctx context.Context, providerID, sessionID string) error
	// Disconnect drops the provider's session if it matches sessionID.
	Disconnect(ctx context.Context, providerID, sessionID string) error
	// Lookup returns the provider's live session id, or "" when offline.
	Lookup(ctx context.Context, providerID string) (string, error)
}

// sessionTTL bounds how long a session entry survives without a refresh; the
// transport is expected to re-Connect on heartbeat.
const sessionTTL = 5 * time.Minute

// RedisSessionRegistry is the production SessionRegistry.
type RedisSessionRegistry struct {
	client *redis.Client
}

func NewRedisSessionRegistry(client *redis.Client) *RedisSessionRegistry {
	return &RedisSessionRegistry{client: client}
}

func sessionKey(providerID string) string {
	return fmt.Sprintf("provider-session:%s", providerID)
}

func (r *RedisSessionRegistry) Connect(ctx context.Context, providerID, sessionID string) error {
	return r.client.Set(ctx, sessionKey(providerID), sessionID, sessionTTL).Err()
}

func (r *RedisSessionRegistry) Disconnect(ctx context.Context, providerID, sessionID string) error {
	current, err := r.client.Get(ctx, sessionKey(providerID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	// Only the owning session may disconnect; a newer session wins.
	if current != sessionID {
		return nil
	}
	return r.client.Del(ctx, sessionKey(providerID)).Err()
}

func (r *RedisSessionRegistry) Lookup(ctx context.Context, providerID string) (string, error) {
	sessionID, err := r.client.Get(ctx, sessionKey(providerID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return sessionID, nil
}
