package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"telecare/models"
)

// Channel is the Redis pub/sub channel the external fan-out layer subscribes
// to. The core publishes semantic events here and owns nothing downstream.
const Channel = "telecare:events"

/// Publisher broadcasts semantic events. Publishing is best-effort: a failed
// publish is logged, never propagated, since no invariant depends on it.
type Publisher interface {
	Publish(ctx context.Context, name string, payload interface{})
}

// RedisPublisher publishes events over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, name string, payload interface{}) {
	evt := models.Event{
		Name:       name,
		OccurredAt: time.Now(),
		Payload:    payload,
	}
	data, err := json.Marshal(evt)
	if err != nil {
		p.logger.Error("failed to marshal event", zap.String("event", name), zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := p.client.Publish(ctx, Channel, data).Err(); err != nil {
		p.logger.Warn("failed to publish event", zap.String("event", name), zap.Error(err))
	}
}

// MemoryPublisher records events in memory; used by tests.
type MemoryPublisher struct {
	mu     sync.Mutex
	Events []models.Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Publish(_ context.Context, name string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, models.Event{Name: name, OccurredAt: time.Now(), Payload: payload})
}

// Names returns the published event names in order.
func (p *MemoryPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.Events))
	for i, e := range p.Events {
		names[i] = e.Name
	}
	return names
}
