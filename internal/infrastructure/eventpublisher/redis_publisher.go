package eventpublisher

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/olviko/shiftledger/internal/domain"
)

// RedisPublisher publishes outbox events to a Redis pub/sub channel. The
// chat frontend subscribes to it to render posting confirmations.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = "ledger.events"
	}
	return &RedisPublisher{client: client, channel: channel}
}

// Publish sends the event to the channel as a JSON envelope.
func (p *RedisPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	envelope := map[string]any{
		"id":             event.ID,
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID,
		"payload":        event.Payload,
		"created_at":     event.CreatedAt,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, p.channel, data).Err()
}
