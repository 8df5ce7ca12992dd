package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Broadcaster publishes messages on Redis pub/sub channels. PUBLISH gives no
// delivery guarantee: a subscriber that is not connected at publish time
// simply misses the message, which is the accepted trade-off here.
type Broadcaster struct {
	client *redis.Client
}

// NewBroadcaster wraps the given Redis client.
func NewBroadcaster(client *redis.Client) *Broadcaster {
	return &Broadcaster{client: client}
}

// Send broadcasts payload on channel and returns the number of subscribers
// that received it, as reported by Redis.
func (b *Broadcaster) Send(ctx context.Context, channel string, payload []byte) (int64, error) {
	n, err := b.client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return 0, fmt.Errorf("redis publish: %w", err)
	}
	return n, nil
}
