package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/cricbase/internal/store"
)

// Stream names
const (
	StreamLiveMatches = "cricket.matches.live"
	StreamDeliveries  = "cricket.deliveries"
)

// RedisStreamPublisher publishes events to Redis streams
type RedisStreamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewRedisStreamPublisher creates a new Redis stream publisher from existing client
func NewRedisStreamPublisher(client *redis.Client) *RedisStreamPublisher {
	return &RedisStreamPublisher{
		client: client,
		maxLen: 10000,
	}
}

// PublishMatchUpdate publishes a live match snapshot
func (rsp *RedisStreamPublisher) PublishMatchUpdate(ctx context.Context, m *store.Match) error {
	return rsp.publish(ctx, StreamLiveMatches, "match_id", m.ID, m)
}

// PublishDelivery publishes a newly seen delivery
func (rsp *RedisStreamPublisher) PublishDelivery(ctx context.Context, d *store.Delivery) error {
	return rsp.publish(ctx, StreamDeliveries, "match_id", d.MatchID, d)
}

func (rsp *RedisStreamPublisher) publish(ctx context.Context, stream, keyField, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return rsp.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		MaxLen: rsp.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			keyField:    key,
			"data":      string(data),
			"timestamp": time.Now().Unix(),
		},
	}).Err()
}
