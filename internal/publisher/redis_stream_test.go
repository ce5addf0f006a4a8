package publisher

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/fortuna/cricbase/internal/store"
)

func TestPublishReportsUnreachableRedis(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	p := NewRedisStreamPublisher(client)

	assert.Error(t, p.PublishMatchUpdate(context.Background(), &store.Match{ID: "78412"}))
	assert.Error(t, p.PublishDelivery(context.Background(), &store.Delivery{ID: "78412_1", MatchID: "78412"}))
}
