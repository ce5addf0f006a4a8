package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachable() *RedisCache {
	return NewFromClient(redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	}))
}

func TestMatchListKey(t *testing.T) {
	assert.Equal(t, "cricket:matches:all:0", MatchListKey("", 0))
	assert.Equal(t, "cricket:matches:live:25", MatchListKey("live", 25))
}

func TestNewRedisCacheRejectsBadURL(t *testing.T) {
	_, err := NewRedisCache("not-a-url")
	assert.Error(t, err)
}

func TestUnreachableRedisReturnsErrors(t *testing.T) {
	c := unreachable()
	defer c.Close()
	ctx := context.Background()

	var dst []string
	found, err := c.GetJSON(ctx, "k", &dst)
	assert.Error(t, err)
	assert.False(t, found)

	assert.Error(t, c.SetJSON(ctx, "k", []string{"a"}, time.Second))
	assert.Error(t, c.HealthCheck(ctx))
}

func TestSetJSONRejectsUnencodableValues(t *testing.T) {
	c := unreachable()
	defer c.Close()

	err := c.SetJSON(context.Background(), "k", make(chan int), time.Second)
	assert.ErrorContains(t, err, "encoding k")
}
