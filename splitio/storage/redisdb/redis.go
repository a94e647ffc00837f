package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/splitio/go-sdk-runtime/splitio/conf"
)

// Client is the subset of redis commands used by the shared queues
type Client interface {
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SPopN(ctx context.Context, key string, count int64) *redis.StringSliceCmd
	SCard(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// NewClient returns a connected redis client
func NewClient(ctx context.Context, config conf.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:      fmt.Sprintf("%s:%d", config.Host, config.Port),
		Username:  config.Username,
		Password:  config.Password,
		DB:        config.Database,
		TLSConfig: config.TLSConfig,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to redis at %s:%d: %w", config.Host, config.Port, err)
	}
	return client, nil
}

var _ Client = (*redis.Client)(nil)
