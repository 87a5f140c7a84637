package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// kv is the slice of Redis the publisher needs.
type kv interface {
	setJSON(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	replaceList(ctx context.Context, key string, members []string, ttl time.Duration) error
	ping(ctx context.Context) error
	close() error
}

type redisKV struct {
	client *redis.Client
}

// dial parses a redis:// URL and returns a client-backed store.
func dial(url string) (*redisKV, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &redisKV{client: redis.NewClient(opts)}, nil
}

func (r *redisKV) setJSON(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return r.client.Set(ctx, key, payload, ttl).Err()
}

func (r *redisKV) replaceList(ctx context.Context, key string, members []string, ttl time.Duration) error {
	values := make([]interface{}, len(members))
	for i, m := range members {
		values[i] = m
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(values) > 0 {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisKV) ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisKV) close() error {
	return r.client.Close()
}
