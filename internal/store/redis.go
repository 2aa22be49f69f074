package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisStore keeps the key-value store in Redis so several client processes
// can share one cache. It satisfies the same Store contract as the file and
// memory stores.
type RedisStore struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.WithField("addr", addr).Debug("connected to Redis store")

	return &RedisStore{client: rdb, ctx: ctx}, nil
}

func (r *RedisStore) Get(key string) (string, bool) {
	val, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.WithError(err).WithField("key", key).Warn("redis read failed")
		}
		return "", false
	}
	return val, true
}

func (r *RedisStore) Set(key, value string) error {
	return r.client.Set(r.ctx, key, value, 0).Err()
}

func (r *RedisStore) Delete(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// Close closes the Redis connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
