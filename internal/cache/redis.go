package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doronrpa-hub/rpa-port-platform-sub003/internal/common"
)

// RedisStore is a KVStore backed by redis, for deployments where several
// workers share one verification cache. Keys are "namespace:key". Documents
// carry their own timestamps, so no redis-side expiry is set; staleness
// stays a read-time decision.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to redis at addr and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

// Get returns the stored document or common.ErrKeyNotFound.
func (s *RedisStore) Get(ctx context.Context, namespace, key string) (json.RawMessage, error) {
	raw, err := s.client.Get(ctx, namespace+":"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrKeyNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return raw, nil
}

// Set stores a document, overwriting any existing one.
func (s *RedisStore) Set(ctx context.Context, namespace, key string, doc json.RawMessage) error {
	if err := s.client.Set(ctx, namespace+":"+key, []byte(doc), 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
