package progress

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/nasimstg/skilltree/pkg/tree"
)

// RedisStore keeps completion sets in Redis, one JSON value per
// (user, tree) key. Used by the hosted API where multiple instances share
// progress state.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func progressKey(user, treeID string) string {
	return fmt.Sprintf("progress:%s:%s", user, treeID)
}

// Get returns the stored completion set, or an empty set if none exists.
func (s *RedisStore) Get(ctx context.Context, user, treeID string) (tree.Set, error) {
	raw, err := s.client.Get(ctx, progressKey(user, treeID)).Result()
	if err == redis.Nil {
		return tree.NewSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("parsing completed list: %w", err)
	}
	return tree.NewSet(ids...), nil
}

// Upsert replaces the stored completion set. Last write wins; two
// overlapping writes converge to whichever lands last.
func (s *RedisStore) Upsert(ctx context.Context, user, treeID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshaling completed list: %w", err)
	}
	if err := s.client.Set(ctx, progressKey(user, treeID), raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
