package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/tui-2048/internal/t2048"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore keeps save slots as JSON values under "<prefix>save:<slot>".
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: failed to connect to Redis: %w", err)
	}

	return NewRedisStoreFromClient(client, opts.KeyPrefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Slot returns the named save slot.
func (r *RedisStore) Slot(name string) *RedisSlot {
	return &RedisSlot{client: r.client, key: r.prefix + "save:" + name}
}

// RedisSlot is one saved game in Redis. It implements t2048.RecordStore.
type RedisSlot struct {
	client *redis.Client
	key    string
}

var _ t2048.RecordStore = (*RedisSlot)(nil)

// Key returns the Redis key holding the slot.
func (s *RedisSlot) Key() string { return s.key }

// Put replaces the slot contents.
func (s *RedisSlot) Put(ctx context.Context, rec t2048.SaveRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("storage: could not marshal record: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage: failed to set %s: %w", s.key, err)
	}
	return nil
}

// Get reads the slot contents.
func (s *RedisSlot) Get(ctx context.Context) (t2048.SaveRecord, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return t2048.SaveRecord{}, fmt.Errorf("storage: %s: %w", s.key, t2048.ErrNoSavedGame)
	}
	if err != nil {
		return t2048.SaveRecord{}, fmt.Errorf("storage: failed to get %s: %w", s.key, err)
	}

	var rec t2048.SaveRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return t2048.SaveRecord{}, fmt.Errorf("storage: %s: %w: %v", s.key, t2048.ErrMalformedRecord, err)
	}
	return rec, nil
}

// Delete removes the slot.
func (s *RedisSlot) Delete(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("storage: failed to delete %s: %w", s.key, err)
	}
	return nil
}
