package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores the blob as a plain string value
type RedisSlot struct {
	client *redis.Client
}

// NewRedisSlot wraps an existing client. The slot owns the client from now on.
func NewRedisSlot(client *redis.Client) *RedisSlot {
	return &RedisSlot{client: client}
}

// DialRedis connects and pings before returning the slot
func DialRedis(ctx context.Context, addr, password string, db int) (*RedisSlot, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return NewRedisSlot(client), nil
}

func (s *RedisSlot) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot %q: %w", key, err)
	}
	return data, nil
}

func (s *RedisSlot) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set slot %q: %w", key, err)
	}
	return nil
}

func (s *RedisSlot) Close() error {
	return s.client.Close()
}
