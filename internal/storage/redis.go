package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/cartcalc/internal/port"
	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "cart:snapshot:"

var _ port.SnapshotStorage = (*Redis)(nil)

// Redis stores snapshots as plain string values. Every save refreshes the TTL,
// a zero TTL keeps keys forever.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedis(client redis.UniversalClient, ttl time.Duration) (*Redis, error) {
	if client == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("ttl[%s] is negative", ttl)
	}

	return &Redis{
		client: client,
		prefix: defaultKeyPrefix,
		ttl:    ttl,
	}, nil
}

func (r *Redis) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	payload, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, port.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return payload, nil
}

func (r *Redis) Save(ctx context.Context, key string, payload []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Set(ctx, r.prefix+key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("client.Del: %w", err)
	}

	return nil
}
