package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "billsplitr:balances:"
	generationPrefix = "billsplitr:generation:"
)

// Redis is a Cache backed by one Redis hash per group. Generations live in
// separate counters without expiry so they survive the hash.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Cache = (*Redis)(nil)

// NewRedis connects to the Redis server at url (redis://host:port/db) and
// verifies it with a PING.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return NewRedisClient(ctx, redis.NewClient(opts), ttl)
}

// NewRedisClient wraps an existing client.
func NewRedisClient(ctx context.Context, client *redis.Client, ttl time.Duration) (*Redis, error) {
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func key(groupID string) string {
	return keyPrefix + groupID
}

func generationKey(groupID string) string {
	return generationPrefix + groupID
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, g getter, groupID string) (uint64, error) {
	gen, err := g.Get(ctx, generationKey(groupID)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

func (r *Redis) Generation(ctx context.Context, groupID string) (uint64, error) {
	return readGeneration(ctx, r.client, groupID)
}

func (r *Redis) Get(ctx context.Context, groupID, field string) ([]byte, bool, error) {
	value, err := r.client.HGet(ctx, key(groupID), field).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget: %w", err)
	}
	return value, true, nil
}

// Set watches the generation counter, so an Invalidate that lands between
// the check and the write aborts the transaction.
func (r *Redis) Set(ctx context.Context, groupID, field string, gen uint64, value []byte) (bool, error) {
	k := key(groupID)
	stored := false
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if current != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, k, field, value)
			pipe.Expire(ctx, k, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, generationKey(groupID))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis hset: %w", err)
	}
	return stored, nil
}

func (r *Redis) Invalidate(ctx context.Context, groupID string) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key(groupID))
		pipe.Incr(ctx, generationKey(groupID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
