package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON attempts to get the key from Redis and unmarshal into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func GetJSON(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	s, err := rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// AddJSON marshals v and sets the key with TTL unless it already exists. It
// reports whether the value was written.
func AddJSON(ctx context.Context, rdb *redis.Client, key string, v any, ttl time.Duration) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, b, ttl).Result()
}

// Aside tries Redis first; on a miss (or a Redis failure) it calls fetch, which
// must populate dest, then stores the result with ttl. The returned bool is
// true when dest came from the cache.
//
// The store never overwrites: a key written while fetch ran (a Tombstone for
// instance) wins over what fetch read.
func Aside(ctx context.Context, rdb *redis.Client, key string, dest any, ttl time.Duration, fetch func() error) (bool, error) {
	found, err := GetJSON(ctx, rdb, key, dest)
	if err == nil && found {
		return true, nil
	}

	if err := fetch(); err != nil {
		return false, err
	}

	// Best-effort; the source of truth is the database.
	_, _ = AddJSON(ctx, rdb, key, dest, ttl)
	return false, nil
}

// Invalidate removes the given keys.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}

// Tombstone overwrites each key with marker for ttl. Readers going through
// Aside see the marker instead of refilling the key from a read that raced the
// delete. ttl must outlast the slowest fetch.
func Tombstone(ctx context.Context, rdb *redis.Client, marker any, ttl time.Duration, keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	b, err := json.Marshal(marker)
	if err != nil {
		return err
	}
	_, err = rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range keys {
			pipe.Set(ctx, k, b, ttl)
		}
		return nil
	})
	return err
}
