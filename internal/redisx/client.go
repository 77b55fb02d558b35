package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

func New(addr string) *redis.Client {
	r := redis.NewClient(&redis.Options{Addr: addr})
	return r.WithTimeout(2 * time.Second)
}

func Exists(ctx context.Context, rdb *redis.Client, key string) (bool, error) {
	n, err := rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// Cache is the thin get/set view the HTTP handlers use. All caching in the
// bridge is best effort; callers ignore errors.
type Cache struct{ R *redis.Client }

func (c Cache) Get(ctx context.Context, key string) (string, error) {
	return c.R.Get(ctx, key).Result()
}

func (c Cache) Set(ctx context.Context, key, val string, ttl time.Duration) error {
	return c.R.Set(ctx, key, val, ttl).Err()
}

// Dedup marks event ids as processed per consuming service.
type Dedup struct {
	R       *redis.Client
	Service string
}

// SeenAndMark reports whether the event was already processed and marks it
// either way. Redis failures count as unseen, so events are reprocessed
// rather than dropped.
func (d Dedup) SeenAndMark(ctx context.Context, eventID string) bool {
	key := fmt.Sprintf(KeyDedup, d.Service, eventID)
	seen, err := Exists(ctx, d.R, key)
	if err != nil {
		return false
	}
	if seen {
		return true
	}
	_ = d.R.Set(ctx, key, "1", TTLDedup).Err()
	return false
}
