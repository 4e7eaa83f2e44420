package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"expedia_inspired/internal/adapters/observability"
)

const scanBatch = 200

// Cache stores JSON values under a namespace so detail entries of one
// deployment never collide with another sharing the same redis.
type Cache struct {
	c  *redis.Client
	ns string
}

func New(addr, pass string, db int) *Cache {
	return NewFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), "expedia:")
}

func NewFromClient(c *redis.Client, namespace string) *Cache {
	return &Cache{c: c, ns: namespace}
}

func (r *Cache) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Cache) Close() error { return r.c.Close() }

func (r *Cache) key(k string) string { return r.ns + k }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	v, err := r.c.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, r.key(key), b, time.Duration(ttlSec)*time.Second).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, r.key(key)).Err()
}

// DelPrefix removes every key starting with prefix and reports how many were
// deleted. SCAN keeps the server responsive on large keyspaces.
func (r *Cache) DelPrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := r.c.Scan(ctx, cursor, r.key(prefix)+"*", scanBatch).Result()
		if err != nil {
			return total, err
		}
		if len(keys) > 0 {
			n, err := r.c.Del(ctx, keys...).Result()
			if err != nil {
				return total, err
			}
			total += int(n)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	observability.ObserveCache("redis", "del")
	return total, nil
}
