package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// BytesCache is a minimal cache API storing raw bytes with TTL.
type BytesCache interface {
	GetBytes(ctx context.Context, key string) (b []byte, ok bool, err error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Key builds a namespaced cache key such as "yahoo:chart:AAPL:5y".
func Key(parts ...string) string {
	return strings.Join(parts, ":")
}

// New picks a backend by name: none, memory, redis, or layered (memory in
// front of redis). "none" returns a nil cache.
func New(backend string, redisCfg RedisConfig) (BytesCache, error) {
	switch backend {
	case "", "none":
		return nil, nil
	case "memory":
		return NewTTLCache(), nil
	case "redis":
		return NewRedisCache(redisCfg), nil
	case "layered":
		return NewLayered(NewRedisCache(redisCfg), time.Minute), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
