package cache

import (
	"context"
	"time"
)

// Layered puts an in-process TTLCache (L1) in front of a shared cache (L2).
// Writes go through to L2 first; L2 hits are copied into L1 for at most l1TTL.
type Layered struct {
	l1    *TTLCache
	l2    BytesCache
	l1TTL time.Duration
}

func NewLayered(l2 BytesCache, l1TTL time.Duration) *Layered {
	if l1TTL <= 0 {
		l1TTL = time.Minute
	}
	return &Layered{l1: NewTTLCache(), l2: l2, l1TTL: l1TTL}
}

func (lc *Layered) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if b, ok, _ := lc.l1.GetBytes(ctx, key); ok {
		return b, true, nil
	}
	b, ok, err := lc.l2.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = lc.l1.SetBytes(ctx, key, b, lc.l1TTL)
	return b, true, nil
}

func (lc *Layered) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := lc.l2.SetBytes(ctx, key, value, ttl); err != nil {
		return err
	}
	l1 := lc.l1TTL
	if ttl > 0 && ttl < l1 {
		l1 = ttl
	}
	return lc.l1.SetBytes(ctx, key, value, l1)
}

// Close closes L2 when it holds a connection.
func (lc *Layered) Close() error {
	if c, ok := lc.l2.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
