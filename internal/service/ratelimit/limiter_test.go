package ratelimit

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock(l *Limiter, t0 time.Time) *time.Time {
	cur := t0
	l.now = func() time.Time { return cur }
	return &cur
}

func TestAllowBurstThenRefill(t *testing.T) {
	l := New(2, 1)
	clock := fixedClock(l, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	*clock = clock.Add(time.Second)
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, 0.01)
	fixedClock(l, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))
}

func TestIdleBucketsAreSwept(t *testing.T) {
	l := New(1, 1)
	clock := fixedClock(l, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))

	for i := 0; i <= 1024; i++ {
		l.Allow("ip-" + strconv.Itoa(i))
	}
	assert.Equal(t, 1025, l.Len())

	*clock = clock.Add(2 * time.Minute)
	l.Allow("fresh")
	assert.Equal(t, 1, l.Len())
}
