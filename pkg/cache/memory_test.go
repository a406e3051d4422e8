package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetThenGet(t *testing.T) {
	c := NewMemory(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", []byte("snapshot"), time.Minute))

	payload, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("snapshot"), payload)
}

func TestMemoryCacheMissAfterExpiry(t *testing.T) {
	c := NewMemory(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", []byte("snapshot"), 30*time.Millisecond))

	_, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok, err = c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheUnknownKeyMisses(t *testing.T) {
	c := NewMemory(0)
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryCacheSetReplacesEntry(t *testing.T) {
	c := NewMemory(0)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", []byte("old"), 10*time.Millisecond))
	require.NoError(t, c.Set(ctx, "u1", []byte("new"), time.Minute))

	time.Sleep(20 * time.Millisecond)

	payload, ok, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), payload)
}

func TestMemoryCacheJanitorSweepsExpired(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u1", []byte("snapshot"), 5*time.Millisecond))

	time.Sleep(40 * time.Millisecond)

	mc := c.(*memoryCache)
	mc.mu.RLock()
	_, present := mc.entries["u1"]
	mc.mu.RUnlock()
	assert.False(t, present)
}
