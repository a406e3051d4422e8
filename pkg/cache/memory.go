package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	done    chan struct{}
	closed  sync.Once
}

// NewMemory returns an in-process Cache used when no redis instance is
// configured, and in tests. Expired entries are rejected on read; a janitor
// sweeps them out on checkPeriod so abandoned keys don't accumulate.
func NewMemory(checkPeriod time.Duration) Cache {
	c := &memoryCache{
		entries: make(map[string]memoryEntry),
		done:    make(chan struct{}),
	}

	if checkPeriod > 0 {
		go c.janitor(checkPeriod)
	}

	return c
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.payload, true, nil
}

func (c *memoryCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{
		payload:   payload,
		expiresAt: time.Now().Add(ttl),
	}
	c.mu.Unlock()
	return nil
}

func (c *memoryCache) Close() error {
	c.closed.Do(func() { close(c.done) })
	return nil
}

func (c *memoryCache) janitor(checkPeriod time.Duration) {
	ticker := time.NewTicker(checkPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case now := <-ticker.C:
			c.mu.Lock()
			for key, entry := range c.entries {
				if now.After(entry.expiresAt) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
