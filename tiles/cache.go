package tiles

import (
	"sync"

	"gioui.org/op/paint"
)

// Cache stores prepared image ops so a tile is uploaded to the GPU once.
type Cache interface {
	Get(key string) (paint.ImageOp, bool)
	Set(key string, value paint.ImageOp)
	Len() int
	Clear()
}

// MemoryCache is a bounded in-memory Cache. When full, the oldest entry is evicted.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]paint.ImageOp
	order   []string
	limit   int
}

// NewMemoryCache returns a cache holding at most limit entries; limit <= 0 means unbounded.
func NewMemoryCache(limit int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]paint.ImageOp),
		limit:   limit,
	}
}

func (c *MemoryCache) Get(key string) (paint.ImageOp, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	val, ok := c.entries[key]
	return val, ok
}

func (c *MemoryCache) Set(key string, value paint.ImageOp) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = value
	for c.limit > 0 && len(c.order) > c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *MemoryCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]paint.ImageOp)
	c.order = nil
	c.mu.Unlock()
}
