package snapshot

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// DefaultCacheSize bounds the bytes a Cache keeps by default.
const DefaultCacheSize = 32 << 20

// Stats tracks cache performance
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

type cacheEntry struct {
	key  string
	data []byte
}

// Cache is an in-memory LRU store for rendered pictures, bounded by total
// size in bytes.
type Cache struct {
	mu      sync.Mutex
	maxSize int64
	order   *list.List
	entries map[string]*list.Element
	stats   Stats
}

// NewCache creates a cache holding at most maxSize bytes. Non-positive sizes
// use DefaultCacheSize.
func NewCache(maxSize int64) *Cache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &Cache{
		maxSize: maxSize,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Key derives a cache key from inputs.
func Key(inputs ...string) string {
	h := sha256.New()
	for _, in := range inputs {
		h.Write([]byte(in))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get retrieves a cached picture and marks it recently used.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	c.order.MoveToFront(el)
	c.stats.Hits++
	return el.Value.(*cacheEntry).data, true
}

// Put stores data under key, evicting least recently used entries to make
// room. Data larger than the cache is not stored.
func (c *Cache) Put(key string, data []byte) {
	size := int64(len(data))
	c.mu.Lock()
	defer c.mu.Unlock()
	if size > c.maxSize {
		return
	}
	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	for c.stats.TotalSize+size > c.maxSize {
		c.remove(c.order.Back())
		c.stats.Evictions++
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, data: data})
	c.stats.TotalSize += size
	c.stats.EntryCount = len(c.entries)
}

// Clear removes all entries and resets statistics.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	clear(c.entries)
	c.stats = Stats{}
}

// Stats returns a copy of the cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

func (c *Cache) remove(el *list.Element) {
	e := c.order.Remove(el).(*cacheEntry)
	delete(c.entries, e.key)
	c.stats.TotalSize -= int64(len(e.data))
	c.stats.EntryCount = len(c.entries)
}
