package translator

import "sync"

// cacheKey builds the volatile-cache key for a (text, lang) pair.
func cacheKey(lang, text string) string {
	return lang + ":" + text
}

// MemoryCache is the process-lifetime L1 cache. Entries are never
// evicted individually; only Clear drops them, and only successful
// translations are ever written.
type MemoryCache struct {
	mu    sync.RWMutex
	cache map[string]string
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{cache: make(map[string]string)}
}

// Get returns the cached translation for key, if any. O(1), no I/O.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.cache[key]
	return v, ok
}

// Set stores a translation. Last successful write wins.
func (c *MemoryCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = value
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// Clear drops every entry. Durable data is untouched.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]string)
}
