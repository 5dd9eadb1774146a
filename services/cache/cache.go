package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"github.com/dotnetIka/histqa/models"
)

// cacheEntry represents a single cache entry with TTL
type cacheEntry struct {
	key        string
	result     models.AnswerResult
	insertedAt time.Time
	element    *list.Element // For LRU tracking
}

// isExpired checks if the cache entry has expired
func (e *cacheEntry) isExpired(ttl time.Duration) bool {
	return time.Since(e.insertedAt) > ttl
}

// AnswerCache is an in-memory LRU cache with TTL for answered questions.
// Keys are case-folded question text, so lookups are case-insensitive.
// Eviction is deterministic: when the cache is at capacity and a new key
// arrives, the least-recently-used entry is removed; a read refreshes
// recency. Expired entries are treated as absent and removed lazily on
// read. Thread-safe; state lives only for the process lifetime.
type AnswerCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	lruList *list.List // Doubly linked list for LRU tracking
	maxSize int
	ttl     time.Duration
	hits    uint64
	misses  uint64
}

// New creates an AnswerCache with the given maximum entry count and TTL.
func New(maxSize int, ttl time.Duration) *AnswerCache {
	return &AnswerCache{
		entries: make(map[string]*cacheEntry),
		lruList: list.New(),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// NormalizeKey maps a question to its cache key: surrounding whitespace
// trimmed, letters case-folded.
func NormalizeKey(question string) string {
	return strings.ToLower(strings.TrimSpace(question))
}

// Get returns the cached result for a question, if present and not expired.
func (c *AnswerCache) Get(question string) (models.AnswerResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := NormalizeKey(question)
	entry, exists := c.entries[key]

	if !exists || entry.isExpired(c.ttl) {
		c.misses++
		if exists {
			c.removeEntry(key)
		}
		return models.AnswerResult{}, false
	}

	// Move to front (most recently used)
	c.lruList.MoveToFront(entry.element)
	c.hits++

	return entry.result, true
}

// Put stores a result under the normalized question key, overwriting any
// existing entry. When at capacity and the key is new, exactly one
// least-recently-used entry is evicted first.
func (c *AnswerCache) Put(question string, result models.AnswerResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := NormalizeKey(question)

	if entry, exists := c.entries[key]; exists {
		entry.result = result
		entry.insertedAt = time.Now()
		c.lruList.MoveToFront(entry.element)
		return
	}

	if c.lruList.Len() >= c.maxSize {
		c.evictLRU()
	}

	entry := &cacheEntry{
		key:        key,
		result:     result,
		insertedAt: time.Now(),
	}
	entry.element = c.lruList.PushFront(key)
	c.entries[key] = entry
}

// Clear removes all entries from the cache
func (c *AnswerCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lruList.Init()
}

// Stats returns cache statistics
func (c *AnswerCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:    c.lruList.Len(),
		MaxSize: c.maxSize,
		Hits:    c.hits,
		Misses:  c.misses,
		HitRate: c.calculateHitRate(),
	}
}

// Stats represents cache statistics
type Stats struct {
	Size    int     `json:"size"`
	MaxSize int     `json:"max_size"`
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// calculateHitRate calculates the cache hit rate
func (c *AnswerCache) calculateHitRate() float64 {
	total := c.hits + c.misses
	if total == 0 {
		return 0
	}
	return float64(c.hits) / float64(total)
}

// removeEntry removes an entry from the cache (must be called with lock held)
func (c *AnswerCache) removeEntry(key string) {
	if entry, exists := c.entries[key]; exists {
		c.lruList.Remove(entry.element)
		delete(c.entries, key)
	}
}

// evictLRU evicts the least recently used entry (must be called with lock held)
func (c *AnswerCache) evictLRU() {
	backElement := c.lruList.Back()
	if backElement != nil {
		key := backElement.Value.(string)
		c.lruList.Remove(backElement)
		delete(c.entries, key)
	}
}

// CleanupExpired removes all expired entries and returns how many were removed.
func (c *AnswerCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiredKeys := make([]string, 0)
	for key, entry := range c.entries {
		if entry.isExpired(c.ttl) {
			expiredKeys = append(expiredKeys, key)
		}
	}
	for _, key := range expiredKeys {
		c.removeEntry(key)
	}
	return len(expiredKeys)
}

// StartCleanupWorker periodically removes expired entries until stopCh closes.
func (c *AnswerCache) StartCleanupWorker(interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupExpired()
		case <-stopCh:
			return
		}
	}
}
