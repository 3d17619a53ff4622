package cache

import (
	"container/heap"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/fredcamaral/inkpost/internal/domain/entities"
	"github.com/fredcamaral/inkpost/internal/domain/ports"
)

// DefaultMaxBytes is the render cache budget when none is given
const DefaultMaxBytes = 16 << 20

// RenderCache memoises a MarkdownRenderer. Entries are keyed by a hash of
// the markdown, so an edited post simply misses and the stale entry ages out
// of the LRU.
type RenderCache struct {
	next  ports.MarkdownRenderer
	clock ports.TimeProvider

	mu       sync.Mutex
	entries  map[string]*cacheEntry
	lru      lruHeap
	maxBytes int64
	bytes    int64
	stats    entities.CacheStats
}

type cacheEntry struct {
	html string
	size int64
	heap *heapEntry
}

// NewRenderCache wraps next with an LRU cache of at most maxBytes of HTML
func NewRenderCache(next ports.MarkdownRenderer, maxBytes int64, clock ports.TimeProvider) *RenderCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if clock == nil {
		clock = ports.NewRealTimeProvider()
	}
	c := &RenderCache{
		next:     next,
		clock:    clock,
		entries:  make(map[string]*cacheEntry),
		maxBytes: maxBytes,
	}
	heap.Init(&c.lru)
	return c
}

// Render returns cached HTML for markdown, rendering it on a miss
func (c *RenderCache) Render(ctx context.Context, markdown string) (string, error) {
	key := cacheKey(markdown)

	if html, ok := c.get(key); ok {
		return html, nil
	}

	html, err := c.next.Render(ctx, markdown)
	if err != nil {
		return "", err
	}

	c.set(key, html)
	return html, nil
}

func (c *RenderCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return "", false
	}

	c.stats.Hits++
	entry.heap.lastAccess = c.clock.Now()
	heap.Fix(&c.lru, entry.heap.index)
	return entry.html, true
}

func (c *RenderCache) set(key, html string) {
	size := int64(len(key) + len(html))
	if size > c.maxBytes {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// a concurrent miss may have stored it already
	if _, ok := c.entries[key]; ok {
		return
	}

	for c.bytes+size > c.maxBytes && c.lru.Len() > 0 {
		oldest := heap.Pop(&c.lru).(*heapEntry)
		if evicted, ok := c.entries[oldest.key]; ok {
			delete(c.entries, oldest.key)
			c.bytes -= evicted.size
			c.stats.Evictions++
		}
	}

	he := &heapEntry{key: key, lastAccess: c.clock.Now()}
	heap.Push(&c.lru, he)
	c.entries[key] = &cacheEntry{html: html, size: size, heap: he}
	c.bytes += size
}

// Clear drops every entry; counters are kept
func (c *RenderCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lru = c.lru[:0]
	c.bytes = 0
}

// Stats returns cache statistics
func (c *RenderCache) Stats() entities.CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Entries = len(c.entries)
	stats.Bytes = c.bytes
	stats.MaxBytes = c.maxBytes
	if total := stats.Hits + stats.Misses; total > 0 {
		stats.HitRate = float64(stats.Hits) / float64(total)
	}
	return stats
}

func cacheKey(markdown string) string {
	sum := sha256.Sum256([]byte(markdown))
	return hex.EncodeToString(sum[:])
}

var (
	_ ports.MarkdownRenderer   = (*RenderCache)(nil)
	_ ports.CacheStatsProvider = (*RenderCache)(nil)
)
