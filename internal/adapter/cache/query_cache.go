// Package cache memoizes web search responses in process.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"
	"time"

	"research/internal/domain"
	"research/internal/port"
)

// SearchCache is a size-bounded LRU of search results with a TTL.
type SearchCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	order   []string
	maxSize int
	ttl     time.Duration
	now     func() time.Time

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	results   []domain.SearchResult
	timestamp time.Time
}

func NewSearchCache(maxSize int, ttl time.Duration) *SearchCache {
	if maxSize <= 0 {
		maxSize = 100
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SearchCache{
		entries: make(map[string]*cacheEntry),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func cacheKey(query string, num int) string {
	hash := sha256.Sum256([]byte(strconv.Itoa(num) + "\x00" + query))
	return hex.EncodeToString(hash[:16])
}

// Get returns a copy of the cached results for (query, num).
func (c *SearchCache) Get(query string, num int) ([]domain.SearchResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, num)
	entry, exists := c.entries[key]
	if !exists {
		c.misses++
		return nil, false
	}

	if c.now().Sub(entry.timestamp) > c.ttl {
		delete(c.entries, key)
		c.removeFromOrder(key)
		c.misses++
		return nil, false
	}

	c.moveToEnd(key)
	c.hits++
	return cloneResults(entry.results), true
}

func (c *SearchCache) Put(query string, num int, results []domain.SearchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(query, num)
	entry := &cacheEntry{results: cloneResults(results), timestamp: c.now()}

	if _, exists := c.entries[key]; exists {
		c.entries[key] = entry
		c.moveToEnd(key)
		return
	}

	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry
	c.order = append(c.order, key)
}

func (c *SearchCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns the hit and miss counters.
func (c *SearchCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

func (c *SearchCache) evictOldest() {
	if len(c.order) == 0 {
		return
	}
	oldest := c.order[0]
	c.order = c.order[1:]
	delete(c.entries, oldest)
}

func (c *SearchCache) moveToEnd(key string) {
	c.removeFromOrder(key)
	c.order = append(c.order, key)
}

func (c *SearchCache) removeFromOrder(key string) {
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

func cloneResults(in []domain.SearchResult) []domain.SearchResult {
	if in == nil {
		return nil
	}
	out := make([]domain.SearchResult, len(in))
	copy(out, in)
	return out
}

// CachedSearcher serves repeated queries from a SearchCache. Errors are
// never cached.
type CachedSearcher struct {
	searcher port.Searcher
	cache    *SearchCache
}

func NewCachedSearcher(searcher port.Searcher, cache *SearchCache) *CachedSearcher {
	return &CachedSearcher{
		searcher: searcher,
		cache:    cache,
	}
}

func (s *CachedSearcher) Search(ctx context.Context, query string, num int) ([]domain.SearchResult, error) {
	if results, hit := s.cache.Get(query, num); hit {
		return results, nil
	}

	results, err := s.searcher.Search(ctx, query, num)
	if err != nil {
		return nil, err
	}

	s.cache.Put(query, num, results)

	return results, nil
}
