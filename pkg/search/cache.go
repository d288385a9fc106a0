package search

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// DefaultCacheSize is the number of prefix tables a CachedKmpMatcher keeps
// when Lookup creates one.
const DefaultCacheSize = 128

// cachedTable is the trie item stored per pattern.
type cachedTable struct {
	table PrefixTable
	built int
}

// CachedKmpMatcher is KMP with prefix tables kept across calls, keyed by
// pattern in a patricia trie and evicted least-recently-used first.
// The build count of a cached table is still added to every result, so a
// cached search reports exactly what KMP reports.
type CachedKmpMatcher struct {
	tables     *patricia.Trie
	accessTime map[string]int64
	clock      int64
	hits       int64
	misses     int64
	maxTables  int
	mu         sync.RWMutex
}

// NewCachedKmpMatcher creates a cached matcher holding at most maxTables tables.
func NewCachedKmpMatcher(maxTables int) *CachedKmpMatcher {
	if maxTables <= 0 {
		maxTables = DefaultCacheSize
	}
	return &CachedKmpMatcher{
		tables:     patricia.NewTrie(),
		accessTime: make(map[string]int64, maxTables),
		maxTables:  maxTables,
	}
}

func (c *CachedKmpMatcher) Name() string { return AlgoKMPCached }

func (c *CachedKmpMatcher) Search(text, pattern []byte) MatchResult {
	if len(pattern) == 0 {
		return MatchResult{Position: 0}
	}
	entry := c.tableFor(pattern)
	return kmpScan(text, pattern, entry.table, entry.built)
}

// tableFor returns the cached table for pattern, building it on a miss.
func (c *CachedKmpMatcher) tableFor(pattern []byte) cachedTable {
	key := string(pattern)

	c.mu.Lock()
	defer c.mu.Unlock()

	if item := c.tables.Get(patricia.Prefix(key)); item != nil {
		c.hits++
		c.markAccessed(key)
		return item.(cachedTable)
	}

	c.misses++
	table, built := BuildPrefixTable(pattern)
	entry := cachedTable{table: table, built: built}

	if len(c.accessTime) >= c.maxTables {
		c.evictLRU()
	}
	c.tables.Insert(patricia.Prefix(key), entry)
	c.markAccessed(key)
	return entry
}

// Cached reports whether a table for pattern is currently held.
func (c *CachedKmpMatcher) Cached(pattern string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tables.Get(patricia.Prefix(pattern)) != nil
}

// Stats returns the cache counters.
func (c *CachedKmpMatcher) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]int{
		"cachedTables": len(c.accessTime),
		"maxTables":    c.maxTables,
		"cacheHits":    int(c.hits),
		"cacheMisses":  int(c.misses),
	}
}

// Reset drops every cached table and zeroes the hit and miss counters.
func (c *CachedKmpMatcher) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tables = patricia.NewTrie()
	c.accessTime = make(map[string]int64, c.maxTables)
	c.clock = 0
	c.hits = 0
	c.misses = 0
}

func (c *CachedKmpMatcher) markAccessed(key string) {
	c.clock++
	c.accessTime[key] = c.clock
}

func (c *CachedKmpMatcher) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, accessTime := range c.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestTime != math.MaxInt64 {
		c.tables.Delete(patricia.Prefix(oldestKey))
		delete(c.accessTime, oldestKey)
		log.Debugf("Evicted prefix table for pattern %q", oldestKey)
	}
}
