package build

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/jodin-lang/jodin/internal/ast"
)

// CacheKey identifies a parse result by the SHA-256 of the unit's name and
// content. The name is part of the key because spans carry it.
type CacheKey string

// KeyFor computes the cache key of a unit.
func KeyFor(path, content string) CacheKey {
	h := sha256.New()
	h.Write([]byte(path))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return CacheKey(hex.EncodeToString(h.Sum(nil)))
}

// Entry is a cached parse result. Trees are shared between hits and must
// not be mutated.
type Entry struct {
	AST  *ast.TopLevelDeclarations
	Err  error
	Size int64 // source bytes
}

// CacheStats exposes basic metrics.
type CacheStats struct {
	Hits      int64
	Misses    int64
	Entries   int64
	Bytes     int64
	Evictions int64
}

// Cache is a thread-safe LRU cache of parse results with a max entry count.
type Cache struct {
	mu       sync.Mutex
	capacity int
	llHead   *lruNode
	llTail   *lruNode
	table    map[CacheKey]*lruNode
	stats    CacheStats
}

type lruNode struct {
	key  CacheKey
	val  Entry
	prev *lruNode
	next *lruNode
}

// NewCache creates a new cache with the given capacity (entries). If capacity<=0, defaults to 1024.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Cache{capacity: capacity, table: make(map[CacheKey]*lruNode)}
}

func (c *Cache) detach(n *lruNode) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.llHead == n {
		c.llHead = n.next
	}
	if c.llTail == n {
		c.llTail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (c *Cache) pushFront(n *lruNode) {
	n.next = c.llHead
	if c.llHead != nil {
		c.llHead.prev = n
	}
	c.llHead = n
	if c.llTail == nil {
		c.llTail = n
	}
}

func (c *Cache) evictIfNeeded() {
	for len(c.table) > c.capacity {
		// evict tail
		n := c.llTail
		if n == nil {
			return
		}
		c.detach(n)
		delete(c.table, n.key)
		c.stats.Evictions++
		c.stats.Bytes -= n.val.Size
	}
	c.stats.Entries = int64(len(c.table))
}

// Get returns the entry for key and marks it most recently used.
func (c *Cache) Get(key CacheKey) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.table[key]; ok {
		c.detach(n)
		c.pushFront(n)
		c.stats.Hits++
		return n.val, true
	}
	c.stats.Misses++
	return Entry{}, false
}

// Put stores e under key, evicting the least recently used entries beyond
// capacity.
func (c *Cache) Put(key CacheKey, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.table[key]; ok {
		c.stats.Bytes += e.Size - n.val.Size
		n.val = e
		c.detach(n)
		c.pushFront(n)
		return
	}
	n := &lruNode{key: key, val: e}
	c.pushFront(n)
	c.table[key] = n
	c.stats.Bytes += e.Size
	c.evictIfNeeded()
}

// Invalidate drops key from the cache.
func (c *Cache) Invalidate(key CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n, ok := c.table[key]; ok {
		c.detach(n)
		delete(c.table, key)
		c.stats.Entries = int64(len(c.table))
		c.stats.Bytes -= n.val.Size
	}
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
