// Package cache keeps rendered graph snapshots in memory.
// Entries are addressed by a content key so identical gauges share one
// encoded image, and the cache evicts by size once it is full.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache stores encoded snapshots keyed by content
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	maxSize  int64 // Maximum total size in bytes
	maxAge   time.Duration
	strategy EvictionStrategy
	stats    Stats
	now      func() time.Time
}

// Entry is a single cached snapshot
type Entry struct {
	Key         string
	Data        []byte
	Created     time.Time
	LastAccess  time.Time
	AccessCount int
}

// Stats tracks cache performance
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	TotalSize  int64
	EntryCount int
}

// EvictionStrategy defines how entries are removed when the cache is full
type EvictionStrategy int

const (
	// LRU removes least recently used entries
	LRU EvictionStrategy = iota
	// LFU removes least frequently used entries
	LFU
	// FIFO removes oldest entries first
	FIFO
)

func (s EvictionStrategy) String() string {
	switch s {
	case LRU:
		return "lru"
	case LFU:
		return "lfu"
	case FIFO:
		return "fifo"
	default:
		return fmt.Sprintf("EvictionStrategy(%d)", int(s))
	}
}

// ParseStrategy parses "lru", "lfu" or "fifo". Empty means LRU.
func ParseStrategy(name string) (EvictionStrategy, error) {
	switch strings.ToLower(name) {
	case "", "lru":
		return LRU, nil
	case "lfu":
		return LFU, nil
	case "fifo":
		return FIFO, nil
	default:
		return LRU, fmt.Errorf("unknown eviction strategy %q", name)
	}
}

// Config holds cache configuration
type Config struct {
	MaxSize  int64         // Maximum total size in bytes (default: 16MB)
	MaxAge   time.Duration // Zero keeps entries until evicted
	Strategy EvictionStrategy
}

// DefaultConfig returns the default cache configuration
func DefaultConfig() Config {
	return Config{
		MaxSize:  16 << 20,
		Strategy: LRU,
	}
}

// New creates an empty cache
func New(config Config) *Cache {
	if config.MaxSize == 0 {
		config.MaxSize = DefaultConfig().MaxSize
	}
	return &Cache{
		entries:  make(map[string]*Entry),
		maxSize:  config.MaxSize,
		maxAge:   config.MaxAge,
		strategy: config.Strategy,
		now:      time.Now,
	}
}

// Get returns the snapshot stored under key
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	if c.isExpired(entry) {
		c.remove(entry)
		c.stats.Misses++
		return nil, false
	}

	entry.LastAccess = c.now()
	entry.AccessCount++
	c.stats.Hits++
	return entry.Data, true
}

// Put stores data under key. Data larger than the whole cache is not kept.
func (c *Cache) Put(key string, data []byte) {
	size := int64(len(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.remove(old)
	}
	if c.maxSize > 0 && size > c.maxSize {
		return
	}
	c.ensureSpace(size)

	now := c.now()
	c.entries[key] = &Entry{
		Key:        key,
		Data:       data,
		Created:    now,
		LastAccess: now,
	}
	c.stats.TotalSize += size
	c.stats.EntryCount = len(c.entries)
}

// Delete removes key from the cache
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		c.remove(entry)
	}
}

// Clear removes every entry and resets the size counters
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*Entry)
	c.stats.TotalSize = 0
	c.stats.EntryCount = 0
}

// GetStats returns a copy of the cache statistics
func (c *Cache) GetStats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Key generates a cache key from inputs
func Key(inputs ...string) string {
	h := sha256.New()
	for _, input := range inputs {
		h.Write([]byte(input))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) isExpired(entry *Entry) bool {
	if c.maxAge <= 0 {
		return false
	}
	return c.now().Sub(entry.Created) > c.maxAge
}

// remove drops entry. Caller holds c.mu.
func (c *Cache) remove(entry *Entry) {
	delete(c.entries, entry.Key)
	c.stats.TotalSize -= int64(len(entry.Data))
	c.stats.EntryCount = len(c.entries)
}

// ensureSpace evicts until needed bytes fit. Caller holds c.mu.
func (c *Cache) ensureSpace(needed int64) {
	if c.maxSize <= 0 {
		return
	}
	for c.stats.TotalSize+needed > c.maxSize && len(c.entries) > 0 {
		victim := c.victim()
		if victim == nil {
			return
		}
		c.remove(victim)
		c.stats.Evictions++
	}
}

func (c *Cache) victim() *Entry {
	var victim *Entry
	for _, entry := range c.entries {
		if victim == nil {
			victim = entry
			continue
		}
		switch c.strategy {
		case LRU:
			if entry.LastAccess.Before(victim.LastAccess) {
				victim = entry
			}
		case LFU:
			if entry.AccessCount < victim.AccessCount {
				victim = entry
			}
		case FIFO:
			if entry.Created.Before(victim.Created) {
				victim = entry
			}
		}
	}
	return victim
}
