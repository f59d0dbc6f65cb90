package langsync

import (
	"hash/fnv"
	"sync"
	"time"
)

// CacheEntry is a cached successful result together with its expiry.
type CacheEntry struct {
	Result    *Result
	ExpiresAt time.Time
}

// Cache stores successful responses keyed by request fingerprint. Get must
// never block on I/O; entries past their expiry behave as absent.
type Cache interface {
	Get(key string) (*CacheEntry, bool)
	Set(key string, entry *CacheEntry, ttl time.Duration)
	Delete(key string)
	Clear()
}

// MemoryCache is the default in-process cache. Keys are spread over a fixed
// number of shards to keep lock contention low under concurrent load.
type MemoryCache struct {
	shards    []*cacheShard
	numShards int
}

type cacheShard struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
}

// NewMemoryCache creates an empty sharded in-memory cache.
func NewMemoryCache() *MemoryCache {
	numShards := 16
	shards := make([]*cacheShard, numShards)
	for i := range shards {
		shards[i] = &cacheShard{
			store: make(map[string]*CacheEntry),
		}
	}
	return &MemoryCache{
		shards:    shards,
		numShards: numShards,
	}
}

func (c *MemoryCache) getShard(key string) *cacheShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

// Get returns the live entry for key. Expiry is checked on read; a stale
// entry is evicted and reported absent.
func (c *MemoryCache) Get(key string) (*CacheEntry, bool) {
	shard := c.getShard(key)

	shard.mu.RLock()
	entry, exists := shard.store[key]
	shard.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.ExpiresAt) {
		shard.mu.Lock()
		// Recheck under the write lock; a writer may have replaced it.
		if current, ok := shard.store[key]; ok && current == entry {
			delete(shard.store, key)
		}
		shard.mu.Unlock()
		return nil, false
	}

	return entry, true
}

// Set stores entry under key with the given TTL.
func (c *MemoryCache) Set(key string, entry *CacheEntry, ttl time.Duration) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	entry.ExpiresAt = time.Now().Add(ttl)
	shard.store[key] = entry
}

// Delete removes the entry for key, if any.
func (c *MemoryCache) Delete(key string) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	delete(shard.store, key)
}

// Clear removes every entry.
func (c *MemoryCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]*CacheEntry)
		shard.mu.Unlock()
	}
}

// Len reports the number of physically stored entries, expired or not.
func (c *MemoryCache) Len() int {
	total := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		total += len(shard.store)
		shard.mu.RUnlock()
	}
	return total
}
