// Package cache provides the bounded caches used on the classification hot
// path. Both the decision cache and the override-match cache share one
// implementation: a sharded FIFO with expire-first-then-oldest eviction.
//
// Keys are always one-way hashes of raw identifiers; the cache never sees a
// raw IP or user-agent.
package cache

import (
	"container/list"
	"hash/fnv"
	"sync"
	"time"
)

type entry[V any] struct {
	key        string
	value      V
	generation uint64
	expiresAt  time.Time
}

type shard[V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = oldest inserted
}

// Cache is a sharded bounded FIFO. Each shard holds at most capacity/shards
// entries behind its own mutex, so unrelated keys never contend on a single
// lock. Eviction on insert past capacity removes already-expired entries
// first, then the single oldest-inserted entry. Insertion order, not access
// order: this is deliberately not an LRU.
type Cache[V any] struct {
	shards []*shard[V]
}

// New builds a cache with the given total capacity spread over nshards
// shards. Tests that need to observe exact FIFO eviction order use a single
// shard.
func New[V any](capacity, nshards int) *Cache[V] {
	if nshards < 1 {
		nshards = 1
	}
	if capacity < nshards {
		capacity = nshards
	}
	perShard := (capacity + nshards - 1) / nshards

	c := &Cache[V]{shards: make([]*shard[V], nshards)}
	for i := range c.shards {
		c.shards[i] = &shard[V]{
			capacity: perShard,
			items:    make(map[string]*list.Element),
			order:    list.New(),
		}
	}
	return c
}

func (c *Cache[V]) shardFor(key string) *shard[V] {
	if len(c.shards) == 1 {
		return c.shards[0]
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Get returns the live value for key. Expired entries are misses.
func (c *Cache[V]) Get(key string) (V, bool) {
	return c.GetGeneration(key, 0)
}

// GetGeneration returns the live value for key only if it was stored under
// the same generation. Stale-generation entries are treated as misses even
// though they have not been evicted yet; this is the lazy invalidation that
// lets override mutations skip a full cache sweep.
func (c *Cache[V]) GetGeneration(key string, generation uint64) (V, bool) {
	var zero V
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return zero, false
	}
	e := el.Value.(*entry[V])
	if time.Now().After(e.expiresAt) {
		s.order.Remove(el)
		delete(s.items, key)
		return zero, false
	}
	if e.generation != generation {
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with the given TTL.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	c.SetGeneration(key, value, ttl, 0)
}

// SetGeneration stores value tagged with a generation number.
func (c *Cache[V]) SetGeneration(key string, value V, ttl time.Duration, generation uint64) {
	s := c.shardFor(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e := &entry[V]{key: key, value: value, generation: generation, expiresAt: now.Add(ttl)}

	if el, ok := s.items[key]; ok {
		// Re-insert so insertion order reflects the newest write.
		s.order.Remove(el)
		delete(s.items, key)
	}

	if s.order.Len() >= s.capacity {
		s.sweepExpiredLocked(now)
	}
	if s.order.Len() >= s.capacity {
		if oldest := s.order.Front(); oldest != nil {
			old := oldest.Value.(*entry[V])
			s.order.Remove(oldest)
			delete(s.items, old.key)
		}
	}

	s.items[key] = s.order.PushBack(e)
}

// sweepExpiredLocked drops every expired entry in the shard. Caller holds the
// shard lock.
func (s *shard[V]) sweepExpiredLocked(now time.Time) {
	for el := s.order.Front(); el != nil; {
		next := el.Next()
		e := el.Value.(*entry[V])
		if now.After(e.expiresAt) {
			s.order.Remove(el)
			delete(s.items, e.key)
		}
		el = next
	}
}

// SweepExpired drops expired entries across all shards and reports how many
// were removed. Run periodically by the scheduler so idle caches do not pin
// dead entries until the next insert.
func (c *Cache[V]) SweepExpired() int {
	removed := 0
	now := time.Now()
	for _, s := range c.shards {
		s.mu.Lock()
		before := s.order.Len()
		s.sweepExpiredLocked(now)
		removed += before - s.order.Len()
		s.mu.Unlock()
	}
	return removed
}

// Len reports the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += s.order.Len()
		s.mu.Unlock()
	}
	return n
}
