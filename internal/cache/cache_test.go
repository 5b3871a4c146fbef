package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := New[string](4, 1)
	c.Set("a", "alpha", time.Minute)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "alpha", v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiredEntryIsMiss(t *testing.T) {
	c := New[string](4, 1)
	c.Set("a", "alpha", -time.Second)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestCacheEvictsExactlyOldestWhenFull(t *testing.T) {
	// Single shard so eviction order is observable: capacity+1 inserts with
	// no expired entries must evict exactly the oldest-inserted key.
	const capacity = 8
	c := New[string](capacity, 1)

	for i := 0; i < capacity+1; i++ {
		c.Set(fmt.Sprintf("key-%d", i), "v", time.Minute)
	}

	assert.Equal(t, capacity, c.Len())
	_, ok := c.Get("key-0")
	assert.False(t, ok, "oldest key should have been evicted")
	for i := 1; i <= capacity; i++ {
		_, ok := c.Get(fmt.Sprintf("key-%d", i))
		assert.True(t, ok, "key-%d should survive", i)
	}
}

func TestCacheEvictsExpiredBeforeOldest(t *testing.T) {
	c := New[string](3, 1)
	c.Set("oldest", "v", time.Minute)
	c.Set("expired", "v", time.Millisecond)
	c.Set("fresh", "v", time.Minute)

	time.Sleep(5 * time.Millisecond)
	c.Set("new", "v", time.Minute)

	// The expired entry is swept; the oldest live entry survives.
	_, ok := c.Get("oldest")
	assert.True(t, ok)
	_, ok = c.Get("fresh")
	assert.True(t, ok)
	_, ok = c.Get("new")
	assert.True(t, ok)
	_, ok = c.Get("expired")
	assert.False(t, ok)
}

func TestCacheStaleGenerationIsMiss(t *testing.T) {
	c := New[string](4, 1)
	c.SetGeneration("a", "alpha", time.Minute, 1)

	v, ok := c.GetGeneration("a", 1)
	assert.True(t, ok)
	assert.Equal(t, "alpha", v)

	// Bumped generation: still stored, but served as a miss.
	_, ok = c.GetGeneration("a", 2)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestCacheReinsertMovesToBack(t *testing.T) {
	c := New[string](2, 1)
	c.Set("a", "1", time.Minute)
	c.Set("b", "2", time.Minute)
	c.Set("a", "3", time.Minute) // re-insert: "b" is now oldest
	c.Set("c", "4", time.Minute)

	_, ok := c.Get("b")
	assert.False(t, ok)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
}

func TestCacheSweepExpired(t *testing.T) {
	c := New[string](8, 2)
	c.Set("live", "v", time.Minute)
	c.Set("dead-1", "v", -time.Second)
	c.Set("dead-2", "v", -time.Second)

	removed := c.SweepExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())
}

func TestCacheShardedStillBounded(t *testing.T) {
	c := New[int](16, 4)
	for i := 0; i < 100; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i, time.Minute)
	}
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestGenerations(t *testing.T) {
	g := NewGenerations()
	assert.Equal(t, uint64(1), g.Current(7))

	assert.Equal(t, uint64(2), g.Bump(7))
	assert.Equal(t, uint64(2), g.Current(7))

	// Sites are independent.
	assert.Equal(t, uint64(1), g.Current(8))
}
