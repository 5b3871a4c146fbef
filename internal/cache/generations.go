package cache

import (
	"sync"
)

// Generations tracks one monotonically increasing counter per site. Every
// override-list mutation bumps its site's counter; override-cache entries
// tagged with an older generation are then treated as misses without any
// cache sweep.
type Generations struct {
	mu   sync.RWMutex
	gens map[uint]uint64
}

// NewGenerations returns an empty tracker. A site that has never been bumped
// reports generation 1.
func NewGenerations() *Generations {
	return &Generations{gens: make(map[uint]uint64)}
}

// Current returns the site's current generation.
func (g *Generations) Current(siteID uint) uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if gen, ok := g.gens[siteID]; ok {
		return gen
	}
	return 1
}

// Bump advances the site's generation and returns the new value.
func (g *Generations) Bump(siteID uint) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	gen, ok := g.gens[siteID]
	if !ok {
		gen = 1
	}
	gen++
	g.gens[siteID] = gen
	return gen
}
