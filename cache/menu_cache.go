package cache

import (
	"sync"
	"time"

	"food-ordering-api/models"
)

// DefaultTTL bounds how stale the public menu may be
const DefaultTTL = 5 * time.Minute

type menuEntry struct {
	items     []models.MenuItem
	fetchedAt time.Time
}

// MenuCache holds the full catalog between writes.
// Call Invalidate on any menu create/update/delete. A fill started before an
// Invalidate carries an older generation and is dropped by Set.
type MenuCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	gen   uint64
	entry *menuEntry
}

func NewMenuCache(ttl time.Duration) *MenuCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MenuCache{ttl: ttl, now: time.Now}
}

// Get returns a copy of the cached catalog while it is fresh, plus the
// generation to hand back to Set after a miss.
func (c *MenuCache) Get() ([]models.MenuItem, uint64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry != nil && c.now().Sub(c.entry.fetchedAt) < c.ttl {
		out := make([]models.MenuItem, len(c.entry.items))
		copy(out, c.entry.items)
		return out, c.gen, true
	}
	return nil, c.gen, false
}

// Set stores items read at generation gen. It reports false and keeps
// nothing when an Invalidate happened since.
func (c *MenuCache) Set(items []models.MenuItem, gen uint64) bool {
	stored := make([]models.MenuItem, len(items))
	copy(stored, items)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.entry = &menuEntry{items: stored, fetchedAt: c.now()}
	return true
}

func (c *MenuCache) Invalidate() {
	c.mu.Lock()
	c.gen++
	c.entry = nil
	c.mu.Unlock()
}
