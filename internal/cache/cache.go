package cache

import (
	"context"
	"sync"
	"time"

	"github.com/srcnozturk/ECommerce-Mobiliva/pkg/models"
)

type entry struct {
	products   []models.ProductView
	insertedAt time.Time
	lastAccess time.Time
}

// Snapshot is the in-process catalog cache. It holds at most one
// entry: the full active-product set. An entry lives until the later
// of insertion+TTL and lastAccess+sliding floor; after that any read
// behaves as a miss.
type Snapshot struct {
	mu      sync.Mutex
	ttl     time.Duration
	sliding time.Duration
	ent     *entry
	now     func() time.Time
}

func NewSnapshot(ttl, sliding time.Duration) *Snapshot {
	return &Snapshot{ttl: ttl, sliding: sliding, now: time.Now}
}

func (c *Snapshot) GetSnapshot(ctx context.Context) ([]models.ProductView, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ent == nil {
		return nil, false, nil
	}
	now := c.now()
	if now.After(c.deadline(c.ent)) {
		c.ent = nil
		return nil, false, nil
	}
	c.ent.lastAccess = now
	return c.ent.products, true, nil
}

// SetSnapshot replaces the whole entry. Concurrent populators race
// benignly: last write wins, and readers always see either the old or
// the new entry, never a mix.
func (c *Snapshot) SetSnapshot(ctx context.Context, products []models.ProductView) error {
	now := c.now()
	c.mu.Lock()
	c.ent = &entry{products: products, insertedAt: now, lastAccess: now}
	c.mu.Unlock()
	return nil
}

func (c *Snapshot) deadline(e *entry) time.Time {
	d := e.insertedAt.Add(c.ttl)
	if s := e.lastAccess.Add(c.sliding); s.After(d) {
		d = s
	}
	return d
}

func (c *Snapshot) evictExpired() {
	c.mu.Lock()
	if c.ent != nil && c.now().After(c.deadline(c.ent)) {
		c.ent = nil
	}
	c.mu.Unlock()
}

// StartJanitor drops the expired snapshot periodically until ctx done,
// so an idle process does not pin a dead product list in memory.
func (c *Snapshot) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.evictExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}
