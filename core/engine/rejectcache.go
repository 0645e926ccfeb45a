package engine

import (
	"sync"
	"time"
)

// RejectionEntry records why a token was last rejected and until when that
// decision holds. A nil ExpiresAt blocks the token until process restart.
type RejectionEntry struct {
	Reason    RejectReason
	Detail    string
	ExpiresAt *time.Time

	insertedAt time.Time
}

// RetryCache memoizes rejections so the polling loop does not re-run the
// full pipeline, external calls included, for a token whose last outcome
// still stands. Process-local on purpose: losing it on restart only costs
// one extra evaluation per token.
type RetryCache struct {
	mu         sync.Mutex
	entries    map[string]*RejectionEntry
	order      []string
	maxEntries int
	now        func() time.Time
}

func NewRetryCache(maxEntries int) *RetryCache {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &RetryCache{
		entries:    make(map[string]*RejectionEntry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Get returns the blocking entry for the token, or nil if none exists or the
// existing one has expired. Expiry is checked here as well as in Sweep
// because an entry can lapse between sweeps; an expired entry is evicted so
// the token re-enters the fresh set exactly once.
func (c *RetryCache) Get(tokenID string) *RejectionEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[tokenID]
	if !ok {
		return nil
	}
	if entry.ExpiresAt != nil && !c.now().Before(*entry.ExpiresAt) {
		delete(c.entries, tokenID)
		return nil
	}
	return entry
}

// Set stores the rejection with the reason's own TTL policy.
func (c *RetryCache) Set(tokenID string, reason RejectReason, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry := &RejectionEntry{Reason: reason, Detail: detail, insertedAt: now}
	if ttl, permanent := reason.TTL(); !permanent {
		exp := now.Add(ttl)
		entry.ExpiresAt = &exp
	}

	if _, exists := c.entries[tokenID]; !exists {
		c.order = append(c.order, tokenID)
	}
	c.entries[tokenID] = entry

	c.evictOverflow()
}

// evictOverflow drops oldest-inserted keys once the map exceeds the size
// bound. Caller holds the lock.
func (c *RetryCache) evictOverflow() {
	for len(c.entries) > c.maxEntries && len(c.order) > 0 {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// SweepExpired removes lapsed entries, making those tokens eligible again on
// the next cycle. Returns how many were dropped.
func (c *RetryCache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	kept := c.order[:0]
	for _, id := range c.order {
		entry, ok := c.entries[id]
		if !ok {
			continue
		}
		if entry.ExpiresAt != nil && !now.Before(*entry.ExpiresAt) {
			delete(c.entries, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	c.order = kept
	return removed
}

func (c *RetryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
