// Package cache memoizes evaluated graph results by signature.
//
// The cache is a bounded, oldest-first list. Store appends and evicts from
// the front once the list is over capacity; Lookup never reorders, so
// eviction is FIFO rather than LRU. Entries never expire by time.
package cache

import "sync"

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 16

type entry struct {
	signature string
	result    any
}

// Cache is safe for concurrent use. Stored results are treated as
// immutable and are returned to every caller as is.
type Cache struct {
	mu       sync.RWMutex
	capacity int
	entries  []entry
}

// New creates an empty cache holding at most capacity entries.
func New(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache{
		capacity: capacity,
		entries:  make([]entry, 0, capacity+1),
	}
}

// Lookup returns the most recently stored result for signature.
func (c *Cache) Lookup(signature string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := len(c.entries) - 1; i >= 0; i-- {
		if c.entries[i].signature == signature {
			return c.entries[i].result, true
		}
	}
	return nil, false
}

// Store appends a result and evicts the oldest entries while over capacity.
// Storing a signature that is already present keeps the older entry until
// it is evicted; Lookup only ever sees the newest.
func (c *Cache) Store(signature string, result any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries, entry{signature: signature, result: result})
	if over := len(c.entries) - c.capacity; over > 0 {
		n := copy(c.entries, c.entries[over:])
		clear(c.entries[n:])
		c.entries = c.entries[:n]
	}
}

// Invalidate removes every entry stored under signature and returns how
// many were removed.
func (c *Cache) Invalidate(signature string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.entries[:0]
	for _, e := range c.entries {
		if e.signature != signature {
			kept = append(kept, e)
		}
	}
	removed := len(c.entries) - len(kept)
	clear(c.entries[len(kept):])
	c.entries = kept
	return removed
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *Cache) Capacity() int {
	return c.capacity
}

// Signatures lists stored signatures oldest first.
func (c *Cache) Signatures() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.signature
	}
	return out
}
