package cache

import (
	"errors"
	"sync"
)

// MaxSize is the largest capacity a Circular cache accepts. The cache is
// meant for a handful of hot entries, not as a general purpose store.
const MaxSize = 10

var (
	ErrSizeRequired = errors.New("cache: a size parameter is mandatory")
	ErrSizeTooLarge = errors.New("cache: this cache is supposed to be small, biggest size is 10")
)

type slot[V any] struct {
	key   string
	value V
	used  bool
}

// Circular is a fixed-capacity key/value cache that evicts in strict
// round-robin order. Lookups do not affect eviction: a key read a moment ago
// is still overwritten when the write cursor reaches its slot.
type Circular[V any] struct {
	mu    sync.Mutex
	slots []slot[V]
	index map[string]int
	next  int
}

// NewCircular creates a cache holding at most size entries.
func NewCircular[V any](size int) (*Circular[V], error) {
	if size <= 0 {
		return nil, ErrSizeRequired
	}
	if size > MaxSize {
		return nil, ErrSizeTooLarge
	}

	return &Circular[V]{
		slots: make([]slot[V], size),
		index: make(map[string]int, size),
	}, nil
}

// Search returns the value cached under key, if any.
func (c *Circular[V]) Search(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return c.slots[i].value, true
}

// Save stores value under key in the slot under the write cursor, evicting
// whichever key owned that slot, and advances the cursor.
func (c *Circular[V]) Save(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A key owns at most one slot.
	if old, ok := c.index[key]; ok {
		c.slots[old] = slot[V]{}
	}

	if s := c.slots[c.next]; s.used {
		delete(c.index, s.key)
	}

	c.slots[c.next] = slot[V]{key: key, value: value, used: true}
	c.index[key] = c.next
	c.next = (c.next + 1) % len(c.slots)
}

// Len returns the number of live entries.
func (c *Circular[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// Cap returns the fixed capacity.
func (c *Circular[V]) Cap() int {
	return len(c.slots)
}
