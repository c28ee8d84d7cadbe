// Package store provides a small observable value holder.
package store

import (
	"errors"
	"sync"
)

// ErrNotInitialized is returned when a Cell is read before its first Set.
var ErrNotInitialized = errors.New("store: value not initialized")

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Cell holds at most one current value and notifies subscribers on every Set.
//
// Subscribers are called synchronously from Set, in the order they
// subscribed, once per assignment. A subscriber must not call Set on the same
// cell. Subscribing does not replay the current value.
type Cell[T any] struct {
	mu     sync.RWMutex
	value  T
	set    bool
	subs   []subscriber[T]
	nextID uint64

	// notifyMu serialises Set so notifications arrive in assignment order.
	notifyMu sync.Mutex
}

// New returns an empty cell.
func New[T any]() *Cell[T] {
	return &Cell[T]{}
}

// Set replaces the current value and notifies subscribers.
func (c *Cell[T]) Set(v T) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	c.value = v
	c.set = true
	subs := make([]subscriber[T], len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Get returns the most recently assigned value, or ErrNotInitialized.
func (c *Cell[T]) Get() (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.set {
		var zero T
		return zero, ErrNotInitialized
	}
	return c.value, nil
}

// IsSet reports whether a value has been assigned.
func (c *Cell[T]) IsSet() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.set
}

// Subscribe registers fn for every later assignment. The returned function
// removes the subscription; calling it more than once is harmless.
func (c *Cell[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.subs = append(c.subs, subscriber[T]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, s := range c.subs {
				if s.id == id {
					c.subs = append(c.subs[:i:i], c.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Reset drops the current value and every subscriber.
func (c *Cell[T]) Reset() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	c.value = zero
	c.set = false
	c.subs = nil
}
