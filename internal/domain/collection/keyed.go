// Package collection provides the keyed, ordered set that backs the order and
// notification state. At most one entry exists per key; iteration order is
// list-like with new entries at the front.
package collection

import "slices"

// Record is anything identified by a comparable key.
type Record[K comparable] interface {
	Key() K
}

// Keyed is a keyed set with list-like iteration order. It is not safe for
// concurrent use; owners guard it with their own lock.
type Keyed[K comparable, T Record[K]] struct {
	items []T
	index map[K]int
}

// New builds a collection from a snapshot, see Replace.
func New[K comparable, T Record[K]](items ...T) *Keyed[K, T] {
	c := &Keyed[K, T]{}
	c.Replace(items)

	return c
}

// Replace discards the current content and installs snapshot. A key repeated
// within the snapshot keeps its first position and its last value.
func (c *Keyed[K, T]) Replace(snapshot []T) {
	c.items = make([]T, 0, len(snapshot))
	c.index = make(map[K]int, len(snapshot))

	for _, item := range snapshot {
		if i, ok := c.index[item.Key()]; ok {
			c.items[i] = item

			continue
		}
		c.index[item.Key()] = len(c.items)
		c.items = append(c.items, item)
	}
}

// Upsert overwrites the entry with the same key in place, or inserts item at
// the front. Reports whether item was inserted.
func (c *Keyed[K, T]) Upsert(item T) bool {
	if i, ok := c.lookup(item.Key()); ok {
		c.items[i] = item

		return false
	}

	c.prepend(item)

	return true
}

// InsertIfAbsent inserts item at the front unless its key is already present,
// in which case the collection is left untouched.
func (c *Keyed[K, T]) InsertIfAbsent(item T) bool {
	if _, ok := c.lookup(item.Key()); ok {
		return false
	}

	c.prepend(item)

	return true
}

// Update applies fn to the entry with key and returns the previous value.
func (c *Keyed[K, T]) Update(key K, fn func(T) T) (T, bool) {
	i, ok := c.lookup(key)
	if !ok {
		var zero T

		return zero, false
	}

	prev := c.items[i]
	c.items[i] = fn(prev)

	return prev, true
}

// UpdateAll applies fn to every entry, preserving order.
func (c *Keyed[K, T]) UpdateAll(fn func(T) T) {
	for i := range c.items {
		c.items[i] = fn(c.items[i])
	}
}

// Remove deletes the entry with key and returns it.
func (c *Keyed[K, T]) Remove(key K) (T, bool) {
	i, ok := c.lookup(key)
	if !ok {
		var zero T

		return zero, false
	}

	removed := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	c.reindex()

	return removed, true
}

// InsertAt puts item back at position pos (clamped), used to undo a Remove.
// An existing entry with the same key is overwritten in place instead.
func (c *Keyed[K, T]) InsertAt(pos int, item T) {
	if i, ok := c.lookup(item.Key()); ok {
		c.items[i] = item

		return
	}

	pos = max(0, min(pos, len(c.items)))
	c.items = slices.Insert(c.items, pos, item)
	c.reindex()
}

// Get returns the entry with key.
func (c *Keyed[K, T]) Get(key K) (T, bool) {
	i, ok := c.lookup(key)
	if !ok {
		var zero T

		return zero, false
	}

	return c.items[i], true
}

// Position returns the index of key in iteration order, -1 when absent.
func (c *Keyed[K, T]) Position(key K) int {
	if i, ok := c.lookup(key); ok {
		return i
	}

	return -1
}

// Items returns a copy of the entries in iteration order.
func (c *Keyed[K, T]) Items() []T {
	return slices.Clone(c.items)
}

// Len returns the number of entries.
func (c *Keyed[K, T]) Len() int {
	return len(c.items)
}

func (c *Keyed[K, T]) lookup(key K) (int, bool) {
	if c.index == nil {
		return 0, false
	}
	i, ok := c.index[key]

	return i, ok
}

func (c *Keyed[K, T]) prepend(item T) {
	c.items = slices.Insert(c.items, 0, item)
	c.reindex()
}

func (c *Keyed[K, T]) reindex() {
	if c.index == nil {
		c.index = make(map[K]int, len(c.items))
	} else {
		clear(c.index)
	}
	for i, item := range c.items {
		c.index[item.Key()] = i
	}
}
