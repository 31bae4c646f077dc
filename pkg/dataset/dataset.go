// Package dataset implements the live, engine-facing node and edge
// collections and the reconciliation that keeps them equal to the declarative
// graph.
//
// A DataSet is the single source of truth the drawing engine reads from: it is
// created once per component, mutated in place, and every mutation is
// announced to listeners so the engine can redraw only what changed.
package dataset

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrDuplicateID is returned by Add when an item's key is already present.
var ErrDuplicateID = errors.New("dataset: item with this id already exists")

// Item is a keyed record that can copy itself.
type Item[T any] interface {
	Key() string
	Clone() T
}

// Op identifies a dataset mutation.
type Op uint8

const (
	OpAdd Op = iota + 1
	OpUpdate
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Change describes one mutation call. For OpUpdate, Old holds the replaced
// records (zero values for upserted keys); for OpRemove, Items holds the
// removed records.
type Change[T any] struct {
	Op    Op
	Keys  []string
	Items []T
	Old   []T
}

// Listener observes dataset mutations. It runs after the mutation is applied
// and never while the dataset lock is held.
type Listener[T any] func(Change[T])

// DataSet is an insertion-ordered collection indexed by key.
type DataSet[T Item[T]] struct {
	mu    sync.RWMutex
	order []string
	items map[string]T

	lmu       sync.Mutex
	listeners map[int]Listener[T]
	nextID    int
}

// New creates a dataset holding copies of items.
func New[T Item[T]](items ...T) (*DataSet[T], error) {
	d := &DataSet[T]{
		items:     make(map[string]T, len(items)),
		order:     make([]string, 0, len(items)),
		listeners: make(map[int]Listener[T]),
	}
	for _, it := range items {
		k := it.Key()
		if _, dup := d.items[k]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, k)
		}
		d.items[k] = it.Clone()
		d.order = append(d.order, k)
	}
	return d, nil
}

// Add inserts items. Nothing is inserted if any key already exists or repeats
// within the call.
func (d *DataSet[T]) Add(items ...T) error {
	if len(items) == 0 {
		return nil
	}
	d.mu.Lock()
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := it.Key()
		_, exists := d.items[k]
		_, repeated := seen[k]
		if exists || repeated {
			d.mu.Unlock()
			return fmt.Errorf("%w: %q", ErrDuplicateID, k)
		}
		seen[k] = struct{}{}
	}
	keys := make([]string, len(items))
	for i, it := range items {
		k := it.Key()
		d.items[k] = it
		d.order = append(d.order, k)
		keys[i] = k
	}
	d.mu.Unlock()

	d.emit(Change[T]{Op: OpAdd, Keys: keys, Items: items})
	return nil
}

// Update replaces the records with matching keys. Unknown keys are inserted.
func (d *DataSet[T]) Update(items ...T) {
	if len(items) == 0 {
		return
	}
	d.mu.Lock()
	keys := make([]string, len(items))
	old := make([]T, len(items))
	for i, it := range items {
		k := it.Key()
		if prev, ok := d.items[k]; ok {
			old[i] = prev
		} else {
			d.order = append(d.order, k)
		}
		d.items[k] = it
		keys[i] = k
	}
	d.mu.Unlock()

	d.emit(Change[T]{Op: OpUpdate, Keys: keys, Items: items, Old: old})
}

// Remove deletes the given keys and returns the keys actually removed.
// Missing keys are ignored.
func (d *DataSet[T]) Remove(keys ...string) []string {
	if len(keys) == 0 {
		return nil
	}
	d.mu.Lock()
	drop := make(map[string]struct{}, len(keys))
	var removed []string
	var items []T
	for _, k := range keys {
		it, ok := d.items[k]
		if !ok {
			continue
		}
		if _, dup := drop[k]; dup {
			continue
		}
		drop[k] = struct{}{}
		delete(d.items, k)
		removed = append(removed, k)
		items = append(items, it)
	}
	if len(removed) > 0 {
		kept := d.order[:0]
		for _, k := range d.order {
			if _, gone := drop[k]; !gone {
				kept = append(kept, k)
			}
		}
		d.order = kept
	}
	d.mu.Unlock()

	if len(removed) > 0 {
		d.emit(Change[T]{Op: OpRemove, Keys: removed, Items: items})
	}
	return removed
}

// Get returns all records in insertion order.
func (d *DataSet[T]) Get() []T {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]T, len(d.order))
	for i, k := range d.order {
		out[i] = d.items[k]
	}
	return out
}

// Lookup returns the record stored under key.
func (d *DataSet[T]) Lookup(key string) (T, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	it, ok := d.items[key]
	return it, ok
}

// Keys returns all keys in insertion order.
func (d *DataSet[T]) Keys() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.order...)
}

// Len returns the number of records.
func (d *DataSet[T]) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.order)
}

// On registers a listener and returns its id for Off.
func (d *DataSet[T]) On(fn Listener[T]) int {
	d.lmu.Lock()
	defer d.lmu.Unlock()
	d.nextID++
	d.listeners[d.nextID] = fn
	return d.nextID
}

// Off removes a listener. Unknown ids are ignored.
func (d *DataSet[T]) Off(id int) {
	d.lmu.Lock()
	defer d.lmu.Unlock()
	delete(d.listeners, id)
}

func (d *DataSet[T]) emit(c Change[T]) {
	d.lmu.Lock()
	ls := make([]Listener[T], 0, len(d.listeners))
	for _, id := range slices.Sorted(maps.Keys(d.listeners)) {
		ls = append(ls, d.listeners[id])
	}
	d.lmu.Unlock()
	for _, l := range ls {
		l(c)
	}
}
