package dataset

import (
	"fmt"
	"reflect"
	"sync"
)

// Syncer keeps a DataSet equal to a declarative sequence across renders.
type Syncer[T Item[T]] struct {
	mu   sync.Mutex
	ds   *DataSet[T]
	prev []T
	// stale is set when a pass failed midway and prev no longer describes ds.
	stale bool
}

// NewSyncer seals a dataset initialised with copies of initial and returns
// the syncer owning it.
func NewSyncer[T Item[T]](initial []T) (*Syncer[T], error) {
	ds, err := New(initial...)
	if err != nil {
		return nil, err
	}
	return &Syncer[T]{ds: ds, prev: cloneAll(initial)}, nil
}

// DataSet returns the live dataset.
func (s *Syncer[T]) DataSet() *DataSet[T] {
	return s.ds
}

// Sync reconciles the dataset with next and returns the applied delta.
//
// When next deep-equals the previous sequence nothing is touched. Otherwise the
// delta is computed against the live contents and applied as remove, add,
// update; inserted and updated records are copies, so later changes to the
// caller's records never reach the engine. Unchanged records get no call.
//
// A next holding the same key twice is rejected before the dataset is
// touched. If applying a delta still fails, the next call diffs against the
// live contents instead of short-circuiting.
func (s *Syncer[T]) Sync(next []T) (Delta[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stale && reflect.DeepEqual(next, s.prev) {
		return Delta[T]{}, nil
	}
	if err := uniqueKeys(next); err != nil {
		return Delta[T]{}, err
	}
	d := Diff(s.ds.Get(), next)

	if len(d.Removed) > 0 {
		s.ds.Remove(Keys(d.Removed)...)
	}
	if len(d.Added) > 0 {
		if err := s.ds.Add(cloneAll(d.Added)...); err != nil {
			s.stale = true
			return d, fmt.Errorf("apply added: %w", err)
		}
	}
	if len(d.Updated) > 0 {
		s.ds.Update(cloneAll(d.Updated)...)
	}
	s.prev = cloneAll(next)
	s.stale = false
	return d, nil
}

func uniqueKeys[T Item[T]](items []T) error {
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		k := it.Key()
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, k)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func cloneAll[T Item[T]](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
