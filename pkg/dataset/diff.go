package dataset

import "reflect"

// Delta is the classification of two keyed sequences. The four slices are
// disjoint by construction: Removed and Unchanged hold records of the old
// sequence, Added and Updated hold records of the new one.
type Delta[T any] struct {
	Removed   []T
	Added     []T
	Unchanged []T
	Updated   []T
}

// Empty reports whether the delta requires no mutation.
func (d Delta[T]) Empty() bool {
	return len(d.Removed) == 0 && len(d.Added) == 0 && len(d.Updated) == 0
}

// Diff classifies from and to by key:
//
//   - Removed: in from, key absent from to
//   - Added: in to, key absent from from
//   - Unchanged: in from, deep-equal to the to record with the same key
//   - Updated: in to, key present in from, value differs
//
// Keys are assumed unique within each sequence.
func Diff[T Item[T]](from, to []T) Delta[T] {
	var d Delta[T]
	next := make(map[string]int, len(to))
	for i, it := range to {
		next[it.Key()] = i
	}
	prev := make(map[string]int, len(from))
	for i, it := range from {
		prev[it.Key()] = i
	}

	for _, it := range from {
		j, ok := next[it.Key()]
		switch {
		case !ok:
			d.Removed = append(d.Removed, it)
		case reflect.DeepEqual(it, to[j]):
			d.Unchanged = append(d.Unchanged, it)
		}
	}
	for _, it := range to {
		i, ok := prev[it.Key()]
		switch {
		case !ok:
			d.Added = append(d.Added, it)
		case !reflect.DeepEqual(from[i], it):
			d.Updated = append(d.Updated, it)
		}
	}
	return d
}

// Keys returns the keys of items, in order.
func Keys[T Item[T]](items []T) []string {
	keys := make([]string, len(items))
	for i, it := range items {
		keys[i] = it.Key()
	}
	return keys
}
