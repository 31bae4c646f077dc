// Package ref implements settable targets: the two shapes an application can
// hand a component to receive an instance once it exists.
//
// A target is either a callback (Func, or any func(T)) or a mutable holder
// (*Object). Assign dispatches on the shape at the call site.
package ref

import (
	"errors"
	"reflect"
	"sync"

	"github.com/recera/visgraph/pkg/env"
)

// ErrStringRef is returned when a legacy string ref is passed outside
// production.
var ErrStringRef = errors.New("ref: string refs are not supported, pass a func or *ref.Object")

// Setter is anything that can receive a value.
type Setter[T any] interface {
	Set(T)
}

// Func is a callback target.
type Func[T any] func(T)

// Set invokes f.
func (f Func[T]) Set(v T) { f(v) }

// Object is a holder target.
type Object[T any] struct {
	mu      sync.RWMutex
	current T
}

// Set stores v.
func (o *Object[T]) Set(v T) {
	o.mu.Lock()
	o.current = v
	o.mu.Unlock()
}

// Current returns the stored value.
func (o *Object[T]) Current() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// Assign hands v to target. Nil and unrecognised targets are ignored. A string
// target fails fast with ErrStringRef unless the runtime is production, where
// the check is skipped.
func Assign[T any](target any, v T) error {
	if err := Check(target); err != nil {
		return err
	}
	switch t := target.(type) {
	case nil:
	case func(T):
		t(v)
	case Setter[T]:
		t.Set(v)
	}
	return nil
}

// Check validates a target without assigning to it.
func Check(target any) error {
	if env.IsProduction() {
		return nil
	}
	if _, ok := target.(string); ok {
		return ErrStringRef
	}
	return nil
}

// Chain returns a target forwarding every value to all of targets, stopping at
// the first error.
func Chain[T any](targets ...any) Func[T] {
	return func(v T) {
		for _, t := range targets {
			if err := Assign(t, v); err != nil {
				return
			}
		}
	}
}

// Same reports whether a and b are the same target or value by identity:
// funcs, maps, pointers, slices and channels compare by address, comparable
// values by ==. Two nils are the same.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func, reflect.Map, reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}
