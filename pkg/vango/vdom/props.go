package vdom

import (
	"fmt"
	"reflect"
	"slices"
)

// PatchOp is the kind of attribute change.
type PatchOp uint8

const (
	// OpSetAttribute sets or replaces an attribute
	OpSetAttribute PatchOp = 0x02
	// OpRemoveAttribute removes an attribute
	OpRemoveAttribute PatchOp = 0x06
)

// Patch is one attribute change on an element.
type Patch struct {
	Op    PatchOp
	Key   string
	Value string
}

func (p Patch) String() string {
	switch p.Op {
	case OpSetAttribute:
		return fmt.Sprintf("set %s=%q", p.Key, p.Value)
	case OpRemoveAttribute:
		return fmt.Sprintf("remove %s", p.Key)
	default:
		return fmt.Sprintf("op(%d) %s", p.Op, p.Key)
	}
}

// DiffProps returns the attribute patches turning prev into next, ordered by
// key. Special props are ignored.
func DiffProps(prev, next Props) []Patch {
	var patches []Patch
	for key := range prev {
		if IsSpecialProp(key) {
			continue
		}
		if _, ok := next[key]; !ok {
			patches = append(patches, Patch{Op: OpRemoveAttribute, Key: key})
		}
	}
	for key, nextVal := range next {
		if IsSpecialProp(key) {
			continue
		}
		prevVal, ok := prev[key]
		if ok && propsEqual(prevVal, nextVal) {
			continue
		}
		patches = append(patches, Patch{Op: OpSetAttribute, Key: key, Value: PropString(nextVal)})
	}
	slices.SortFunc(patches, func(a, b Patch) int {
		if a.Key < b.Key {
			return -1
		}
		if a.Key > b.Key {
			return 1
		}
		return 0
	})
	return patches
}

func propsEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

// PropString renders a prop value as attribute text.
func PropString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
