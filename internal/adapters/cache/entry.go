// Package cache provides a value cache whose keys are matched by quasi-equality.
package cache

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/quasi/internal/core/domain"
)

// NullHash is the hash of an entry that wraps a nil value.
const NullHash uint64 = 0

// Hasher is implemented by values that provide their own hash.
// Values that are equal must return the same hash.
type Hasher interface {
	Hash() uint64
}

// Entry wraps a cached value so it can be compared and hashed by natural equality.
type Entry[T any] struct {
	value T
}

// NewEntry wraps v.
func NewEntry[T any](v T) Entry[T] {
	return Entry[T]{value: v}
}

// Value returns the wrapped value.
func (e Entry[T]) Value() T {
	return e.value
}

// IsNull reports whether the wrapped value is a nil reference.
func (e Entry[T]) IsNull() bool {
	return isNull(e.value)
}

// Equal reports whether other holds a value naturally equal to the wrapped one.
//
// other may be another Entry, a pointer to one, or a bare T. A nil other is
// never equal, not even to an entry wrapping nil.
func (e Entry[T]) Equal(other any) bool {
	switch o := other.(type) {
	case nil:
		return false
	case Entry[T]:
		return domain.LeafEqual(e.value, o.value)
	case *Entry[T]:
		if o == nil {
			return false
		}
		return domain.LeafEqual(e.value, o.value)
	case T:
		return domain.LeafEqual(e.value, o)
	default:
		return false
	}
}

// Hash returns a hash consistent with Equal.
func (e Entry[T]) Hash() uint64 {
	if e.IsNull() {
		return NullHash
	}
	if h, ok := any(e.value).(Hasher); ok {
		return h.Hash()
	}
	d := xxhash.New()
	writeLeaf(d, e.value)
	return d.Sum64()
}

func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
