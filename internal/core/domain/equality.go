package domain

import (
	"iter"
	"math"
	"math/cmplx"
	"reflect"
)

// MismatchReason describes why two flattened sequences diverged.
type MismatchReason uint8

const (
	// ReasonNone means the sequences are equal.
	ReasonNone MismatchReason = iota
	// ReasonLeaf means two leaves at the same position differ.
	ReasonLeaf
	// ReasonLeftShorter means the left sequence ended first.
	ReasonLeftShorter
	// ReasonRightShorter means the right sequence ended first.
	ReasonRightShorter
)

// String returns a short description of the reason.
func (r MismatchReason) String() string {
	switch r {
	case ReasonLeaf:
		return "leaf differs"
	case ReasonLeftShorter:
		return "left has fewer leaves"
	case ReasonRightShorter:
		return "right has fewer leaves"
	default:
		return "equal"
	}
}

// Mismatch is the outcome of a positional comparison.
type Mismatch struct {
	// Equal is true when both sequences have the same length and equal leaves.
	Equal bool
	// Index is the position of the first divergence, or the number of leaves compared when Equal.
	Index int
	// Left and Right hold the leaves at Index. The side that ran out is nil.
	Left  any
	Right any
	// Reason says which rule failed.
	Reason MismatchReason
}

// Equal reports whether x and y are quasi-equal: their flattened leaf
// sequences have the same length and are equal position by position.
// The types of x and y are never consulted.
func Equal(x, y any, opts ...Option) (bool, error) {
	m, err := Compare(x, y, opts...)
	if err != nil {
		return false, err
	}
	return m.Equal, nil
}

// Compare walks x and y in lock-step and reports the first divergence.
// The walk stops at the first differing leaf or as soon as one side runs out.
func Compare(x, y any, opts ...Option) (Mismatch, error) {
	nextX, stopX := iter.Pull2(Flatten(x, opts...))
	defer stopX()
	nextY, stopY := iter.Pull2(Flatten(y, opts...))
	defer stopY()

	for i := 0; ; i++ {
		left, err, okX := nextX()
		if err != nil {
			return Mismatch{}, err
		}
		right, err, okY := nextY()
		if err != nil {
			return Mismatch{}, err
		}

		switch {
		case !okX && !okY:
			return Mismatch{Equal: true, Index: i}, nil
		case !okX:
			return Mismatch{Index: i, Right: right, Reason: ReasonLeftShorter}, nil
		case !okY:
			return Mismatch{Index: i, Left: left, Reason: ReasonRightShorter}, nil
		}

		if !LeafEqual(left, right) {
			return Mismatch{Index: i, Left: left, Right: right, Reason: ReasonLeaf}, nil
		}
	}
}

// IsEqualToDefault reports whether v is quasi-equal to the zero value of its declared type T.
func IsEqualToDefault[T any](v T, opts ...Option) (bool, error) {
	var zero T
	return Equal(v, zero, opts...)
}

// LeafEqual reports whether two leaves are equal under their natural equality.
//
// Nil references are equal to each other and to nothing else. Values of
// different dynamic types are never equal. Floating point NaN equals NaN so
// that every value equals itself. Types with an Equal(T) bool method, such as
// time.Time, are compared with it; other comparable values use ==. Funcs are
// equal when they are the same func, and any other value is compared
// structurally under the same rules.
func LeafEqual(a, b any) bool {
	nilA, nilB := isNil(a), isNil(b)
	if nilA || nilB {
		return nilA && nilB
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Float32, reflect.Float64:
		fa, fb := ra.Float(), rb.Float()
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	case reflect.Complex64, reflect.Complex128:
		ca, cb := ra.Complex(), rb.Complex()
		return ca == cb || (cmplx.IsNaN(ca) && cmplx.IsNaN(cb))
	}

	if eq, ok := callEqual(ra, rb); ok {
		return eq
	}
	if ra.Comparable() && rb.Comparable() {
		return a == b
	}
	return valueEqual(ra, rb, make(map[visit]struct{}))
}

// visit records a pair of references already under comparison.
type visit struct {
	a, b uintptr
	typ  reflect.Type
}

// valueEqual compares two values of the same type field by field.
// It reads unexported state through kind accessors, so it also works on
// values that cannot be converted back to an interface.
func valueEqual(a, b reflect.Value, seen map[visit]struct{}) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}

	switch a.Kind() {
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		fa, fb := a.Float(), b.Float()
		return fa == fb || (math.IsNaN(fa) && math.IsNaN(fb))
	case reflect.Complex64, reflect.Complex128:
		ca, cb := a.Complex(), b.Complex()
		return ca == cb || (cmplx.IsNaN(ca) && cmplx.IsNaN(cb))
	case reflect.String:
		return a.String() == b.String()
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	case reflect.Struct:
		for i := range a.NumField() {
			if !valueEqual(a.Field(i), b.Field(i), seen) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := range a.Len() {
			if !valueEqual(a.Index(i), b.Index(i), seen) {
				return false
			}
		}
		return true
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() && b.IsNil()
		}
		return valueEqual(a.Elem(), b.Elem(), seen)
	}

	// Pointers, slices and maps.
	if a.IsNil() || b.IsNil() {
		return a.IsNil() && b.IsNil()
	}
	if a.Pointer() == b.Pointer() && (a.Kind() != reflect.Slice || a.Len() == b.Len()) {
		return true
	}
	v := visit{a: a.Pointer(), b: b.Pointer(), typ: a.Type()}
	if _, ok := seen[v]; ok {
		return true
	}
	seen[v] = struct{}{}

	switch a.Kind() {
	case reflect.Pointer:
		return valueEqual(a.Elem(), b.Elem(), seen)
	case reflect.Slice:
		if a.Len() != b.Len() {
			return false
		}
		for i := range a.Len() {
			if !valueEqual(a.Index(i), b.Index(i), seen) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !valueEqual(iter.Value(), other, seen) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// callEqual uses an Equal(T) bool method of a when it accepts b.
func callEqual(a, b reflect.Value) (bool, bool) {
	m := a.MethodByName("Equal")
	if !m.IsValid() {
		return false, false
	}
	mt := m.Type()
	if mt.NumIn() != 1 || mt.NumOut() != 1 || mt.Out(0).Kind() != reflect.Bool || !b.Type().AssignableTo(mt.In(0)) {
		return false, false
	}
	return m.Call([]reflect.Value{b})[0].Bool(), true
}
