package domain

import (
	"reflect"
	"time"
)

var timeType = reflect.TypeFor[time.Time]()

// IsLeaf reports whether v is an atomic unit of comparison.
//
// Leaves are nil values, strings, booleans, numbers, times and durations,
// funcs and channels, structs without exported fields, and Projectors that
// declare no attributes. Pointers and interfaces are classified by what they
// point to. Everything else is a composite.
func IsLeaf(v any) bool {
	return expand(v).leaf
}

// expansion is the classification of a single value.
// Leaves carry their comparable value; composites carry their children.
type expansion struct {
	leaf     bool
	value    any
	children childList
	id       identity
	typ      reflect.Type
}

// expand classifies v and, for composites, prepares its projection.
// Children are read lazily through the returned childList.
func expand(v any) expansion {
	rv := reflect.ValueOf(v)
	var id identity

	for {
		if !rv.IsValid() || isNilValue(rv) {
			return expansion{leaf: true}
		}
		if !id.valid {
			id = identityOf(rv)
		}

		if rv.CanInterface() {
			switch c := rv.Interface().(type) {
			case Sequence:
				return expansion{children: sequenceList(c), id: id, typ: rv.Type()}
			case Projector:
				attrs := c.Attributes()
				if len(attrs) == 0 {
					return expansion{leaf: true, value: c}
				}
				return expansion{children: attributeList(rv.Type(), attrs), id: id, typ: rv.Type()}
			}
		}

		switch rv.Kind() {
		case reflect.Pointer, reflect.Interface:
			rv = rv.Elem()
			continue
		case reflect.Struct:
			if rv.Type() == timeType {
				return leafOf(rv)
			}
			plan := structPlan(rv.Type())
			if len(plan) == 0 {
				return leafOf(rv)
			}
			return expansion{children: fieldList(rv, plan), id: id, typ: rv.Type()}
		case reflect.Slice, reflect.Array:
			return expansion{children: indexList(rv), id: id, typ: rv.Type()}
		case reflect.Map:
			return expansion{children: mapList(rv), id: id, typ: rv.Type()}
		default:
			return leafOf(rv)
		}
	}
}

func leafOf(rv reflect.Value) expansion {
	if !rv.CanInterface() {
		return expansion{leaf: true}
	}
	return expansion{leaf: true, value: rv.Interface()}
}

// isNilValue reports whether rv holds a nil reference of any nillable kind.
func isNilValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}

// isNil reports whether v is nil or a typed nil reference.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	return isNilValue(reflect.ValueOf(v))
}

// identity is the reference identity of a composite, used to spot cycles.
// Only pointers, maps and non-empty slices have one.
type identity struct {
	valid bool
	ptr   uintptr
	n     int
	typ   reflect.Type
}

func identityOf(rv reflect.Value) identity {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		return identity{valid: true, ptr: rv.Pointer(), typ: rv.Type()}
	case reflect.Slice:
		if rv.Len() == 0 {
			return identity{}
		}
		return identity{valid: true, ptr: rv.Pointer(), n: rv.Len(), typ: rv.Type()}
	default:
		return identity{}
	}
}
