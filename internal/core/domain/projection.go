package domain

import (
	"cmp"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/zerr"
)

// Project returns the immediate children of a composite in projection order.
//
// Sequences, slices and arrays project to their elements in iteration order.
// Maps project to MapEntry values ordered by key. Projectors and structs
// project to their attribute values ordered by attribute name, so two
// unrelated types with matching attribute names line up position by position.
//
// Calling Project on a leaf returns ErrNotComposite.
func Project(v any) ([]any, error) {
	e := expand(v)
	if e.leaf {
		return nil, zerr.With(zerr.Wrap(ErrNotComposite, "cannot project a leaf"), "type", fmt.Sprintf("%T", v))
	}
	return e.children.collect()
}

// childList is a lazily read projection.
// When load is set, the children are materialized on first use.
type childList struct {
	n    int
	get  func(i int) (any, error)
	load func() childList
}

func (l *childList) resolve() {
	if l.load != nil {
		*l = l.load()
	}
}

func (l *childList) size() int {
	l.resolve()
	return l.n
}

func (l *childList) at(i int) (any, error) {
	l.resolve()
	return l.get(i)
}

func (l *childList) collect() ([]any, error) {
	out := make([]any, 0, l.size())
	for i := range l.n {
		child, err := l.at(i)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// sequenceList defers draining a Sequence until its children are read.
func sequenceList(s Sequence) childList {
	return childList{load: func() childList {
		elems := slices.Collect(s.Elements())
		return childList{
			n:   len(elems),
			get: func(i int) (any, error) { return elems[i], nil },
		}
	}}
}

func indexList(rv reflect.Value) childList {
	return childList{
		n:   rv.Len(),
		get: func(i int) (any, error) { return rv.Index(i).Interface(), nil },
	}
}

func attributeList(t reflect.Type, attrs []Attribute) childList {
	sorted := sortedAttributes(attrs)
	return childList{
		n: len(sorted),
		get: func(i int) (any, error) {
			attr := sorted[i]
			if attr.Get == nil {
				return nil, nil
			}
			v, err := attr.Get()
			if err != nil {
				return nil, attributeError(t, attr.Name, err)
			}
			return v, nil
		},
	}
}

func fieldList(rv reflect.Value, plan []fieldPlan) childList {
	return childList{
		n: len(plan),
		get: func(i int) (any, error) {
			f := plan[i]
			fv, err := rv.FieldByIndexErr(f.index)
			if err != nil {
				return nil, attributeError(rv.Type(), f.name, err)
			}
			if !fv.CanInterface() {
				return nil, attributeError(rv.Type(), f.name, errUnreadableField)
			}
			return fv.Interface(), nil
		},
	}
}

var errUnreadableField = zerr.New("field is not readable")

// mapList projects a map to MapEntry values sorted by key.
// Entries are collected with MapRange so keys that never compare equal (NaN) are kept.
func mapList(rv reflect.Value) childList {
	return childList{load: func() childList {
		type kv struct{ k, v reflect.Value }
		entries := make([]kv, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			entries = append(entries, kv{k: iter.Key(), v: iter.Value()})
		}
		slices.SortStableFunc(entries, func(a, b kv) int {
			return compareKeys(a.k, b.k)
		})
		return childList{
			n: len(entries),
			get: func(i int) (any, error) {
				return MapEntry{Key: entries[i].k.Interface(), Value: entries[i].v.Interface()}, nil
			},
		}
	}}
}

// compareKeys orders map keys. Ordered kinds compare naturally; keys of
// different dynamic types order by type name; anything else falls back to
// its Go-syntax rendering.
func compareKeys(a, b reflect.Value) int {
	if a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	if a.Type() != b.Type() {
		return strings.Compare(a.Type().String(), b.Type().String())
	}

	switch a.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(a.Int(), b.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(a.Uint(), b.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(a.Float(), b.Float())
	case reflect.String:
		return strings.Compare(a.String(), b.String())
	case reflect.Bool:
		switch {
		case a.Bool() == b.Bool():
			return 0
		case b.Bool():
			return -1
		default:
			return 1
		}
	default:
		return strings.Compare(fmt.Sprintf("%#v", a.Interface()), fmt.Sprintf("%#v", b.Interface()))
	}
}

// fieldPlan locates one exported field of a struct type.
type fieldPlan struct {
	name  string
	index []int
}

// plans caches the projection plan of every struct type seen so far.
var plans sync.Map // reflect.Type -> []fieldPlan

// structPlan returns the exported fields of t sorted by name.
//
// Fields promoted from embedded structs count as fields of t; the embedded
// field itself is dropped when it promotes anything. An embedded type that
// promotes nothing (time.Time, a named string) is kept as a regular field.
func structPlan(t reflect.Type) []fieldPlan {
	if cached, ok := plans.Load(t); ok {
		return cached.([]fieldPlan)
	}

	fields := reflect.VisibleFields(t)
	plan := make([]fieldPlan, 0, len(fields))
	for _, f := range fields {
		if keepField(fields, f) {
			plan = append(plan, fieldPlan{name: f.Name, index: f.Index})
		}
	}
	slices.SortStableFunc(plan, func(a, b fieldPlan) int {
		return strings.Compare(a.name, b.name)
	})

	actual, _ := plans.LoadOrStore(t, plan)
	return actual.([]fieldPlan)
}

func keepField(fields []reflect.StructField, f reflect.StructField) bool {
	if !f.IsExported() {
		return false
	}
	if !f.Anonymous {
		return true
	}
	for _, g := range fields {
		if len(g.Index) > len(f.Index) && slices.Equal(g.Index[:len(f.Index)], f.Index) && keepField(fields, g) {
			return false
		}
	}
	return true
}

// attributeError reports a failed attribute read while keeping the cause reachable.
func attributeError(t reflect.Type, name string, cause error) error {
	detail := zerr.With(zerr.Wrap(cause, "failed to read attribute"), "attribute", name)
	detail = zerr.With(detail, "type", t.String())
	return errors.Join(ErrAttributeAccess, detail)
}
