package domain

import (
	"iter"
	"slices"
	"strings"
)

// Attribute is a named, readable member of a composite value.
type Attribute struct {
	Name string
	// Get reads the attribute. A returned error aborts the traversal that asked for it.
	Get func() (any, error)
}

// Projector is implemented by types that declare their own attributes instead of
// having them discovered from exported struct fields.
//
// The returned order does not matter: attributes are always projected sorted by name.
type Projector interface {
	Attributes() []Attribute
}

// Sequence is implemented by types whose children are the elements they yield.
// Elements are projected in iteration order.
type Sequence interface {
	Elements() iter.Seq[any]
}

// Const returns an Attribute that always reads v.
func Const(name string, v any) Attribute {
	return Attribute{
		Name: name,
		Get:  func() (any, error) { return v, nil },
	}
}

// MapEntry is a single element of a projected map.
type MapEntry struct {
	Key   any
	Value any
}

// Field is one named value of a Record.
type Field struct {
	Name  string
	Value any
}

// Record is an ordered set of named values, typically decoded from a document.
// It projects like a struct whose exported fields are the record's field names.
type Record []Field

// Attributes implements Projector.
func (r Record) Attributes() []Attribute {
	attrs := make([]Attribute, len(r))
	for i, f := range r {
		attrs[i] = Const(f.Name, f.Value)
	}
	return attrs
}

// Get returns the value of the first field with the given name.
func (r Record) Get(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Names returns the field names in record order.
func (r Record) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// sortedAttributes returns a copy of attrs ordered by name.
// The sort is stable so duplicate names keep their declared order.
func sortedAttributes(attrs []Attribute) []Attribute {
	sorted := slices.Clone(attrs)
	slices.SortStableFunc(sorted, func(a, b Attribute) int {
		return strings.Compare(a.Name, b.Name)
	})
	return sorted
}
