package domain_test

import (
	"errors"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quasi/internal/core/domain"
	"go.trai.ch/zerr"
)

type person struct {
	Name string
	Age  int
}

type personView struct {
	Age  int
	Name string
}

type point struct {
	X int
	Y int
}

type node struct {
	Name string
	Next *node
}

type chain struct {
	Next *chain
	V    int
}

type base struct {
	ID int
}

type user struct {
	base
	Name string
}

type flatUser struct {
	ID   int
	Name string
}

type userRef struct {
	*base
	Name string
}

type stamped struct {
	time.Time
}

type opaque struct {
	secret int
}

type withHook struct {
	Name string
	Hook func()
}

type hidden struct {
	fn   func()
	data map[string][]int
}

// drainCounter counts how often its elements are requested.
type drainCounter struct {
	calls *int
}

func (d drainCounter) Elements() iter.Seq[any] {
	*d.calls++
	return func(yield func(any) bool) {
		_ = yield("only") && yield("twice")
	}
}

type countdown int

func (c countdown) Elements() iter.Seq[any] {
	return func(yield func(any) bool) {
		for i := int(c); i > 0; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

type lazyGetter struct {
	first any
	fail  error
}

func (p lazyGetter) Attributes() []domain.Attribute {
	return []domain.Attribute{
		{Name: "Zeta", Get: func() (any, error) { return nil, p.fail }},
		domain.Const("Alpha", p.first),
	}
}

func TestIsLeaf(t *testing.T) {
	n := 5
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "typed nil pointer", value: (*point)(nil), want: true},
		{name: "nil slice", value: []int(nil), want: true},
		{name: "string", value: "x", want: true},
		{name: "int", value: 42, want: true},
		{name: "float", value: 1.5, want: true},
		{name: "bool", value: true, want: true},
		{name: "time", value: time.Now(), want: true},
		{name: "duration", value: 3 * time.Second, want: true},
		{name: "pointer to int", value: &n, want: true},
		{name: "struct without exported fields", value: opaque{secret: 1}, want: true},
		{name: "empty record", value: domain.Record{}, want: true},
		{name: "point", value: point{X: 1, Y: 2}, want: false},
		{name: "pointer to point", value: &point{}, want: false},
		{name: "empty slice", value: []int{}, want: false},
		{name: "slice", value: []int{1}, want: false},
		{name: "array", value: [2]int{1, 2}, want: false},
		{name: "map", value: map[string]int{}, want: false},
		{name: "sequence", value: countdown(2), want: false},
		{name: "embedded time", value: stamped{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.IsLeaf(tt.value))
			// Classification must not depend on how often it is asked.
			assert.Equal(t, tt.want, domain.IsLeaf(tt.value))
		})
	}
}

func TestIsLeaf_SequenceNotDrained(t *testing.T) {
	calls := 0
	seq := drainCounter{calls: &calls}

	assert.False(t, domain.IsLeaf(seq))
	assert.False(t, domain.IsLeaf(map[string]drainCounter{"a": seq}))
	assert.Equal(t, 0, calls)

	leaves, err := domain.Leaves(seq)
	require.NoError(t, err)
	assert.Equal(t, []any{"only", "twice"}, leaves)
	assert.Equal(t, 1, calls)
}

func TestProject(t *testing.T) {
	t.Run("struct fields sorted by name", func(t *testing.T) {
		children, err := domain.Project(person{Name: "Alice", Age: 30})
		require.NoError(t, err)
		assert.Equal(t, []any{30, "Alice"}, children)
	})

	t.Run("slice keeps its own order", func(t *testing.T) {
		children, err := domain.Project([]string{"c", "a", "b"})
		require.NoError(t, err)
		assert.Equal(t, []any{"c", "a", "b"}, children)
	})

	t.Run("map entries sorted by key", func(t *testing.T) {
		children, err := domain.Project(map[int]string{10: "j", 2: "b", 1: "a"})
		require.NoError(t, err)
		assert.Equal(t, []any{
			domain.MapEntry{Key: 1, Value: "a"},
			domain.MapEntry{Key: 2, Value: "b"},
			domain.MapEntry{Key: 10, Value: "j"},
		}, children)
	})

	t.Run("promoted fields replace the embedded struct", func(t *testing.T) {
		children, err := domain.Project(user{base: base{ID: 7}, Name: "x"})
		require.NoError(t, err)
		assert.Equal(t, []any{7, "x"}, children)
	})

	t.Run("stable across instances", func(t *testing.T) {
		first, err := domain.Project(point{X: 1, Y: 2})
		require.NoError(t, err)
		second, err := domain.Project(point{X: 1, Y: 2})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("leaf is rejected", func(t *testing.T) {
		_, err := domain.Project(42)
		require.ErrorIs(t, err, domain.ErrNotComposite)
	})
}

func TestClassify(t *testing.T) {
	n := 5

	leaf, err := domain.Classify(&n)
	require.NoError(t, err)
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, 5, leaf.Value)

	null, err := domain.Classify(nil)
	require.NoError(t, err)
	assert.Equal(t, domain.KindLeaf, null.Kind)
	assert.Nil(t, null.Value)

	composite, err := domain.Classify(point{X: 1, Y: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.KindComposite, composite.Kind)
	assert.Equal(t, []any{1, 2}, composite.Children)
	assert.Equal(t, "composite", composite.Kind.String())
}

func TestLeaves(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []any
	}{
		{name: "age precedes name", value: person{Age: 30, Name: "Alice"}, want: []any{30, "Alice"}},
		{name: "nil is one leaf", value: nil, want: []any{nil}},
		{name: "nil slice is one leaf", value: []int(nil), want: []any{nil}},
		{name: "empty slice has no leaves", value: []int{}, want: []any{}},
		{name: "nested", value: []point{{X: 1, Y: 2}, {X: 3, Y: 4}}, want: []any{1, 2, 3, 4}},
		{name: "missing reference", value: node{Name: "a"}, want: []any{"a", nil}},
		{name: "map", value: map[string]int{"b": 2, "a": 1}, want: []any{"a", 1, "b", 2}},
		{name: "sequence", value: countdown(3), want: []any{3, 2, 1}},
		{name: "record", value: domain.Record{{Name: "name", Value: "Alice"}, {Name: "age", Value: 30}}, want: []any{30, "Alice"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := domain.Leaves(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFlatten_LengthDecomposition(t *testing.T) {
	values := []any{
		person{Name: "Alice", Age: 30},
		[]any{1, []int{2, 3}, nil, point{}},
		map[string][]int{"a": {1}, "b": {2, 3}},
		node{Name: "a", Next: &node{Name: "b"}},
	}

	for _, v := range values {
		children, err := domain.Project(v)
		require.NoError(t, err)

		total := 0
		for _, child := range children {
			leaves, err := domain.Leaves(child)
			require.NoError(t, err)
			total += len(leaves)
		}

		leaves, err := domain.Leaves(v)
		require.NoError(t, err)
		assert.Len(t, leaves, total, "%T", v)
	}
}

func TestFlatten_Restartable(t *testing.T) {
	seq := domain.Flatten([]int{1, 2, 3})

	collect := func() []any {
		var out []any
		for leaf, err := range seq {
			require.NoError(t, err)
			out = append(out, leaf)
		}
		return out
	}

	assert.Equal(t, collect(), collect())

	var first any
	for leaf := range seq {
		first = leaf
		break
	}
	assert.Equal(t, 1, first)
}

func TestFlatten_Cycle(t *testing.T) {
	t.Run("self reference through a field", func(t *testing.T) {
		z := &node{Name: "z"}
		z.Next = z

		_, err := domain.Leaves(z)
		require.ErrorIs(t, err, domain.ErrCycleDetected)

		var zErr *zerr.Error
		require.True(t, errors.As(err, &zErr))
		typ, ok := zErr.Metadata()["type"].(string)
		assert.True(t, ok)
		assert.NotEmpty(t, typ)
	})

	t.Run("two node loop", func(t *testing.T) {
		a := &node{Name: "a"}
		b := &node{Name: "b", Next: a}
		a.Next = b

		_, err := domain.Leaves(a)
		require.ErrorIs(t, err, domain.ErrCycleDetected)
	})

	t.Run("slice containing itself", func(t *testing.T) {
		s := make([]any, 1)
		s[0] = s

		_, err := domain.Leaves(s)
		require.ErrorIs(t, err, domain.ErrCycleDetected)
	})

	t.Run("map containing itself", func(t *testing.T) {
		m := map[string]any{}
		m["self"] = m

		_, err := domain.Leaves(m)
		require.ErrorIs(t, err, domain.ErrCycleDetected)
	})

	t.Run("shared reference is not a cycle", func(t *testing.T) {
		shared := &point{X: 1, Y: 2}
		pair := struct{ A, B *point }{A: shared, B: shared}

		leaves, err := domain.Leaves(pair)
		require.NoError(t, err)
		assert.Equal(t, []any{1, 2, 1, 2}, leaves)
	})
}

func TestFlatten_DeepGraph(t *testing.T) {
	const depth = 100_000

	var head *chain
	for i := range depth {
		head = &chain{Next: head, V: i}
	}

	leaves, err := domain.Leaves(head)
	require.NoError(t, err)
	assert.Len(t, leaves, depth+1)
	assert.Nil(t, leaves[0])
}

func TestFlatten_Budget(t *testing.T) {
	t.Run("depth", func(t *testing.T) {
		_, err := domain.Leaves([][]int{{1}}, domain.WithMaxDepth(2))
		require.NoError(t, err)

		_, err = domain.Leaves([][][]int{{{1}}}, domain.WithMaxDepth(2))
		require.ErrorIs(t, err, domain.ErrBudgetExceeded)
	})

	t.Run("leaves", func(t *testing.T) {
		_, err := domain.Leaves([]int{1, 2, 3}, domain.WithMaxLeaves(3))
		require.NoError(t, err)

		_, err = domain.Leaves([]int{1, 2, 3}, domain.WithMaxLeaves(2))
		require.ErrorIs(t, err, domain.ErrBudgetExceeded)
	})

	t.Run("zero means unlimited", func(t *testing.T) {
		_, err := domain.Leaves([]int{1, 2, 3}, domain.WithMaxLeaves(0), domain.WithMaxDepth(0))
		require.NoError(t, err)
	})
}

func TestFlatten_AttributeAccess(t *testing.T) {
	t.Run("getter failure propagates", func(t *testing.T) {
		boom := errors.New("boom")

		_, err := domain.Leaves(lazyGetter{first: 1, fail: boom})
		require.ErrorIs(t, err, domain.ErrAttributeAccess)
		require.ErrorIs(t, err, boom)
	})

	t.Run("nil embedded pointer", func(t *testing.T) {
		_, err := domain.Leaves(userRef{Name: "x"})
		require.ErrorIs(t, err, domain.ErrAttributeAccess)
	})

	t.Run("embedded pointer set", func(t *testing.T) {
		leaves, err := domain.Leaves(userRef{base: &base{ID: 3}, Name: "x"})
		require.NoError(t, err)
		assert.Equal(t, []any{3, "x"}, leaves)
	})
}
