package domain_test

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quasi/internal/core/domain"
)

func TestEqual_Scenarios(t *testing.T) {
	t.Run("different types with the same content", func(t *testing.T) {
		eq, err := domain.Equal(person{Name: "Alice", Age: 30}, personView{Name: "Alice", Age: 30})
		require.NoError(t, err)
		assert.True(t, eq)
	})

	t.Run("one field differs", func(t *testing.T) {
		eq, err := domain.Equal(person{Name: "Alice", Age: 30}, personView{Name: "Bob", Age: 30})
		require.NoError(t, err)
		assert.False(t, eq)
	})

	t.Run("nil handling", func(t *testing.T) {
		eq, err := domain.Equal(nil, nil)
		require.NoError(t, err)
		assert.True(t, eq)

		eq, err = domain.Equal(nil, "x")
		require.NoError(t, err)
		assert.False(t, eq)

		eq, err = domain.Equal((*point)(nil), nil)
		require.NoError(t, err)
		assert.True(t, eq)
	})

	t.Run("cycle fails the comparison", func(t *testing.T) {
		z := &node{Name: "z"}
		z.Next = z

		_, err := domain.Equal(z, z)
		require.ErrorIs(t, err, domain.ErrCycleDetected)
	})
}

func TestEqual_Reflexive(t *testing.T) {
	hook := func() {}
	values := []any{
		withHook{Name: "a", Hook: hook},
		hidden{fn: hook, data: map[string][]int{"k": {1, 2}}},
		hook,
		nil,
		42,
		"text",
		math.NaN(),
		[]any{1, "a", nil, math.Inf(1)},
		person{Name: "Alice", Age: 30},
		map[string][]int{"a": {1, 2}},
		&node{Name: "a", Next: &node{Name: "b"}},
		time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		domain.Record{{Name: "k", Value: []int{1}}},
	}

	for _, v := range values {
		eq, err := domain.Equal(v, v)
		require.NoError(t, err)
		assert.True(t, eq, "%#v", v)
	}
}

func TestEqual_Symmetric(t *testing.T) {
	pairs := [][2]any{
		{person{Name: "Alice", Age: 30}, personView{Name: "Alice", Age: 30}},
		{[]int{1, 2}, []int{1, 2, 3}},
		{nil, 0},
		{user{base: base{ID: 1}, Name: "x"}, flatUser{ID: 1, Name: "x"}},
	}

	for _, p := range pairs {
		xy, err := domain.Equal(p[0], p[1])
		require.NoError(t, err)
		yx, err := domain.Equal(p[1], p[0])
		require.NoError(t, err)
		assert.Equal(t, xy, yx, "%#v", p)
	}
}

func TestEqual_TypeIndependence(t *testing.T) {
	eq, err := domain.Equal(user{base: base{ID: 1}, Name: "x"}, flatUser{ID: 1, Name: "x"})
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = domain.Equal(
		domain.Record{{Name: "name", Value: "Alice"}, {Name: "age", Value: 30}},
		person{Name: "Alice", Age: 30},
	)
	require.NoError(t, err)
	assert.True(t, eq)

	// A plain slice lines up with any composite that has the same leaves.
	eq, err = domain.Equal([]any{30, "Alice"}, person{Name: "Alice", Age: 30})
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqual_LeafTypesAreStrict(t *testing.T) {
	eq, err := domain.Equal(30, int64(30))
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = domain.Equal("1", 1)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqual_PointerToLeaf(t *testing.T) {
	n := 5
	eq, err := domain.Equal(&n, 5)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqual_Funcs(t *testing.T) {
	hook := func() {}
	other := func() { _ = 1 }

	eq, err := domain.Equal(withHook{Name: "a", Hook: hook}, withHook{Name: "a", Hook: hook})
	require.NoError(t, err)
	assert.True(t, eq)

	eq, err = domain.Equal(withHook{Name: "a", Hook: hook}, withHook{Name: "a", Hook: other})
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = domain.Equal(hidden{fn: hook}, hidden{fn: other})
	require.NoError(t, err)
	assert.False(t, eq)

	eq, err = domain.Equal(hidden{fn: hook, data: map[string][]int{"k": {1}}}, hidden{fn: hook, data: map[string][]int{"k": {2}}})
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestEqual_NilAndEmptySlice(t *testing.T) {
	eq, err := domain.Equal([]int(nil), []int{})
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompare(t *testing.T) {
	t.Run("equal", func(t *testing.T) {
		m, err := domain.Compare([]int{1, 2}, []int{1, 2})
		require.NoError(t, err)
		assert.True(t, m.Equal)
		assert.Equal(t, 2, m.Index)
		assert.Equal(t, domain.ReasonNone, m.Reason)
	})

	t.Run("leaf differs", func(t *testing.T) {
		m, err := domain.Compare(person{Name: "Alice", Age: 30}, person{Name: "Bob", Age: 30})
		require.NoError(t, err)
		assert.False(t, m.Equal)
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, "Alice", m.Left)
		assert.Equal(t, "Bob", m.Right)
		assert.Equal(t, domain.ReasonLeaf, m.Reason)
	})

	t.Run("left shorter", func(t *testing.T) {
		m, err := domain.Compare([]int{1, 2}, []int{1, 2, 3})
		require.NoError(t, err)
		assert.False(t, m.Equal)
		assert.Equal(t, 2, m.Index)
		assert.Nil(t, m.Left)
		assert.Equal(t, 3, m.Right)
		assert.Equal(t, domain.ReasonLeftShorter, m.Reason)
	})

	t.Run("right shorter", func(t *testing.T) {
		m, err := domain.Compare([]int{1, 2, 3}, []int{1})
		require.NoError(t, err)
		assert.Equal(t, 1, m.Index)
		assert.Equal(t, domain.ReasonRightShorter, m.Reason)
		assert.Equal(t, "right has fewer leaves", m.Reason.String())
	})

	t.Run("stops at the first divergence", func(t *testing.T) {
		boom := errors.New("boom")

		m, err := domain.Compare(lazyGetter{first: 1, fail: boom}, lazyGetter{first: 2, fail: boom})
		require.NoError(t, err)
		assert.Equal(t, domain.ReasonLeaf, m.Reason)

		_, err = domain.Compare(lazyGetter{first: 1, fail: boom}, lazyGetter{first: 1, fail: boom})
		require.ErrorIs(t, err, boom)
	})

	t.Run("budget applies to both sides", func(t *testing.T) {
		_, err := domain.Compare([]int{1}, []int{1, 2, 3}, domain.WithMaxLeaves(2))
		require.ErrorIs(t, err, domain.ErrBudgetExceeded)
	})
}

func TestIsEqualToDefault(t *testing.T) {
	check := func(t *testing.T, want bool, got bool, err error) {
		t.Helper()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	t.Run("int", func(t *testing.T) {
		got, err := domain.IsEqualToDefault(0)
		check(t, true, got, err)
		got, err = domain.IsEqualToDefault(5)
		check(t, false, got, err)
	})

	t.Run("string", func(t *testing.T) {
		got, err := domain.IsEqualToDefault("")
		check(t, true, got, err)
	})

	t.Run("struct", func(t *testing.T) {
		got, err := domain.IsEqualToDefault(point{})
		check(t, true, got, err)
		got, err = domain.IsEqualToDefault(point{X: 1})
		check(t, false, got, err)
	})

	t.Run("pointer", func(t *testing.T) {
		got, err := domain.IsEqualToDefault((*point)(nil))
		check(t, true, got, err)
		got, err = domain.IsEqualToDefault(&point{})
		check(t, false, got, err)
	})

	t.Run("slice", func(t *testing.T) {
		got, err := domain.IsEqualToDefault([]int(nil))
		check(t, true, got, err)
		got, err = domain.IsEqualToDefault([]int{})
		check(t, false, got, err)
	})

	t.Run("zero values are equal to each other", func(t *testing.T) {
		eq, err := domain.Equal(person{}, personView{})
		require.NoError(t, err)
		assert.True(t, eq)
	})
}

func TestLeafEqual(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	hook := func() {}
	other := func() { _ = 1 }

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "nil nil", a: nil, b: nil, want: true},
		{name: "nil typed nil", a: nil, b: (*int)(nil), want: true},
		{name: "nil value", a: nil, b: 0, want: false},
		{name: "same int", a: 1, b: 1, want: true},
		{name: "mixed int widths", a: 1, b: int32(1), want: false},
		{name: "nan", a: math.NaN(), b: math.NaN(), want: true},
		{name: "signed zero", a: 0.0, b: math.Copysign(0, -1), want: true},
		{name: "time in another zone", a: at, b: at.In(time.FixedZone("X", 3600)), want: true},
		{name: "different instants", a: at, b: at.Add(time.Nanosecond), want: false},
		{name: "strings", a: "a", b: "b", want: false},
		{name: "same func", a: hook, b: hook, want: true},
		{name: "different funcs", a: hook, b: other, want: false},
		{name: "opaque struct with func", a: hidden{fn: hook}, b: hidden{fn: hook}, want: true},
		{name: "opaque struct with map", a: hidden{fn: hook, data: map[string][]int{}}, b: hidden{fn: hook, data: map[string][]int{}}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.LeafEqual(tt.a, tt.b))
		})
	}
}

func TestEqual_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			x := []person{{Name: "a", Age: i}, {Name: "b", Age: i}}
			y := []personView{{Name: "a", Age: i}, {Name: "b", Age: i}}
			eq, err := domain.Equal(x, y)
			assert.NoError(t, err)
			assert.True(t, eq)
		}()
	}
	wg.Wait()
}
