package cache_test

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/quasi/internal/adapters/cache"
	"go.trai.ch/quasi/internal/core/domain"
)

type person struct {
	Name string
	Age  int
}

type personDTO struct {
	Age  int
	Name string
}

type loop struct {
	Next *loop
}

type hooked struct {
	Name string
	Hook func()
}

type sealed struct {
	fn   func()
	tags []string
}

func TestCache_PutGet(t *testing.T) {
	c := cache.New[string]()

	require.NoError(t, c.Put(person{Name: "Alice", Age: 30}, "first"))

	entry, ok, err := c.Get(personDTO{Name: "Alice", Age: 30})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", entry.Value())

	_, ok, err = c.Get(personDTO{Name: "Bob", Age: 30})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_PutReplacesQuasiEqualKey(t *testing.T) {
	c := cache.New[int]()

	require.NoError(t, c.Put([]any{30, "Alice"}, 1))
	require.NoError(t, c.Put(person{Name: "Alice", Age: 30}, 2))
	assert.Equal(t, 1, c.Len())

	entry, ok, err := c.Get([]any{30, "Alice"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, entry.Value())
}

func TestCache_Invalidate(t *testing.T) {
	c := cache.New[int]()
	require.NoError(t, c.Put("a", 1))
	require.NoError(t, c.Put("b", 2))

	removed, err := c.Invalidate("a")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, c.Len())

	removed, err = c.Invalidate("a")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCache_NilKey(t *testing.T) {
	c := cache.New[string]()
	require.NoError(t, c.Put(nil, "null"))

	entry, ok, err := c.Get((*person)(nil))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "null", entry.Value())
}

func TestCache_KeyErrors(t *testing.T) {
	l := &loop{}
	l.Next = l

	c := cache.New[int]()
	require.ErrorIs(t, c.Put(l, 1), domain.ErrCycleDetected)

	_, _, err := c.Get(l)
	require.ErrorIs(t, err, domain.ErrCycleDetected)

	limited := cache.New[int](domain.WithMaxLeaves(1))
	require.ErrorIs(t, limited.Put([]int{1, 2}, 1), domain.ErrBudgetExceeded)
}

func TestCache_Concurrent(t *testing.T) {
	c := cache.New[int]()

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Put([]int{i % 8}, i))
			_, _, err := c.Get([]int{i % 8})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, c.Len())
}

func TestFingerprint_ConsistentWithQuasiEquality(t *testing.T) {
	at := time.Date(2024, 5, 6, 7, 8, 9, 10, time.UTC)
	hook := func() {}

	pairs := [][2]any{
		{person{Name: "Alice", Age: 30}, personDTO{Name: "Alice", Age: 30}},
		{[]float64{0}, []float64{math.Copysign(0, -1)}},
		{[]float64{math.NaN()}, []float64{math.NaN()}},
		{at, at.In(time.FixedZone("CET", 3600))},
		{nil, (*person)(nil)},
		{hooked{Name: "a", Hook: hook}, hooked{Name: "a", Hook: hook}},
		{sealed{fn: hook, tags: []string{"x"}}, sealed{fn: hook, tags: []string{"x"}}},
		{map[string]int{"b": 2, "a": 1}, domain.Record{{Name: "x", Value: domain.MapEntry{Key: "a", Value: 1}}, {Name: "y", Value: domain.MapEntry{Key: "b", Value: 2}}}},
	}

	for _, p := range pairs {
		eq, err := domain.Equal(p[0], p[1])
		require.NoError(t, err)
		require.True(t, eq, "%#v", p)

		a, err := cache.Fingerprint(p[0])
		require.NoError(t, err)
		b, err := cache.Fingerprint(p[1])
		require.NoError(t, err)
		assert.Equal(t, a, b, "%#v", p)
	}
}

func TestFingerprint_SeparatesLeaves(t *testing.T) {
	a, err := cache.Fingerprint([]string{"ab", "c"})
	require.NoError(t, err)
	b, err := cache.Fingerprint([]string{"a", "bc"})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	c, err := cache.Fingerprint([]any{1})
	require.NoError(t, err)
	d, err := cache.Fingerprint([]any{int64(1)})
	require.NoError(t, err)
	assert.NotEqual(t, c, d)
}

func TestCache_FuncKey(t *testing.T) {
	hook := func() {}
	c := cache.New[string]()

	require.NoError(t, c.Put(hooked{Name: "a", Hook: hook}, "first"))

	got, ok, err := c.Get(hooked{Name: "a", Hook: hook})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "first", got.Value())
	assert.Equal(t, 1, c.Len())
}
