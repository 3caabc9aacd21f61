package cache

import (
	"sync"

	"go.trai.ch/quasi/internal/core/domain"
)

// Cache maps keys to values, matching keys by quasi-equality.
//
// Keys are bucketed by Fingerprint and compared with domain.Equal inside a
// bucket. Stored keys must not be mutated afterwards.
type Cache[V any] struct {
	mu      sync.RWMutex
	buckets map[uint64][]slot[V]
	size    int
	opts    []domain.Option
}

type slot[V any] struct {
	key   any
	entry Entry[V]
}

// New creates an empty cache. opts bound every traversal of a key.
func New[V any](opts ...domain.Option) *Cache[V] {
	return &Cache[V]{
		buckets: make(map[uint64][]slot[V]),
		opts:    opts,
	}
}

// Put stores v under key, replacing the value of a quasi-equal key.
func (c *Cache[V]) Put(key any, v V) error {
	fp, err := Fingerprint(key, c.opts...)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.buckets[fp]
	i, err := c.find(bucket, key)
	if err != nil {
		return err
	}
	if i >= 0 {
		bucket[i].entry = NewEntry(v)
		return nil
	}
	c.buckets[fp] = append(bucket, slot[V]{key: key, entry: NewEntry(v)})
	c.size++
	return nil
}

// Get returns the entry stored under a key quasi-equal to key.
func (c *Cache[V]) Get(key any) (Entry[V], bool, error) {
	fp, err := Fingerprint(key, c.opts...)
	if err != nil {
		return Entry[V]{}, false, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	bucket := c.buckets[fp]
	i, err := c.find(bucket, key)
	if err != nil || i < 0 {
		return Entry[V]{}, false, err
	}
	return bucket[i].entry, true, nil
}

// Invalidate removes the entry stored under a key quasi-equal to key.
// It reports whether an entry was removed.
func (c *Cache[V]) Invalidate(key any) (bool, error) {
	fp, err := Fingerprint(key, c.opts...)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	bucket := c.buckets[fp]
	i, err := c.find(bucket, key)
	if err != nil || i < 0 {
		return false, err
	}

	bucket = append(bucket[:i], bucket[i+1:]...)
	if len(bucket) == 0 {
		delete(c.buckets, fp)
	} else {
		c.buckets[fp] = bucket
	}
	c.size--
	return true, nil
}

// Len returns the number of stored entries.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.size
}

func (c *Cache[V]) find(bucket []slot[V], key any) (int, error) {
	for i, s := range bucket {
		eq, err := domain.Equal(s.key, key, c.opts...)
		if err != nil {
			return -1, err
		}
		if eq {
			return i, nil
		}
	}
	return -1, nil
}
