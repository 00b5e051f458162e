package mphf

import (
	"fmt"
	"iter"
	"slices"

	mphferrors "github.com/tamirms/mphf/errors"
)

// Table is a static map from the keys of its build set to values of type V,
// stored in minimal perfect hash order.
//
// A Table holds exactly the triple that has to be persisted to reproduce
// lookups: the seed table, the reordered keys and the reordered values.
// It is immutable and safe for concurrent use.
type Table[V any] struct {
	seeds  []uint32
	keys   []string
	values []V // nil for keys-only tables
}

// New builds a Table over keys and their values. values[i] is the value of
// keys[i]; a nil values slice builds a keys-only table. The inputs are copied
// and left untouched.
//
// seedsLen and maxSeed are passed to Build. DefaultSeedsLen gives a
// reasonable seedsLen for a key count.
func New[V any](keys []string, values []V, seedsLen int, maxSeed uint32, opts ...BuildOption) (*Table[V], error) {
	if values != nil && len(values) != len(keys) {
		return nil, fmt.Errorf("%w: %d keys, %d values", mphferrors.ErrLengthMismatch, len(keys), len(values))
	}

	seeds, err := Build(keys, seedsLen, maxSeed, opts...)
	if err != nil {
		return nil, err
	}

	t := &Table[V]{
		seeds:  seeds,
		keys:   slices.Clone(keys),
		values: slices.Clone(values),
	}
	if err := ReorderValues(t.keys, t.seeds, t.values); err != nil {
		return nil, fmt.Errorf("reorder: %w", err)
	}
	return t, nil
}

// FromParts reconstructs a Table from a persisted seed table and keys and
// values already in slot order. It returns ErrNotReordered if some keys[i]
// does not resolve to slot i. The slices are retained, not copied.
func FromParts[V any](seeds []uint32, keys []string, values []V) (*Table[V], error) {
	if values != nil && len(values) != len(keys) {
		return nil, fmt.Errorf("%w: %d keys, %d values", mphferrors.ErrLengthMismatch, len(keys), len(values))
	}
	if len(seeds) == 0 {
		return nil, mphferrors.ErrInvalidConfiguration
	}
	for i, key := range keys {
		j, err := Index(key, seeds, len(keys))
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		if j != i {
			return nil, fmt.Errorf("%w: key %q is at %d, resolves to %d", mphferrors.ErrNotReordered, key, i, j)
		}
	}
	return &Table[V]{seeds: seeds, keys: keys, values: values}, nil
}

// DefaultSeedsLen returns a seeds length of about four keys per bucket.
// Smaller buckets make the search faster at the cost of a larger seed table.
func DefaultSeedsLen(numKeys int) int {
	return max(1, numKeys/4)
}

// Len returns the number of keys.
func (t *Table[V]) Len() int {
	return len(t.keys)
}

// Seeds returns the seed table. The slice must not be modified.
func (t *Table[V]) Seeds() []uint32 {
	return t.seeds
}

// Keys returns the keys in slot order. The slice must not be modified.
func (t *Table[V]) Keys() []string {
	return t.keys
}

// Values returns the values in slot order, or nil for a keys-only table.
// The slice must not be modified.
func (t *Table[V]) Values() []V {
	return t.values
}

// HasValues reports whether the table stores values.
func (t *Table[V]) HasValues() bool {
	return t.values != nil
}

// Index returns the slot of key, or ErrNotFound if key is not in the table.
func (t *Table[V]) Index(key string) (int, error) {
	i, err := Index(key, t.seeds, len(t.keys))
	if err != nil {
		return 0, mphferrors.ErrNotFound
	}
	if t.keys[i] != key {
		return 0, mphferrors.ErrNotFound
	}
	return i, nil
}

// Contains reports whether key is in the table.
func (t *Table[V]) Contains(key string) bool {
	_, err := t.Index(key)
	return err == nil
}

// Value returns the value of key. It returns ErrNoValues for a keys-only
// table and ErrNotFound if key is not in the table.
func (t *Table[V]) Value(key string) (V, error) {
	var zero V
	if t.values == nil {
		return zero, mphferrors.ErrNoValues
	}
	i, err := t.Index(key)
	if err != nil {
		return zero, err
	}
	return t.values[i], nil
}

// All iterates over key/value pairs in slot order. Keys-only tables yield
// the zero value of V.
func (t *Table[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		var zero V
		for i, key := range t.keys {
			v := zero
			if t.values != nil {
				v = t.values[i]
			}
			if !yield(key, v) {
				return
			}
		}
	}
}
