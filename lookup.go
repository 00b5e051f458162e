package mphf

import (
	mphferrors "github.com/tamirms/mphf/errors"
)

// Index returns the slot of key in a table of valuesLen entries built with
// seeds.
//
// Every key of the build set gets a distinct slot in [0, valuesLen). Keys
// outside the build set either fail with ErrUndefinedKey, when they hash to
// an empty bucket, or return the slot of some other key; callers that need
// membership must compare the key stored at the slot.
//
// An empty seed table or a non-positive valuesLen returns ErrNotFound.
// Index does not allocate and is safe for concurrent use.
func Index(key string, seeds []uint32, valuesLen int) (int, error) {
	if len(seeds) == 0 || valuesLen <= 0 {
		return 0, mphferrors.ErrNotFound
	}
	data := stringBytes(key)
	seed := seeds[reduce(Hash(data, 0), len(seeds))]
	if seed == Unassigned {
		return 0, mphferrors.ErrUndefinedKey
	}
	return reduce(Hash(data, seed), valuesLen), nil
}

// Get returns the element of values at the slot of key.
// See Index for the behavior on keys outside the build set.
func Get[V any](key string, seeds []uint32, values []V) (V, error) {
	var zero V
	i, err := Index(key, seeds, len(values))
	if err != nil {
		return zero, err
	}
	if i >= len(values) {
		return zero, mphferrors.ErrNotFound
	}
	return values[i], nil
}
