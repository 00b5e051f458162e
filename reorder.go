package mphf

import (
	"fmt"

	mphferrors "github.com/tamirms/mphf/errors"
)

// Reorder permutes keys in place so that keys[i] is the key whose Index is i.
// seeds must have been built over exactly these keys.
//
// Returns ErrUndefinedKey if a key hashes to an unassigned bucket and
// ErrSlotCollision if two keys share a slot. In both cases keys is unchanged.
func Reorder(keys []string, seeds []uint32) error {
	return ReorderValues[struct{}](keys, seeds, nil)
}

// ReorderValues is Reorder for parallel key and value slices: values[i]
// moves together with keys[i]. A nil values slice reorders keys only.
// Returns ErrLengthMismatch, with both slices unchanged, if values is non-nil
// and its length differs from keys.
func ReorderValues[V any](keys []string, seeds []uint32, values []V) error {
	if values != nil && len(values) != len(keys) {
		return fmt.Errorf("%w: %d keys, %d values", mphferrors.ErrLengthMismatch, len(keys), len(values))
	}

	// Resolve every target first so that a bad key or seed table fails before
	// anything moves.
	targets, err := slotsOf(keys, seeds)
	if err != nil {
		return err
	}

	// Cycle-following permutation: keep swapping the element at i into its
	// own slot until the element that lands at i belongs there. Every swap
	// places one element for good, so there are at most len(keys) swaps.
	for i := range keys {
		for targets[i] != i {
			j := targets[i]
			keys[i], keys[j] = keys[j], keys[i]
			targets[i], targets[j] = targets[j], targets[i]
			if values != nil {
				values[i], values[j] = values[j], values[i]
			}
		}
	}
	return nil
}

// slotsOf returns the slot of every key and checks that the slots form a
// permutation of [0, len(keys)).
func slotsOf(keys []string, seeds []uint32) ([]int, error) {
	targets := make([]int, len(keys))
	taken := make([]bool, len(keys))
	for i, key := range keys {
		j, err := Index(key, seeds, len(keys))
		if err != nil {
			return nil, fmt.Errorf("%w: key %q", err, key)
		}
		if taken[j] {
			return nil, fmt.Errorf("%w: key %q at slot %d", mphferrors.ErrSlotCollision, key, j)
		}
		taken[j] = true
		targets[i] = j
	}
	return targets, nil
}
