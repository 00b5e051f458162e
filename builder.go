package mphf

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	mphferrors "github.com/tamirms/mphf/errors"
)

// bucket groups the keys that share a first-level hash.
type bucket struct {
	index int // position in the seed table
	keys  []string
}

// Build computes the seed table of a minimal perfect hash function over keys.
//
// Keys are split into seedsLen buckets by Hash(key, 0) % seedsLen. Buckets are
// then resolved largest first: for each one, seeds 0, 1, 2, ... below maxSeed
// are tried until every key of the bucket lands, via Hash(key, seed) % N, on a
// slot that no other key has claimed. The returned table has seedsLen entries;
// entries of empty buckets are Unassigned.
//
// Keys must be distinct. seedsLen < 1 returns ErrInvalidConfiguration. If some
// bucket has no working seed below maxSeed the build returns
// ErrSearchExhausted and no table. A larger seedsLen is the effective remedy;
// raising maxSeed has diminishing returns.
//
// seedsLen = 1 asks for a single seed that makes Hash(key, seed) % N injective,
// which only exists for small key sets.
func Build(keys []string, seedsLen int, maxSeed uint32, opts ...BuildOption) ([]uint32, error) {
	if seedsLen < 1 {
		return nil, mphferrors.ErrInvalidConfiguration
	}

	cfg := defaultBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger.WithValues("keys", len(keys), "seedsLen", seedsLen)
	start := time.Now()

	buckets := partition(keys, seedsLen)

	seeds := make([]uint32, seedsLen)
	for i := range seeds {
		seeds[i] = Unassigned
	}

	s := newSearcher(len(keys), maxSeed, cfg.workers)
	resolved := 0
	var highest uint32
	for _, b := range buckets {
		if len(b.keys) == 0 {
			// Sorted by size, so every remaining bucket is empty too.
			break
		}
		seed, ok := s.search(b.keys)
		if !ok {
			log.V(1).Info("seed search exhausted", "bucket", b.index, "bucketSize", len(b.keys), "maxSeed", maxSeed)
			return nil, fmt.Errorf("%w: bucket %d with %d keys has no seed below %d",
				mphferrors.ErrSearchExhausted, b.index, len(b.keys), maxSeed)
		}
		seeds[b.index] = seed
		highest = max(highest, seed)
		resolved++
		log.V(2).Info("bucket resolved", "bucket", b.index, "bucketSize", len(b.keys), "seed", seed)
	}

	log.V(1).Info("seed table built",
		"buckets", resolved,
		"emptyBuckets", seedsLen-resolved,
		"largestBucket", largestBucket(buckets),
		"highestSeed", highest,
		"elapsed", time.Since(start))
	return seeds, nil
}

// partition assigns every key to its first-level bucket and returns the
// buckets ordered largest first. Ties keep ascending table order, so the
// processing order depends only on the keys.
func partition(keys []string, seedsLen int) []bucket {
	buckets := make([]bucket, seedsLen)
	for i := range buckets {
		buckets[i].index = i
	}
	for _, key := range keys {
		h := reduce(HashString(key, 0), seedsLen)
		buckets[h].keys = append(buckets[h].keys, key)
	}
	slices.SortStableFunc(buckets, func(a, b bucket) int {
		return cmp.Compare(len(b.keys), len(a.keys))
	})
	return buckets
}

func largestBucket(sorted []bucket) int {
	if len(sorted) == 0 {
		return 0
	}
	return len(sorted[0].keys)
}
