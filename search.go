package mphf

import (
	"math"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

const (
	// sequentialSeeds is how many candidate seeds a bucket tries on the
	// calling goroutine before the search fans out to workers. Most buckets
	// resolve well within this range, where goroutine startup would dominate.
	sequentialSeeds = 64

	// seedsPerWorker is the number of consecutive candidates each worker scans
	// per window in parallel mode.
	seedsPerWorker = 256
)

// trial is the scratch state of one candidate seed: the slots the bucket's
// keys claimed so far, overlaid on the committed tracker without copying it.
//
// Slot occupancy uses generation stamps: claimed[s] == gen means slot s was
// claimed by the current candidate. Starting a candidate bumps gen instead of
// clearing the array.
type trial struct {
	claimed []uint32
	gen     uint32
	slots   []int // slots claimed by the current candidate, in key order
}

func newTrial(numKeys int) *trial {
	return &trial{
		claimed: make([]uint32, numKeys),
		slots:   make([]int, 0, 16),
	}
}

// try reports whether seed sends every key to a slot that is free in used and
// not claimed by an earlier key of the same bucket. used is only read, so
// concurrent trials may share it. On success t.slots holds the placement.
func (t *trial) try(keys []string, seed uint32, used []bool) bool {
	t.gen++
	if t.gen == 0 {
		// Stamps wrapped; stale stamps could now read as current.
		clear(t.claimed)
		t.gen = 1
	}
	t.slots = t.slots[:0]

	n := len(used)
	for _, key := range keys {
		slot := reduce(HashString(key, seed), n)
		if used[slot] || t.claimed[slot] == t.gen {
			return false
		}
		t.claimed[slot] = t.gen
		t.slots = append(t.slots, slot)
	}
	return true
}

// searcher resolves buckets one at a time against the committed slot tracker.
type searcher struct {
	used    []bool // committed slots, one per key
	maxSeed uint32
	main    *trial
	workers []*trial // per-worker scratch, nil in sequential mode
}

func newSearcher(numKeys int, maxSeed uint32, workers int) *searcher {
	s := &searcher{
		used:    make([]bool, numKeys),
		maxSeed: maxSeed,
		main:    newTrial(numKeys),
	}
	if workers > 1 {
		s.workers = make([]*trial, workers)
		for i := range s.workers {
			s.workers[i] = newTrial(numKeys)
		}
	}
	return s
}

// search finds the smallest seed below maxSeed that places keys, commits the
// slots it claims and returns it. A failed search leaves the tracker as it was.
func (s *searcher) search(keys []string) (uint32, bool) {
	limit := s.maxSeed
	if s.workers != nil {
		limit = min(limit, sequentialSeeds)
	}
	for seed := uint32(0); seed < limit; seed++ {
		if s.main.try(keys, seed, s.used) {
			s.commit(s.main)
			return seed, true
		}
	}
	if s.workers == nil || limit == s.maxSeed {
		return 0, false
	}
	return s.searchParallel(keys, limit)
}

// searchParallel scans [from, maxSeed) in windows of len(workers)*seedsPerWorker
// candidates. Each worker takes a contiguous chunk of the window and stops at
// its first hit, or once a smaller hit is known. The smallest hit of the first
// window that has one is the seed a sequential scan would have found.
func (s *searcher) searchParallel(keys []string, from uint32) (uint32, bool) {
	chunk := uint64(seedsPerWorker)
	end := uint64(s.maxSeed)

	for lo := uint64(from); lo < end; {
		hi := min(lo+chunk*uint64(len(s.workers)), end)

		var best atomic.Uint64
		best.Store(math.MaxUint64)

		var g errgroup.Group
		for w, t := range s.workers {
			wlo := lo + uint64(w)*chunk
			if wlo >= hi {
				break
			}
			whi := min(wlo+chunk, hi)
			g.Go(func() error {
				for seed := wlo; seed < whi; seed++ {
					if seed >= best.Load() {
						return nil
					}
					if t.try(keys, uint32(seed), s.used) {
						lowerTo(&best, seed)
						return nil
					}
				}
				return nil
			})
		}
		// Workers never fail; Wait is the barrier before touching s.used.
		_ = g.Wait()

		if seed := best.Load(); seed != math.MaxUint64 {
			// Replay the winner on the main trial to recover its slots.
			if !s.main.try(keys, uint32(seed), s.used) {
				panic("mphf: winning seed failed on replay")
			}
			s.commit(s.main)
			return uint32(seed), true
		}
		lo = hi
	}
	return 0, false
}

// commit marks the slots of a successful trial as used.
func (s *searcher) commit(t *trial) {
	for _, slot := range t.slots {
		s.used[slot] = true
	}
}

// lowerTo atomically sets v to min(v, x).
func lowerTo(v *atomic.Uint64, x uint64) {
	for {
		cur := v.Load()
		if x >= cur || v.CompareAndSwap(cur, x) {
			return
		}
	}
}
