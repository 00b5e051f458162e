package mphf

import (
	"unsafe"

	"github.com/spaolacci/murmur3"
)

// Unassigned marks a seed table entry whose bucket received no keys.
// No key of the build set hashes to such a bucket, so lookups that land on
// it fail with ErrUndefinedKey.
const Unassigned = ^uint32(0)

// Hash is the seeded MurmurHash3 (x86_32) primitive both levels of the
// function are built on. Seed 0 selects the bucket; the bucket's seed selects
// the slot.
func Hash(data []byte, seed uint32) uint32 {
	return murmur3.Sum32WithSeed(data, seed)
}

// HashString hashes the bytes of s without copying them.
func HashString(s string, seed uint32) uint32 {
	return murmur3.Sum32WithSeed(stringBytes(s), seed)
}

// stringBytes returns a read-only view of s. The hash never writes to its
// input, so sharing the backing array is safe.
func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// reduce maps a 32-bit hash onto [0, n) by modulo. n must be positive.
func reduce(h uint32, n int) int {
	return int(uint64(h) % uint64(n))
}
