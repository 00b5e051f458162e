package mphf

import (
	"encoding/binary"
	"encoding/hex"
	"hash/fnv"
	"math/rand/v2"
	"testing"
)

// Named seeds for deterministic reproduction.
const (
	testSeed1 = 0x1234567890ABCDEF
	testSeed2 = 0xFEDCBA9876543210
)

// newTestRNG returns an RNG seeded from the test name, so every test gets its
// own reproducible key set.
func newTestRNG(t testing.TB) *rand.Rand {
	t.Helper()
	h := fnv.New128a()
	h.Write([]byte(t.Name()))
	sum := h.Sum(nil)
	s1 := binary.LittleEndian.Uint64(sum[:8])
	s2 := binary.LittleEndian.Uint64(sum[8:])
	return rand.New(rand.NewPCG(testSeed1^s1, testSeed2^s2))
}

// generateRandomKeys creates n distinct pseudo-random hex keys of keySize
// random bytes each.
func generateRandomKeys(rng *rand.Rand, n, keySize int) []string {
	seen := make(map[string]struct{}, n)
	keys := make([]string, 0, n)
	buf := make([]byte, keySize)
	for len(keys) < n {
		for i := range buf {
			buf[i] = byte(rng.Uint32())
		}
		k := hex.EncodeToString(buf)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// requireBijection fails the test unless every key resolves to a distinct
// slot in [0, len(keys)).
func requireBijection(t *testing.T, keys []string, seeds []uint32) {
	t.Helper()
	hit := make([]bool, len(keys))
	for _, k := range keys {
		i, err := Index(k, seeds, len(keys))
		if err != nil {
			t.Fatalf("Index(%q): %v", k, err)
		}
		if i < 0 || i >= len(keys) {
			t.Fatalf("Index(%q) = %d, out of range [0, %d)", k, i, len(keys))
		}
		if hit[i] {
			t.Fatalf("Index(%q) = %d, slot already taken", k, i)
		}
		hit[i] = true
	}
}

// collidingPair returns two distinct keys that share a slot under
// Hash(key, 0) % 2, so that no seed table with seedsLen = 1 and maxSeed = 1
// can separate them.
func collidingPair(t *testing.T) []string {
	t.Helper()
	for i := 0; i < 100; i++ {
		for j := i + 1; j < 100; j++ {
			a, b := keyName(i), keyName(j)
			if HashString(a, 0)%2 == HashString(b, 0)%2 {
				return []string{a, b}
			}
		}
	}
	t.Fatal("no colliding pair found")
	return nil
}

func keyName(i int) string {
	return "key-" + hex.EncodeToString([]byte{byte(i)})
}
