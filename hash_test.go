package mphf

import (
	"testing"
)

// TestHashVectors pins the primitive to MurmurHash3 x86_32. Seed tables are
// persisted, so a different primitive would silently break every stored table.
func TestHashVectors(t *testing.T) {
	tests := []struct {
		data string
		seed uint32
		want uint32
	}{
		{"", 0, 0},
		{"", 1, 0x514E28B7},
		{"", 0xffffffff, 0x81F16F39},
		{"\x00\x00\x00\x00", 0, 0x2362F9DE},
		{"aaaa", 0x9747b28c, 0x5A97808A},
		{"Hello, world!", 0x9747b28c, 0x24884CBA},
		{"The quick brown fox jumps over the lazy dog", 0x9747b28c, 0x2FA826CD},
	}
	for _, tc := range tests {
		if got := Hash([]byte(tc.data), tc.seed); got != tc.want {
			t.Errorf("Hash(%q, 0x%x) = 0x%08X, want 0x%08X", tc.data, tc.seed, got, tc.want)
		}
		if got := HashString(tc.data, tc.seed); got != tc.want {
			t.Errorf("HashString(%q, 0x%x) = 0x%08X, want 0x%08X", tc.data, tc.seed, got, tc.want)
		}
	}
}

func TestHashSeedsDecorrelate(t *testing.T) {
	rng := newTestRNG(t)
	keys := generateRandomKeys(rng, 2000, 8)

	// With 16 slots, about 1/16 of keys keep their slot across seeds.
	same := 0
	for _, k := range keys {
		if HashString(k, 1)%16 == HashString(k, 2)%16 {
			same++
		}
	}
	if same > 250 {
		t.Errorf("%d of %d keys share a slot under seeds 1 and 2, expected about 125", same, len(keys))
	}
}

func TestReduce(t *testing.T) {
	if got := reduce(^uint32(0), 7); got != int(uint64(^uint32(0))%7) {
		t.Errorf("reduce(MaxUint32, 7) = %d", got)
	}
	if got := reduce(10, 1); got != 0 {
		t.Errorf("reduce(10, 1) = %d, want 0", got)
	}
}
