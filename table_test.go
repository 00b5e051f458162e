package mphf

import (
	"errors"
	"slices"
	"testing"

	mphferrors "github.com/tamirms/mphf/errors"
)

func TestTableNew(t *testing.T) {
	keys := generateRandomKeys(newTestRNG(t), 400, 8)
	values := make([]int, len(keys))
	for i := range values {
		values[i] = i * 3
	}
	origKeys := slices.Clone(keys)

	tbl, err := New(keys, values, DefaultSeedsLen(len(keys)), 1<<20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !slices.Equal(keys, origKeys) {
		t.Error("New modified its keys")
	}
	if tbl.Len() != len(keys) {
		t.Errorf("Len() = %d, want %d", tbl.Len(), len(keys))
	}
	if !tbl.HasValues() {
		t.Error("HasValues() = false")
	}
	for i, k := range keys {
		v, err := tbl.Value(k)
		if err != nil {
			t.Fatalf("Value(%q): %v", k, err)
		}
		if v != i*3 {
			t.Errorf("Value(%q) = %d, want %d", k, v, i*3)
		}
		j, err := tbl.Index(k)
		if err != nil {
			t.Fatalf("Index(%q): %v", k, err)
		}
		if tbl.Keys()[j] != k {
			t.Errorf("Keys()[%d] = %q, want %q", j, tbl.Keys()[j], k)
		}
	}
}

func TestTableRejectsNonMembers(t *testing.T) {
	tbl, err := New([]string{"hello", "goodbye", "cat", "dog"}, []string{"1", "2", "3", "4"}, 2, 10000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, k := range []string{"", "cow", "hello!", "Hello"} {
		if tbl.Contains(k) {
			t.Errorf("Contains(%q) = true", k)
		}
		if _, err := tbl.Value(k); !errors.Is(err, mphferrors.ErrNotFound) {
			t.Errorf("Value(%q) error = %v, want ErrNotFound", k, err)
		}
	}
	if !tbl.Contains("cat") {
		t.Error(`Contains("cat") = false`)
	}
}

func TestTableAll(t *testing.T) {
	keys := []string{"a", "b", "c", "d", "e"}
	values := []string{"A", "B", "C", "D", "E"}
	tbl, err := New(keys, values, 2, 1<<20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	seen := make(map[string]string)
	i := 0
	for k, v := range tbl.All() {
		if tbl.Keys()[i] != k {
			t.Errorf("All() out of slot order at %d", i)
		}
		seen[k] = v
		i++
	}
	for j, k := range keys {
		if seen[k] != values[j] {
			t.Errorf("All() %q -> %q, want %q", k, seen[k], values[j])
		}
	}

	// Early break stops the iteration.
	n := 0
	for range tbl.All() {
		n++
		break
	}
	if n != 1 {
		t.Errorf("iterated %d times after break", n)
	}
}

func TestTableKeysOnly(t *testing.T) {
	tbl, err := New[struct{}]([]string{"x", "y", "z"}, nil, 1, 1<<20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tbl.HasValues() || tbl.Values() != nil {
		t.Error("keys-only table has values")
	}
	if _, err := tbl.Value("x"); !errors.Is(err, mphferrors.ErrNoValues) {
		t.Errorf("Value error = %v, want ErrNoValues", err)
	}
	if !tbl.Contains("y") {
		t.Error(`Contains("y") = false`)
	}
}

func TestTableNewErrors(t *testing.T) {
	if _, err := New([]string{"a", "b"}, []int{1}, 1, 100); !errors.Is(err, mphferrors.ErrLengthMismatch) {
		t.Errorf("error = %v, want ErrLengthMismatch", err)
	}
	if _, err := New[int]([]string{"a"}, nil, 0, 100); !errors.Is(err, mphferrors.ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestFromParts(t *testing.T) {
	keys := generateRandomKeys(newTestRNG(t), 100, 8)
	values := slices.Clone(keys)
	built, err := New(keys, values, 25, 1<<20)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tbl, err := FromParts(built.Seeds(), built.Keys(), built.Values())
	if err != nil {
		t.Fatalf("FromParts: %v", err)
	}
	for _, k := range keys {
		if v, err := tbl.Value(k); err != nil || v != k {
			t.Fatalf("Value(%q) = %q, %v", k, v, err)
		}
	}

	// Swapping two keys breaks the slot order.
	swapped := slices.Clone(built.Keys())
	swapped[0], swapped[1] = swapped[1], swapped[0]
	if _, err := FromParts[string](built.Seeds(), swapped, nil); !errors.Is(err, mphferrors.ErrNotReordered) {
		t.Errorf("error = %v, want ErrNotReordered", err)
	}

	if _, err := FromParts(built.Seeds(), built.Keys(), []string{"x"}); !errors.Is(err, mphferrors.ErrLengthMismatch) {
		t.Errorf("error = %v, want ErrLengthMismatch", err)
	}
	if _, err := FromParts[string](nil, nil, nil); !errors.Is(err, mphferrors.ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestDefaultSeedsLen(t *testing.T) {
	for _, tc := range []struct{ n, want int }{{0, 1}, {3, 1}, {4, 1}, {100, 25}} {
		if got := DefaultSeedsLen(tc.n); got != tc.want {
			t.Errorf("DefaultSeedsLen(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}
