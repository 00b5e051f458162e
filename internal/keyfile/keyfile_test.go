package keyfile

import (
	"errors"
	"slices"
	"strings"
	"testing"

	mphferrors "github.com/tamirms/mphf/errors"
)

func TestReadLines(t *testing.T) {
	input := "# keywords\nif\t1\n\nelse\t2\r\nfor\t\n"
	entries, err := Read(strings.NewReader(input), FormatLines)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := []Entry{
		{Key: "if", Value: "1", HasValue: true},
		{Key: "else", Value: "2", HasValue: true},
		{Key: "for", Value: "", HasValue: true},
	}
	if !slices.Equal(entries, want) {
		t.Errorf("entries = %+v, want %+v", entries, want)
	}
}

func TestReadLinesKeysOnly(t *testing.T) {
	entries, err := Read(strings.NewReader("a\nb\nc\n"), "")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	keys, values, err := Split(entries)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if !slices.Equal(keys, []string{"a", "b", "c"}) {
		t.Errorf("keys = %v", keys)
	}
	if values != nil {
		t.Errorf("values = %v, want nil", values)
	}
}

func TestReadJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Entry
	}{
		{
			name:  "strings",
			input: `["cat", "dog"]`,
			want:  []Entry{{Key: "cat"}, {Key: "dog"}},
		},
		{
			name:  "objects",
			input: `[{"key": "cat", "value": "meow"}, {"key": "dog", "value": ""}]`,
			want: []Entry{
				{Key: "cat", Value: "meow", HasValue: true},
				{Key: "dog", Value: "", HasValue: true},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := Read(strings.NewReader(tc.input), FormatJSON)
			if err != nil {
				t.Fatalf("Read: %v", err)
			}
			if !slices.Equal(entries, tc.want) {
				t.Errorf("entries = %+v, want %+v", entries, tc.want)
			}
		})
	}
}

func TestReadJSONInvalid(t *testing.T) {
	for _, input := range []string{
		`{"key": "cat"}`,
		`[1, 2]`,
		`[{"value": "x"}]`,
		`[{"key": "cat", "value": 3}]`,
	} {
		if _, err := Read(strings.NewReader(input), FormatJSON); err == nil {
			t.Errorf("Read(%s): expected error", input)
		}
	}
}

func TestReadDuplicateKey(t *testing.T) {
	_, err := Read(strings.NewReader("a\nb\na\n"), FormatLines)
	if !errors.Is(err, mphferrors.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestReadUnknownFormat(t *testing.T) {
	if _, err := Read(strings.NewReader("a"), "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSplitMixedValues(t *testing.T) {
	entries := []Entry{{Key: "a", Value: "1", HasValue: true}, {Key: "b"}}
	if _, _, err := Split(entries); err == nil {
		t.Error("expected error for entries with and without values")
	}
}
