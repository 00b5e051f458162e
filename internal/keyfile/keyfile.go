// Package keyfile reads key sets, optionally paired with values, from the
// input formats accepted by mphfgen.
package keyfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sugawarayuuta/sonnet"
	mphferrors "github.com/tamirms/mphf/errors"
)

// Format selects how an input is parsed.
type Format string

const (
	// FormatLines reads one entry per line: "key" or "key<TAB>value".
	// Blank lines and lines starting with '#' are skipped.
	FormatLines Format = "lines"

	// FormatJSON reads a JSON array of strings, or of objects with "key" and
	// optional "value" string fields.
	FormatJSON Format = "json"
)

// Entry is one key and its value. HasValue distinguishes an empty value from
// a missing one.
type Entry struct {
	Key      string
	Value    string
	HasValue bool
}

// Read parses r in the given format. Entries keep input order. A key that
// appears twice returns ErrDuplicateKey.
func Read(r io.Reader, format Format) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatLines, "":
		entries, err = readLines(r)
	case FormatJSON:
		entries, err = readJSON(r)
	default:
		return nil, fmt.Errorf("keyfile: unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Key]; ok {
			return nil, fmt.Errorf("%w: %q", mphferrors.ErrDuplicateKey, e.Key)
		}
		seen[e.Key] = struct{}{}
	}
	return entries, nil
}

// Split returns the keys and values of entries. values is nil unless every
// entry has a value; a mix of entries with and without values is an error.
func Split(entries []Entry) (keys, values []string, err error) {
	keys = make([]string, len(entries))
	withValues := 0
	for i, e := range entries {
		keys[i] = e.Key
		if e.HasValue {
			withValues++
		}
	}
	if withValues == 0 {
		return keys, nil, nil
	}
	if withValues != len(entries) {
		return nil, nil, fmt.Errorf("keyfile: %d of %d entries have values", withValues, len(entries))
	}
	values = make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return keys, values, nil
}

func readLines(r io.Reader) ([]Entry, error) {
	var entries []Entry
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSuffix(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "\t")
		entries = append(entries, Entry{Key: key, Value: value, HasValue: ok})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("keyfile: read lines: %w", err)
	}
	return entries, nil
}

func readJSON(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keyfile: read json: %w", err)
	}
	var items []any
	if err := sonnet.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("keyfile: decode json: %w", err)
	}

	entries := make([]Entry, 0, len(items))
	for i, item := range items {
		switch v := item.(type) {
		case string:
			entries = append(entries, Entry{Key: v})
		case map[string]any:
			key, ok := v["key"].(string)
			if !ok {
				return nil, fmt.Errorf("keyfile: item %d: missing string \"key\"", i)
			}
			e := Entry{Key: key}
			if raw, present := v["value"]; present {
				value, ok := raw.(string)
				if !ok {
					return nil, fmt.Errorf("keyfile: item %d: \"value\" is not a string", i)
				}
				e.Value, e.HasValue = value, true
			}
			entries = append(entries, e)
		default:
			return nil, fmt.Errorf("keyfile: item %d: expected string or object, got %T", i, item)
		}
	}
	return entries, nil
}
