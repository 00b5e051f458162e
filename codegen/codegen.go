// Package codegen emits Go source that embeds minimal perfect hash tables as
// static arrays with accessor functions.
//
// The generated code depends only on mphf.Index at run time: each table is
// built and reordered here, then written out as its seed table, keys and
// values.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strconv"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/tamirms/mphf"
	mphferrors "github.com/tamirms/mphf/errors"
)

// DefaultMaxSeed is the seed search cutoff used when Options.MaxSeed is 0.
const DefaultMaxSeed = 1 << 20

// Options describes one generated table.
type Options struct {
	// Name is the exported prefix of the generated identifiers, e.g.
	// "Keywords" yields KeywordsIndex, KeywordsValue and so on.
	Name string

	Keys []string
	// Values holds the value of each key. Nil generates a keys-only table.
	Values []string

	// SeedsLen is the number of buckets; 0 uses mphf.DefaultSeedsLen.
	SeedsLen int
	// MaxSeed bounds the seed search per bucket; 0 uses DefaultMaxSeed.
	MaxSeed uint32

	// OmitKeys drops the key array. Lookups then cannot tell keys outside the
	// table apart and may return another key's slot or value.
	OmitKeys bool
	// OmitValues drops the value array even if Values is set.
	OmitValues bool
	// OmitIndex drops the exported <Name>Index accessor.
	OmitIndex bool

	BuildOptions []mphf.BuildOption

	// Table is a prebuilt table. When set, Keys, Values, SeedsLen, MaxSeed
	// and BuildOptions are ignored.
	Table *mphf.Table[string]
}

// table is the template view of one built table.
type table struct {
	Name      string
	Private   string
	Seeds     []uint32
	Keys      []string
	Values    []string
	HasKeys   bool
	HasValues bool
	HasIndex  bool
}

type file struct {
	Package  string
	NeedIter bool
	Tables   []table
}

// Generate builds every table and renders them into one gofmt'd Go file of
// package pkg. It returns ErrInvalidName for identifiers that are not valid
// exported Go names, and the build error of the first table that fails.
func Generate(pkg string, tables ...Options) ([]byte, error) {
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("%w: package %q", mphferrors.ErrInvalidName, pkg)
	}

	f := file{Package: pkg}
	seen := make(map[string]bool, len(tables))
	for _, opts := range tables {
		if !token.IsIdentifier(opts.Name) || !token.IsExported(opts.Name) {
			return nil, fmt.Errorf("%w: table %q", mphferrors.ErrInvalidName, opts.Name)
		}
		if seen[opts.Name] {
			return nil, fmt.Errorf("%w: table %q defined twice", mphferrors.ErrInvalidName, opts.Name)
		}
		seen[opts.Name] = true

		t, err := buildTable(opts)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", opts.Name, err)
		}
		f.NeedIter = f.NeedIter || t.HasKeys || t.HasValues
		f.Tables = append(f.Tables, t)
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, f); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func buildTable(opts Options) (table, error) {
	mt := opts.Table
	if mt == nil {
		var err error
		if mt, err = newTable(opts); err != nil {
			return table{}, err
		}
	}

	t := table{
		Name:     opts.Name,
		Private:  lowerFirst(opts.Name),
		Seeds:    mt.Seeds(),
		Keys:     mt.Keys(),
		HasKeys:  !opts.OmitKeys,
		HasIndex: !opts.OmitIndex,
	}
	if mt.HasValues() && !opts.OmitValues {
		t.Values = mt.Values()
		t.HasValues = true
	}
	return t, nil
}

// newTable builds the table described by opts.
func newTable(opts Options) (*mphf.Table[string], error) {
	values := opts.Values
	if opts.OmitValues {
		values = nil
	}

	seedsLen := opts.SeedsLen
	if seedsLen == 0 {
		seedsLen = mphf.DefaultSeedsLen(len(opts.Keys))
	}
	maxSeed := opts.MaxSeed
	if maxSeed == 0 {
		maxSeed = DefaultMaxSeed
	}

	return mphf.New(opts.Keys, values, seedsLen, maxSeed, opts.BuildOptions...)
}

// lowerFirst returns name with its first rune lowercased, the prefix of a
// table's unexported identifiers.
func lowerFirst(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToLower(r)) + name[size:]
}

var fileTemplate = template.Must(template.New("file").Funcs(template.FuncMap{
	"quote": strconv.Quote,
}).Parse(`// Code generated by mphfgen. DO NOT EDIT.

package {{.Package}}

import (
{{- if .NeedIter}}
	"iter"
{{end}}
	"github.com/tamirms/mphf"
)
{{range .Tables}}{{$p := .Private}}
// {{.Name}}: {{len .Keys}} keys, {{len .Seeds}} seeds.

const {{$p}}Len = {{len .Keys}}

var {{$p}}Seeds = [...]uint32{ {{- range .Seeds}}{{.}}, {{end -}} }
{{if .HasKeys}}
var {{$p}}Keys = [...]string{
{{- range .Keys}}
	{{quote .}},
{{- end}}
}
{{end}}{{if .HasValues}}
var {{$p}}Values = [...]string{
{{- range .Values}}
	{{quote .}},
{{- end}}
}
{{end}}
func {{$p}}Slot(key string) (int, bool) {
	i, err := mphf.Index(key, {{$p}}Seeds[:], {{$p}}Len)
	if err != nil {
		return 0, false
	}
{{- if .HasKeys}}
	if {{$p}}Keys[i] != key {
		return 0, false
	}
{{- end}}
	return i, true
}
{{if .HasIndex}}
// {{.Name}}Index returns the slot of key in [0, {{len .Keys}}).
{{- if not .HasKeys}}
// Keys outside the table may return the slot of another key.
{{- end}}
func {{.Name}}Index(key string) (int, bool) {
	return {{$p}}Slot(key)
}
{{end}}{{if .HasValues}}
// {{.Name}}Value returns the value of key.
{{- if not .HasKeys}}
// Keys outside the table may return the value of another key.
{{- end}}
func {{.Name}}Value(key string) (string, bool) {
	i, ok := {{$p}}Slot(key)
	if !ok {
		return "", false
	}
	return {{$p}}Values[i], true
}

// {{.Name}}Values iterates over the values in slot order.
func {{.Name}}Values() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range {{$p}}Values {
			if !yield(v) {
				return
			}
		}
	}
}
{{end}}{{if .HasKeys}}
// {{.Name}}Contains reports whether key is in the table.
func {{.Name}}Contains(key string) bool {
	_, ok := {{$p}}Slot(key)
	return ok
}

// {{.Name}}Keys iterates over the keys in slot order.
func {{.Name}}Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, k := range {{$p}}Keys {
			if !yield(k) {
				return
			}
		}
	}
}
{{end}}{{if and .HasKeys .HasValues}}
// {{.Name}}All iterates over key/value pairs in slot order.
func {{.Name}}All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i, k := range {{$p}}Keys {
			if !yield(k, {{$p}}Values[i]) {
				return
			}
		}
	}
}
{{end}}{{end}}`))
