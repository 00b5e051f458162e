package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config describes one generator run: the package and file of the generated
// Go source, and the tables it contains.
//
// Example:
//
//	package = "tokens"
//	output = "keywords_gen.go"
//
//	[[table]]
//	name = "Keywords"
//	input = "keywords.txt"
//	seeds_len = 16
type Config struct {
	Package string        `toml:"package"`
	Output  string        `toml:"output"`
	Tables  []TableConfig `toml:"table"`
}

// TableConfig describes one table.
type TableConfig struct {
	Name   string `toml:"name"`
	Input  string `toml:"input"`
	Format string `toml:"format"`

	SeedsLen int    `toml:"seeds_len"`
	MaxSeed  uint32 `toml:"max_seed"`

	OmitKeys   bool `toml:"omit_keys"`
	OmitValues bool `toml:"omit_values"`
	OmitIndex  bool `toml:"omit_index"`

	// TableFile, if set, also writes the table in the binary table format.
	TableFile string `toml:"table_file"`
}

// loadConfig reads a TOML config. Relative paths are resolved against the
// directory of the config file.
func loadConfig(path string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	dir := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || p == "-" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	cfg.Output = resolve(cfg.Output)
	for i := range cfg.Tables {
		cfg.Tables[i].Input = resolve(cfg.Tables[i].Input)
		cfg.Tables[i].TableFile = resolve(cfg.Tables[i].TableFile)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Tables) == 0 {
		return errors.New("no tables")
	}
	generatesTableFile := false
	for i, t := range c.Tables {
		if t.Name == "" {
			return fmt.Errorf("table %d: missing name", i)
		}
		if t.Input == "" {
			return fmt.Errorf("table %s: missing input", t.Name)
		}
		if t.SeedsLen < 0 {
			return fmt.Errorf("table %s: negative seeds_len", t.Name)
		}
		if t.TableFile != "" {
			generatesTableFile = true
		}
	}
	if c.Output == "" && !generatesTableFile {
		return errors.New("nothing to write: set output or a table_file")
	}
	if c.Output != "" && c.Package == "" {
		return errors.New("output requires package")
	}
	return nil
}
