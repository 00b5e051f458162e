package mphf

import "github.com/go-logr/logr"

// BuildOption is a functional option for configuring builds.
type BuildOption func(*buildConfig)

// WriteOption is a functional option for configuring table files.
type WriteOption func(*writeConfig)

type buildConfig struct {
	workers int
	logger  logr.Logger
}

type writeConfig struct {
	omitKeys     bool // store fingerprints in place of keys
	omitValues   bool
	userMetadata []byte
}

func defaultBuildConfig() *buildConfig {
	return &buildConfig{
		workers: 1, // Default to single-threaded; use WithWorkers(n) to parallelize
		logger:  logr.Discard(),
	}
}

// WithWorkers sets the number of goroutines that test candidate seeds for a
// bucket. Buckets are still resolved one at a time, largest first, and the
// smallest working seed always wins, so the seed table does not depend on n.
func WithWorkers(n int) BuildOption {
	return func(c *buildConfig) {
		c.workers = n
	}
}

// WithLogger sets the logger used to report build progress.
// V(1) logs a summary per build, V(2) logs every resolved bucket.
func WithLogger(l logr.Logger) BuildOption {
	return func(c *buildConfig) {
		c.logger = l
	}
}

// WithoutKeys omits the key strings from a table file. A 32-bit xxh3
// fingerprint is stored per slot instead, so lookups still reject most keys
// outside the build set.
func WithoutKeys() WriteOption {
	return func(c *writeConfig) {
		c.omitKeys = true
	}
}

// WithoutValues omits values from a table file.
func WithoutValues() WriteOption {
	return func(c *writeConfig) {
		c.omitValues = true
	}
}

// WithUserMetadata sets the variable-length user metadata.
// The metadata is copied, so the caller can reuse the slice after this call.
func WithUserMetadata(data []byte) WriteOption {
	return func(c *writeConfig) {
		c.userMetadata = append([]byte(nil), data...) // Copy slice
	}
}
