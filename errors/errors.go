// Package errors defines all exported error sentinels for the mphf library.
//
// This is the single source of truth for error values. The top-level mphf
// package, codegen and the internal packages import from here, ensuring
// errors.Is checks work across package boundaries.
package errors

import "errors"

// Build errors
var (
	ErrInvalidConfiguration = errors.New("mphf: seeds length must be at least 1")
	ErrSearchExhausted      = errors.New("mphf: seed search exhausted - retry with a larger seeds length or max seed")
)

// Lookup and reorder errors
var (
	ErrLengthMismatch = errors.New("mphf: keys and values have different lengths")
	ErrUndefinedKey   = errors.New("mphf: key maps to an unassigned seed")
	ErrNotFound       = errors.New("mphf: key not found")
	ErrSlotCollision  = errors.New("mphf: seed table maps two keys to the same slot")
	ErrNotReordered   = errors.New("mphf: keys are not in minimal perfect hash order")
)

// Table file errors
var (
	ErrInvalidMagic   = errors.New("mphf: invalid magic number")
	ErrInvalidVersion = errors.New("mphf: unsupported version")
	ErrChecksumFailed = errors.New("mphf: file checksum verification failed")
	ErrTruncatedFile  = errors.New("mphf: table file is truncated")
	ErrCorruptedTable = errors.New("mphf: table data is corrupted")
	ErrTableClosed    = errors.New("mphf: table is closed")
	ErrNoValues       = errors.New("mphf: table has no values")
	ErrNoKeys         = errors.New("mphf: table has no keys")
)

// Generation errors
var (
	ErrInvalidName  = errors.New("mphf: invalid Go identifier")
	ErrDuplicateKey = errors.New("mphf: duplicate key detected")
)
