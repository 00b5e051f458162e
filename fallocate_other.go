//go:build !linux && !darwin

package mphf

import "os"

// fallocateFile sizes a new table file before it is mapped. Without a native
// fallocate only the length is set; blocks may be allocated lazily.
func fallocateFile(file *os.File, size int64) error {
	return file.Truncate(size)
}
