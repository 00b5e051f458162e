//go:build linux

package mphf

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves the blocks of a new table file so that writes
// through the mapping cannot fault with SIGBUS on a full disk.
func fallocateFile(file *os.File, size int64) error {
	fd := int(file.Fd())
	if err := unix.Fallocate(fd, 0, 0, size); err == nil {
		return nil
	}
	// Filesystems without fallocate (NFS, some FUSE mounts) still get a
	// correctly sized file.
	return unix.Ftruncate(fd, size)
}
