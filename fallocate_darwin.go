//go:build darwin

package mphf

import (
	"os"

	"golang.org/x/sys/unix"
)

// fallocateFile reserves the blocks of a new table file with
// F_PREALLOCATE, then sets its length.
func fallocateFile(file *os.File, size int64) error {
	fst := unix.Fstore_t{
		Flags:   unix.F_ALLOCATEALL,
		Posmode: unix.F_PEOFPOSMODE,
		Length:  size,
	}
	// Allocation is best-effort; the length is what the mapping needs.
	_ = unix.FcntlFstore(file.Fd(), unix.F_PREALLOCATE, &fst)
	return unix.Ftruncate(int(file.Fd()), size)
}
