//go:build linux

package mphf

import "golang.org/x/sys/unix"

// fadviseWillNeed hints to the kernel that the byte range of fd will be
// read soon, starting readahead before the file is mapped.
// Best-effort: errors are silently ignored.
func fadviseWillNeed(fd int, offset, length int64) {
	_ = unix.Fadvise(fd, offset, length, unix.FADV_WILLNEED)
}
