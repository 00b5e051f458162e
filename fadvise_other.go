//go:build !linux

package mphf

// fadviseWillNeed is a no-op on non-Linux platforms.
func fadviseWillNeed(fd int, offset, length int64) {
	// No-op
}
