//go:build !linux

package mphf

// prefaultRegion is a no-op on non-Linux platforms.
func prefaultRegion(data []byte) {}
