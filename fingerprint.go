package mphf

import "github.com/zeebo/xxh3"

const fingerprintSize = 4

// fingerprint returns the 32-bit verification tag stored for key in tables
// written WithoutKeys.
//
// The tag comes from xxHash3, a hash family unrelated to the MurmurHash3
// used for slot placement, so a key outside the build set that lands on an
// occupied slot matches that slot's tag with probability about 2^-32.
func fingerprint(key string) uint32 {
	return uint32(xxh3.HashString(key))
}
