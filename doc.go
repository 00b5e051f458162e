// Package mphf builds minimal perfect hash functions over a fixed set of
// string keys and resolves keys to their slot in constant time.
//
// A minimal perfect hash function maps N distinct keys onto [0, N) with no
// collisions and no unused slots. Construction is a two-level scheme: keys are
// split into buckets by Hash(key, 0), then every bucket gets a seed, found by
// brute force, that places all of its keys into free slots. The seed table is
// the only artifact needed to reproduce lookups.
//
// # Basic Usage
//
// Building a seed table and putting keys into slot order:
//
//	keys := []string{"hello", "goodbye", "cat", "dog"}
//	seeds, err := mphf.Build(keys, 2, 10000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := mphf.Reorder(keys, seeds); err != nil {
//	    log.Fatal(err)
//	}
//
// Looking a key up:
//
//	i, err := mphf.Index("cat", seeds, len(keys))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(keys[i]) // cat
//
// Keys that were not part of the build may resolve to another key's slot.
// Table and File compare the stored key (or a fingerprint) to reject them.
//
// # Package Structure
//
//   - Core: hash.go (Hash), builder.go (Build), search.go (seed search),
//     reorder.go (Reorder), lookup.go (Index, Get)
//   - Configuration: builder_options.go (BuildOption, WriteOption)
//   - Tables: table.go (Table), fingerprint.go
//   - Serialization: header.go, table_writer.go (WriteFile), table_file.go (Open)
//   - Code generation: codegen/
//   - Platform: fallocate_*.go, prefault_*.go, fadvise_*.go
package mphf
