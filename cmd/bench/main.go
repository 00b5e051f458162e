// Bench is a benchmarking tool for measuring mphf build time, seed table
// size and lookup throughput.
//
// Usage:
//
//	go run ./cmd/bench -keys 100000 -per-bucket 4 -workers 4
//
// Flags:
//
//	-keys        Number of keys to index (default: 100,000)
//	-key-len     Length of each random key in bytes (default: 16)
//	-per-bucket  Average keys per bucket; sets seeds_len (default: 4)
//	-max-seed    Seed search cutoff per bucket (default: 1<<20)
//	-workers     Goroutines testing seeds of a bucket (default: 1)
//	-file        Also write, open and query a table file (default: true)
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"math"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/tamirms/mphf"
)

func main() {
	keysFlag := flag.Int("keys", 100_000, "number of keys")
	keyLenFlag := flag.Int("key-len", 16, "random key length in bytes")
	perBucketFlag := flag.Float64("per-bucket", 4, "average keys per bucket")
	maxSeedFlag := flag.Uint64("max-seed", 1<<20, "seed search cutoff per bucket")
	workersFlag := flag.Int("workers", 1, "goroutines testing seeds of a bucket")
	fileFlag := flag.Bool("file", true, "write, open and query a table file")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (build phase only)")
	flag.Parse()

	if *maxSeedFlag > math.MaxUint32 {
		fmt.Printf("max-seed %d exceeds %d\n", *maxSeedFlag, uint64(math.MaxUint32))
		return
	}
	numKeys := *keysFlag
	seedsLen := max(1, int(float64(numKeys) / *perBucketFlag))

	fmt.Println("Generating keys...")
	keys := make([]string, numKeys)
	buf := make([]byte, *keyLenFlag)
	for i := range keys {
		_, _ = rand.Read(buf) // crypto/rand.Read error is fatal system issue; ignore for benchmark
		keys[i] = hex.EncodeToString(buf)
	}
	values := make([]string, numKeys)
	for i := range values {
		values[i] = fmt.Sprintf("v%d", i)
	}

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			fmt.Printf("could not create CPU profile: %v\n", err)
			return
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Printf("could not start CPU profile: %v\n", err)
			return
		}
	}

	fmt.Printf("Building table (%d keys, %d buckets)...\n", numKeys, seedsLen)
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	buildStart := time.Now()
	table, err := mphf.New(keys, values, seedsLen, uint32(*maxSeedFlag), mphf.WithWorkers(*workersFlag))
	buildDuration := time.Since(buildStart)
	if *cpuprofile != "" {
		pprof.StopCPUProfile()
	}
	if err != nil {
		fmt.Printf("Build failed: %v\n", err)
		return
	}
	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	highest := uint32(0)
	for _, s := range table.Seeds() {
		if s != mphf.Unassigned {
			highest = max(highest, s)
		}
	}

	queryOrder := mrand.Perm(numKeys)
	fmt.Println("Benchmarking lookups...")
	numQueries := 1_000_000
	seeds := table.Seeds()
	queryStart := time.Now()
	for i := range numQueries {
		_, _ = mphf.Index(keys[queryOrder[i%numKeys]], seeds, numKeys) // Benchmark: measuring throughput, not correctness
	}
	indexLatency := float64(time.Since(queryStart).Nanoseconds()) / float64(numQueries)

	queryStart = time.Now()
	for i := range numQueries {
		_, _ = table.Value(keys[queryOrder[i%numKeys]])
	}
	tableLatency := float64(time.Since(queryStart).Nanoseconds()) / float64(numQueries)

	fileLatency, fileSize := -1.0, int64(0)
	if *fileFlag {
		fileLatency, fileSize, err = benchFile(table, keys, queryOrder, numQueries)
		if err != nil {
			fmt.Printf("Table file failed: %v\n", err)
			return
		}
	}

	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦══════════════════╗\n")
	fmt.Printf("║ Metric              ║ Value            ║\n")
	fmt.Printf("╠═════════════════════╬══════════════════╣\n")
	fmt.Printf("║ Seed table          ║ %6.3f bits/key  ║\n", float64(len(seeds)*32)/float64(numKeys))
	fmt.Printf("║ Highest seed        ║ %10d       ║\n", highest)
	fmt.Printf("║ Build time          ║ %8.3f sec     ║\n", buildDuration.Seconds())
	fmt.Printf("║ Build throughput    ║ %8.3f M/sec   ║\n", float64(numKeys)/buildDuration.Seconds()/1_000_000)
	fmt.Printf("║ Build allocations   ║ %8.1f MB      ║\n", float64(after.TotalAlloc-before.TotalAlloc)/1_000_000)
	fmt.Printf("║ Index latency       ║ %8.1f ns      ║\n", indexLatency)
	fmt.Printf("║ Table.Value latency ║ %8.1f ns      ║\n", tableLatency)
	if fileLatency >= 0 {
		fmt.Printf("║ File.Value latency  ║ %8.1f ns      ║\n", fileLatency)
		fmt.Printf("║ File size           ║ %8.1f KB      ║\n", float64(fileSize)/1000)
	}
	fmt.Printf("╚═════════════════════╩══════════════════╝\n")
}

// benchFile writes table to a temporary file, opens it and measures
// File.Value latency.
func benchFile(table *mphf.Table[string], keys []string, queryOrder []int, numQueries int) (float64, int64, error) {
	tmpDir, err := os.MkdirTemp("", "mphf-bench-")
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()
	path := filepath.Join(tmpDir, "bench.mphf")

	if err := mphf.WriteFile(path, table); err != nil {
		return 0, 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}

	f, err := mphf.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = f.Close() }()
	if err := f.Verify(); err != nil {
		return 0, 0, err
	}

	start := time.Now()
	for i := range numQueries {
		_, _ = f.Value(keys[queryOrder[i%len(keys)]])
	}
	return float64(time.Since(start).Nanoseconds()) / float64(numQueries), info.Size(), nil
}
