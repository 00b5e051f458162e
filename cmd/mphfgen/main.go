// Mphfgen builds minimal perfect hash tables from key files and writes them
// as Go source, binary table files, or both.
//
// Usage:
//
//	mphfgen -in keywords.txt -name Keywords -pkg tokens -out keywords_gen.go
//	mphfgen -in keywords.json -format json -name Keywords -table keywords.mphf
//	mphfgen -config tables.toml
//
// Input files hold one key per line, optionally followed by a tab and a value,
// or a JSON array (-format json). When the seed search fails the build is
// retried with twice as many buckets, up to -retries times.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/tamirms/mphf"
	"github.com/tamirms/mphf/codegen"
	mphferrors "github.com/tamirms/mphf/errors"
	"github.com/tamirms/mphf/internal/keyfile"
)

// getLogger returns a stdr.Logger that implements the logr.Logger interface
// and sets the verbosity of the returned logger.
// 0 logs progress, 1 adds build summaries, 2 logs every bucket.
func getLogger(v int) logr.Logger {
	logger := stdr.New(nil).WithName("mphfgen")
	if v > 2 || v < 0 {
		v = 0
		logger.Info("Invalid verbosity, setting logger to display info level messages only.")
	}
	stdr.SetVerbosity(v)
	return logger
}

// exitOnErr logs the error and exits if err is not nil.
func exitOnErr(logger logr.Logger, err error, msg string) {
	if err != nil {
		logger.Error(err, msg)
		os.Exit(1)
	}
}

func main() {
	configFlag := flag.String("config", "", "TOML file describing the tables to generate")
	inFlag := flag.String("in", "", "key file of a single table")
	formatFlag := flag.String("format", "lines", "key file format: lines or json")
	nameFlag := flag.String("name", "", "exported name prefix of the generated table")
	pkgFlag := flag.String("pkg", "", "package of the generated source")
	outFlag := flag.String("out", "", "generated Go source file, - for stdout")
	tableFlag := flag.String("table", "", "binary table file to write")
	seedsFlag := flag.Int("seeds", 0, "number of buckets (0: about 4 keys per bucket)")
	maxSeedFlag := flag.Uint64("max-seed", codegen.DefaultMaxSeed, "seed search cutoff per bucket")
	retriesFlag := flag.Int("retries", 4, "rebuilds with doubled buckets after a failed search")
	workersFlag := flag.Int("workers", 1, "goroutines testing seeds of a bucket")
	omitKeysFlag := flag.Bool("omit-keys", false, "do not store keys")
	omitValuesFlag := flag.Bool("omit-values", false, "do not store values")
	omitIndexFlag := flag.Bool("omit-index", false, "do not generate the Index accessor")
	verbosity := flag.Int("v", 0, "log verbosity (0-2)")
	flag.Parse()

	logger := getLogger(*verbosity)

	var cfg *Config
	if *configFlag != "" {
		var err error
		cfg, err = loadConfig(*configFlag)
		exitOnErr(logger, err, "failed to load config")
	} else {
		maxSeed, err := checkMaxSeed(*maxSeedFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mphfgen: %v\n", err)
			flag.Usage()
			os.Exit(2)
		}
		cfg = &Config{
			Package: *pkgFlag,
			Output:  *outFlag,
			Tables: []TableConfig{{
				Name:       *nameFlag,
				Input:      *inFlag,
				Format:     *formatFlag,
				SeedsLen:   *seedsFlag,
				MaxSeed:    maxSeed,
				OmitKeys:   *omitKeysFlag,
				OmitValues: *omitValuesFlag,
				OmitIndex:  *omitIndexFlag,
				TableFile:  *tableFlag,
			}},
		}
		if err := cfg.validate(); err != nil {
			fmt.Fprintf(os.Stderr, "mphfgen: %v\n", err)
			flag.Usage()
			os.Exit(2)
		}
	}

	g := &generator{
		logger:  logger,
		retries: *retriesFlag,
		workers: *workersFlag,
	}
	exitOnErr(logger, g.run(cfg), "generation failed")
}

// checkMaxSeed narrows the -max-seed flag to the 32-bit seed range.
func checkMaxSeed(v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, fmt.Errorf("max-seed %d exceeds %d", v, uint64(math.MaxUint32))
	}
	return uint32(v), nil
}

type generator struct {
	logger  logr.Logger
	retries int
	workers int
}

// run builds every table of cfg and writes the requested outputs.
func (g *generator) run(cfg *Config) error {
	var sources []codegen.Options
	for _, tc := range cfg.Tables {
		log := g.logger.WithValues("table", tc.Name)

		t, err := g.loadAndBuild(log, tc)
		if err != nil {
			return fmt.Errorf("table %s: %w", tc.Name, err)
		}

		if tc.TableFile != "" {
			var opts []mphf.WriteOption
			if tc.OmitKeys {
				opts = append(opts, mphf.WithoutKeys())
			}
			if tc.OmitValues {
				opts = append(opts, mphf.WithoutValues())
			}
			if err := mphf.WriteFile(tc.TableFile, t, opts...); err != nil {
				return fmt.Errorf("table %s: %w", tc.Name, err)
			}
			log.Info("wrote table file", "path", tc.TableFile)
		}

		sources = append(sources, codegen.Options{
			Name:       tc.Name,
			Table:      t,
			OmitKeys:   tc.OmitKeys,
			OmitValues: tc.OmitValues,
			OmitIndex:  tc.OmitIndex,
		})
	}

	if cfg.Output == "" {
		return nil
	}
	src, err := codegen.Generate(cfg.Package, sources...)
	if err != nil {
		return err
	}
	if cfg.Output == "-" {
		_, err = os.Stdout.Write(src)
		return err
	}
	if err := os.WriteFile(cfg.Output, src, 0644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output, err)
	}
	g.logger.Info("wrote Go source", "path", cfg.Output, "tables", len(sources))
	return nil
}

func (g *generator) loadAndBuild(log logr.Logger, tc TableConfig) (*mphf.Table[string], error) {
	f, err := os.Open(tc.Input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := keyfile.Read(f, keyfile.Format(tc.Format))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tc.Input, err)
	}
	keys, values, err := keyfile.Split(entries)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tc.Input, err)
	}
	log.V(1).Info("read keys", "path", tc.Input, "keys", len(keys), "values", values != nil)

	return g.build(log, keys, values, tc)
}

// build runs the seed search, doubling the number of buckets after each
// exhausted search.
func (g *generator) build(log logr.Logger, keys, values []string, tc TableConfig) (*mphf.Table[string], error) {
	seedsLen := tc.SeedsLen
	if seedsLen == 0 {
		seedsLen = mphf.DefaultSeedsLen(len(keys))
	}
	maxSeed := tc.MaxSeed
	if maxSeed == 0 {
		maxSeed = codegen.DefaultMaxSeed
	}

	for attempt := 0; ; attempt++ {
		t, err := mphf.New(keys, values, seedsLen, maxSeed,
			mphf.WithWorkers(g.workers),
			mphf.WithLogger(log))
		if err == nil {
			log.Info("built table", "keys", len(keys), "seedsLen", seedsLen, "attempts", attempt+1)
			return t, nil
		}
		if !errors.Is(err, mphferrors.ErrSearchExhausted) || attempt >= g.retries {
			return nil, err
		}
		log.Info("seed search exhausted, retrying with more buckets", "seedsLen", seedsLen, "next", seedsLen*2, "reason", err.Error())
		seedsLen *= 2
	}
}
