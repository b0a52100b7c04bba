// Package cmd implements the objinv CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/oscargus/objinv/internal/app"
	"github.com/oscargus/objinv/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Format      string
	Out         string
	NoCache     bool
	Refresh     bool
	Store       bool
	Timeout     string
	Concurrency int
	Rate        float64
	Threshold   int
	Quiet       bool
	Verbose     bool
	Debug       bool
}

// rootCmd is the base command. Running `objinv` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "objinv",
	Short: "objinv — Sphinx objects.inv inventory toolkit",
	Long: `objinv reads, converts, inspects, diffs, and merges Sphinx
"objects.inv" intersphinx inventories — the compact zlib-compressed
symbol index that documentation sites publish alongside their HTML.

Quick start:
  objinv inspect https://docs.python.org/3/objects.inv --format json
  objinv convert objects.inv objects.txt
  objinv suggest objects.inv "Attribute" --threshold 60
  objinv diff old.inv new.inv`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.NoCache = globalFlags.NoCache
	cfg.Refresh = globalFlags.Refresh
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug

	if globalFlags.Format != "" {
		cfg.Format = globalFlags.Format
	}
	if globalFlags.Timeout != "" {
		if d, err2 := time.ParseDuration(globalFlags.Timeout); err2 == nil {
			cfg.Timeout = d
		}
	}
	if globalFlags.Concurrency > 0 {
		cfg.Concurrency = globalFlags.Concurrency
	}
	if globalFlags.Rate > 0 {
		cfg.Rate = globalFlags.Rate
	}
	if globalFlags.Threshold > 0 {
		cfg.Threshold = globalFlags.Threshold
	}

	return app.New(cfg), nil
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&globalFlags.Format, "format", "",
		"output format: table|json|jsonl|csv|tsv|md (default: table)")
	pf.StringVar(&globalFlags.Out, "out", "",
		"write output to file instead of stdout")
	pf.BoolVar(&globalFlags.NoCache, "no-cache", false,
		"bypass cache reads (still writes results to cache when --store is set)")
	pf.BoolVar(&globalFlags.Refresh, "refresh", false,
		"force re-fetch/re-read and overwrite cached entries")
	pf.BoolVar(&globalFlags.Store, "store", false,
		"cache fetched/read inventories in the local database")
	pf.StringVar(&globalFlags.Timeout, "timeout", "",
		"request timeout stored in the resolved config (e.g. 30s, 2m); URL fetches use a fixed 30s timeout")
	pf.IntVar(&globalFlags.Concurrency, "concurrency", 0,
		"max parallel fetches for batch operations (default: 8)")
	pf.Float64Var(&globalFlags.Rate, "rate", 0,
		"requests per second stored in the resolved config (default: 5.0); URL fetches use a fixed 5 req/s limit")
	pf.IntVar(&globalFlags.Threshold, "threshold", 0,
		"minimum fuzzy match score for suggest (default: 50)")
	pf.BoolVar(&globalFlags.Quiet, "quiet", false,
		"suppress the command echo printed by 'snapshot run'")
	pf.BoolVar(&globalFlags.Verbose, "verbose", false,
		"show cache/timing stats after output")
	pf.BoolVar(&globalFlags.Debug, "debug", false,
		"debug flag stored in the resolved config; log output is not changed by it")
}
