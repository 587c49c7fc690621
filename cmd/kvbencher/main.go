// Package main provides the CLI entry point for kvbencher, a
// micro-benchmark harness for embedded key-value stores.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gurksohal/kvbencher/harness"
	"github.com/gurksohal/kvbencher/report"
	"github.com/gurksohal/kvbencher/store"
	"github.com/gurksohal/kvbencher/workload"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "kvbencher",
		Short: "Micro-benchmark harness for key-value storage backends",
		Long: `Kvbencher measures throughput and latency of pluggable key-value
storage backends under synthetic, skewed access patterns. A benchmark runs a
sequential load phase that populates the key universe, then a concurrent run
phase issuing a mixed read/write stream, and prints latency percentiles and
throughput.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		workloadName string
		storeKind    string
		seed         int64
		dbDir        string
		threads      int
		operations   int64
		loadCount    int64
		outputJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workload against a storage backend",
		Long: `Run executes the selected workload's load phase followed by its
concurrent run phase against one storage backend and prints the collected
statistics to standard output.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBenchmark(logger, runConfig{
				workloadName: workloadName,
				storeKind:    storeKind,
				seed:         seed,
				dbDir:        dbDir,
				threads:      threads,
				operations:   operations,
				loadCount:    loadCount,
				outputJSON:   outputJSON,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&workloadName, "workload", "read-write",
		"Workload to run: "+strings.Join(workload.Names(), ", "))
	flags.StringVar(&storeKind, "db", "membtree",
		"Storage backend: "+strings.Join(store.Kinds(), ", "))
	flags.Int64Var(&seed, "seed", 0,
		"Random seed (0 = use current time)")
	flags.StringVar(&dbDir, "db-dir", "",
		"Directory for embedded store files (default: a temp dir)")
	flags.IntVar(&threads, "threads", 0,
		"Override the workload's thread count")
	flags.Int64Var(&operations, "ops", 0,
		"Override the workload's per-thread operation count")
	flags.Int64Var(&loadCount, "load-count", 0,
		"Override the workload's load-phase insert count")
	flags.BoolVar(&outputJSON, "json", false,
		"Output statistics as JSON instead of text")

	return cmd
}

type runConfig struct {
	workloadName string
	storeKind    string
	seed         int64
	dbDir        string
	threads      int
	operations   int64
	loadCount    int64
	outputJSON   bool
}

func runBenchmark(logger *slog.Logger, cfg runConfig) error {
	wl, err := workload.ByName(cfg.workloadName)
	if err != nil {
		return err
	}

	if cfg.threads > 0 {
		wl.ThreadCount = cfg.threads
	}

	if cfg.operations > 0 {
		wl.OperationCount = uint64(cfg.operations)
	}

	if cfg.loadCount > 0 {
		wl.LoadInsertCount = uint64(cfg.loadCount)
	}

	if err := wl.Validate(); err != nil {
		return fmt.Errorf("workload %s: %w", wl.Name, err)
	}

	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	dbDir := cfg.dbDir
	if dbDir == "" {
		dbDir, err = os.MkdirTemp("", "kvbencher-*")
		if err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}

		defer os.RemoveAll(dbDir)
	}

	db, err := store.Open(cfg.storeKind, dbDir)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("starting benchmark",
		slog.String("workload", wl.Name),
		slog.String("db", cfg.storeKind),
		slog.Int64("seed", seed),
		slog.Int("threads", wl.ThreadCount),
		slog.Uint64("load_count", wl.LoadInsertCount),
		slog.Uint64("ops_per_thread", wl.OperationCount),
	)

	stats := harness.NewStats()
	if err := harness.Execute(logger, db, wl, seed, stats); err != nil {
		return fmt.Errorf("run %s on %s: %w", wl.Name, cfg.storeKind, err)
	}

	if cfg.outputJSON {
		if err := report.GenerateJSON(os.Stdout, cfg.storeKind, wl.Name, stats); err != nil {
			return fmt.Errorf("generate JSON report: %w", err)
		}

		return nil
	}

	if err := report.Generate(os.Stdout, cfg.storeKind, wl.Name, stats); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	return nil
}
