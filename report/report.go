// Package report formats benchmark statistics for human and machine
// consumption.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
	"github.com/dustin/go-humanize"

	"github.com/gurksohal/kvbencher/harness"
)

// Generate writes the three-section text report for one benchmark.
func Generate(w io.Writer, dbName, workloadName string, stats *harness.Stats) error {
	if stats == nil {
		return fmt.Errorf("no statistics to report")
	}

	fmt.Fprintf(w, "database: %s, workload: %s\n", dbName, workloadName)
	fmt.Fprintln(w, "==============================")

	fmt.Fprintln(w, "=== LOAD ===")
	fmt.Fprintf(w, "ops: %s | time: %s | throughput: %s ops/s\n",
		humanize.Comma(int64(stats.LoadOps)),
		formatDuration(stats.LoadTime),
		humanize.Comma(throughput(stats.LoadOps, stats.LoadTime)),
	)

	fmt.Fprintln(w, "=== RUN READ ===")
	writeRunSection(w, stats.RunReadOps, stats.RunWallTime,
		stats.RunReadTime, stats.RunReadHist)

	fmt.Fprintln(w, "=== RUN WRITE ===")
	writeRunSection(w, stats.RunWriteOps, stats.RunWallTime,
		stats.RunWriteTime, stats.RunWriteHist)

	if stats.RunSkipOps > 0 {
		fmt.Fprintf(w, "skipped ops: %s\n",
			humanize.Comma(int64(stats.RunSkipOps)))
	}

	return nil
}

func writeRunSection(
	w io.Writer,
	ops uint64,
	wall, busy time.Duration,
	h *hdrhistogram.Histogram,
) {
	fmt.Fprintf(w,
		"ops: %s | time: %s | throughput: %s ops/s"+
			" | p50: %s µs | p95: %s µs | p99: %s µs | p99.9: %s µs\n",
		humanize.Comma(int64(ops)),
		formatDuration(wall),
		// ops over the cross-worker summed in-call time, not wall time:
		// the figure reads as mean single-op cost. Wall time is the
		// time column.
		humanize.Comma(throughput(ops, busy)),
		percentile(h, 50),
		percentile(h, 95),
		percentile(h, 99),
		percentile(h, 99.9),
	)
}

// percentile renders the histogram value at quantile q (a percentage),
// or "-" when nothing was recorded.
func percentile(h *hdrhistogram.Histogram, q float64) string {
	if h == nil || h.TotalCount() == 0 {
		return "-"
	}

	return humanize.Comma(h.ValueAtQuantile(q))
}

func throughput(ops uint64, d time.Duration) int64 {
	if ops == 0 || d <= 0 {
		return 0
	}

	return int64(float64(ops) / d.Seconds())
}

func formatDuration(d time.Duration) string {
	return d.Round(100 * time.Microsecond).String()
}

// Summary is the machine-readable form of one benchmark's statistics.
type Summary struct {
	Database string `json:"database"`
	Workload string `json:"workload"`

	LoadOps        uint64 `json:"load_ops"`
	LoadTimeMs     int64  `json:"load_time_ms"`
	LoadThroughput int64  `json:"load_ops_per_sec"`

	RunWallTimeMs int64 `json:"run_wall_time_ms"`

	Read  OpSummary `json:"read"`
	Write OpSummary `json:"write"`

	SkippedOps uint64 `json:"skipped_ops,omitempty"`
}

// OpSummary summarizes one side of the run-phase operation mix.
type OpSummary struct {
	Ops        uint64 `json:"ops"`
	TimeMs     int64  `json:"time_ms"`
	Throughput int64  `json:"ops_per_sec"`
	P50        int64  `json:"p50_us"`
	P95        int64  `json:"p95_us"`
	P99        int64  `json:"p99_us"`
	P999       int64  `json:"p999_us"`
}

// NewSummary converts stats into its JSON form.
func NewSummary(dbName, workloadName string, stats *harness.Stats) Summary {
	return Summary{
		Database:       dbName,
		Workload:       workloadName,
		LoadOps:        stats.LoadOps,
		LoadTimeMs:     stats.LoadTime.Milliseconds(),
		LoadThroughput: throughput(stats.LoadOps, stats.LoadTime),
		RunWallTimeMs:  stats.RunWallTime.Milliseconds(),
		Read:           newOpSummary(stats.RunReadOps, stats.RunReadTime, stats.RunReadHist),
		Write:          newOpSummary(stats.RunWriteOps, stats.RunWriteTime, stats.RunWriteHist),
		SkippedOps:     stats.RunSkipOps,
	}
}

func newOpSummary(ops uint64, busy time.Duration, h *hdrhistogram.Histogram) OpSummary {
	s := OpSummary{
		Ops:        ops,
		TimeMs:     busy.Milliseconds(),
		Throughput: throughput(ops, busy),
	}

	if h != nil && h.TotalCount() > 0 {
		s.P50 = h.ValueAtQuantile(50)
		s.P95 = h.ValueAtQuantile(95)
		s.P99 = h.ValueAtQuantile(99)
		s.P999 = h.ValueAtQuantile(99.9)
	}

	return s
}

// GenerateJSON writes the statistics as indented JSON.
func GenerateJSON(w io.Writer, dbName, workloadName string, stats *harness.Stats) error {
	if stats == nil {
		return fmt.Errorf("no statistics to report")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(NewSummary(dbName, workloadName, stats))
}
