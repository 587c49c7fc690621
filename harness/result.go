// Package harness executes benchmark workloads against a storage backend:
// a sequential load phase that populates the key universe, then a
// concurrent run phase that issues a mixed read/write stream and records
// per-operation latency.
package harness

import (
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

// Latency histograms track microseconds from 1 µs to 10 s at 3
// significant digits.
const (
	histMin     = 1
	histMax     = 10_000_000
	histSigFigs = 3
)

func newHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(histMin, histMax, histSigFigs)
}

// recordLatency clamps d into the histogram's trackable range before
// recording, so an outlier saturates at the bound instead of being
// dropped from the counts.
func recordLatency(h *hdrhistogram.Histogram, d time.Duration) {
	us := d.Microseconds()
	if us < histMin {
		us = histMin
	} else if us > histMax {
		us = histMax
	}

	// Cannot fail after clamping.
	_ = h.RecordValue(us)
}

// Result holds one worker's measurements for a single run phase. The
// durations accumulate wall time spent strictly inside Get/Set calls.
type Result struct {
	ReadDuration time.Duration
	ReadOps      uint64
	ReadHist     *hdrhistogram.Histogram

	WriteDuration time.Duration
	WriteOps      uint64
	WriteHist     *hdrhistogram.Histogram

	// SkippedOps counts draws falling into the mix gap when
	// ReadPercent + WritePercent < 1.
	SkippedOps uint64
}

func newResult() Result {
	return Result{ReadHist: newHistogram(), WriteHist: newHistogram()}
}

// merge folds other into r. Merging is commutative and associative, so
// worker results may be combined in any order.
func (r *Result) merge(other Result) {
	r.ReadDuration += other.ReadDuration
	r.ReadOps += other.ReadOps
	r.WriteDuration += other.WriteDuration
	r.WriteOps += other.WriteOps
	r.SkippedOps += other.SkippedOps

	// Bounds are identical on both sides, so nothing is dropped.
	r.ReadHist.Merge(other.ReadHist)
	r.WriteHist.Merge(other.WriteHist)
}

// Stats aggregates one benchmark invocation. It is mutated exactly twice,
// once after the load phase and once after the run phase, and read-only
// afterwards.
type Stats struct {
	LoadTime time.Duration
	LoadOps  uint64

	// RunWallTime is the single wall-clock span of the run phase, from
	// before the first worker spawn to after the last join.
	RunWallTime time.Duration

	// RunReadTime and RunWriteTime sum per-worker in-call durations
	// across all workers. With more than one worker making progress in
	// parallel they are not comparable to RunWallTime in either
	// direction; throughput derives from these sums.
	RunReadTime  time.Duration
	RunWriteTime time.Duration

	RunReadOps  uint64
	RunWriteOps uint64
	RunSkipOps  uint64

	RunReadHist  *hdrhistogram.Histogram
	RunWriteHist *hdrhistogram.Histogram
}

// NewStats creates an empty aggregate with allocated histograms.
func NewStats() *Stats {
	return &Stats{
		RunReadHist:  newHistogram(),
		RunWriteHist: newHistogram(),
	}
}
