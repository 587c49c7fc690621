package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gurksohal/kvbencher/harness"
)

func populatedStats(t *testing.T) *harness.Stats {
	t.Helper()

	stats := harness.NewStats()
	stats.LoadOps = 1000
	stats.LoadTime = time.Second
	stats.RunWallTime = 250 * time.Millisecond
	stats.RunReadOps = 3
	stats.RunReadTime = 600 * time.Microsecond
	stats.RunWriteOps = 2
	stats.RunWriteTime = 2 * time.Millisecond

	for _, us := range []int64{100, 200, 300} {
		if err := stats.RunReadHist.RecordValue(us); err != nil {
			t.Fatalf("record read latency: %v", err)
		}
	}

	for _, us := range []int64{500, 1500} {
		if err := stats.RunWriteHist.RecordValue(us); err != nil {
			t.Fatalf("record write latency: %v", err)
		}
	}

	return stats
}

func TestGenerateSections(t *testing.T) {
	var buf bytes.Buffer

	if err := Generate(&buf, "membtree", "read-write", populatedStats(t)); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	output := buf.String()

	for _, want := range []string{
		"database: membtree, workload: read-write",
		"=== LOAD ===",
		"=== RUN READ ===",
		"=== RUN WRITE ===",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}

	if strings.Contains(output, "skipped ops") {
		t.Error("skipped-ops line rendered with no skips")
	}
}

func TestGenerateExactThroughput(t *testing.T) {
	var buf bytes.Buffer

	if err := Generate(&buf, "membtree", "read-write", populatedStats(t)); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// 1000 ops in exactly 1s, with a thousands separator.
	if !strings.Contains(buf.String(), "throughput: 1,000 ops/s") {
		t.Errorf("load throughput not rendered exactly:\n%s", buf.String())
	}
}

func TestGenerateEmptyHistogramSentinel(t *testing.T) {
	stats := harness.NewStats()
	stats.LoadOps = 10
	stats.LoadTime = time.Millisecond

	var buf bytes.Buffer

	if err := Generate(&buf, "membtree", "read-only", stats); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "p50: - µs") {
		t.Errorf("empty histogram did not render the sentinel:\n%s",
			buf.String())
	}
}

func TestGenerateSkippedOps(t *testing.T) {
	stats := populatedStats(t)
	stats.RunSkipOps = 12345

	var buf bytes.Buffer

	if err := Generate(&buf, "membtree", "read-write", stats); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(buf.String(), "skipped ops: 12,345") {
		t.Errorf("skipped ops not rendered:\n%s", buf.String())
	}
}

func TestPercentileMonotonic(t *testing.T) {
	stats := harness.NewStats()

	for us := int64(1); us <= 10_000; us++ {
		if err := stats.RunReadHist.RecordValue(us); err != nil {
			t.Fatalf("record latency: %v", err)
		}
	}

	h := stats.RunReadHist

	p50 := h.ValueAtQuantile(50)
	p95 := h.ValueAtQuantile(95)
	p99 := h.ValueAtQuantile(99)
	p999 := h.ValueAtQuantile(99.9)

	if p50 > p95 || p95 > p99 || p99 > p999 {
		t.Errorf("percentiles not monotonic: %d %d %d %d",
			p50, p95, p99, p999)
	}
}

func TestGenerateJSON(t *testing.T) {
	var buf bytes.Buffer

	if err := GenerateJSON(&buf, "leveldb", "read-heavy", populatedStats(t)); err != nil {
		t.Fatalf("GenerateJSON failed: %v", err)
	}

	var summary Summary
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if summary.Database != "leveldb" || summary.Workload != "read-heavy" {
		t.Errorf("identity fields: %q/%q", summary.Database, summary.Workload)
	}

	if summary.LoadOps != 1000 || summary.LoadThroughput != 1000 {
		t.Errorf("load fields: ops=%d throughput=%d",
			summary.LoadOps, summary.LoadThroughput)
	}

	if summary.Read.Ops != 3 || summary.Write.Ops != 2 {
		t.Errorf("run ops: read=%d write=%d",
			summary.Read.Ops, summary.Write.Ops)
	}

	if summary.Read.P50 == 0 || summary.Read.P999 == 0 {
		t.Errorf("read percentiles missing: %+v", summary.Read)
	}
}

func TestGenerateNilStats(t *testing.T) {
	var buf bytes.Buffer

	if err := Generate(&buf, "membtree", "read-write", nil); err == nil {
		t.Error("expected error for nil stats")
	}

	if err := GenerateJSON(&buf, "membtree", "read-write", nil); err == nil {
		t.Error("expected error for nil stats")
	}
}
