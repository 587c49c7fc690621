// Package workload defines benchmark descriptors: the statistical shape
// of one benchmark run. A descriptor fixes how many keys the load phase
// writes, the run phase's read/write mix, key and value sizing, and the
// worker parallelism.
package workload

import (
	"fmt"
	"strings"
)

// Config describes one benchmark. It is constructed once and read-only
// thereafter.
type Config struct {
	Name string

	// LoadInsertCount is the number of keys written during the load
	// phase. It also bounds the key indices sampled during the run
	// phase, so run-phase traffic targets the loaded key universe.
	LoadInsertCount uint64

	// OperationCount is issued per worker: the run phase executes
	// ThreadCount * OperationCount operations in total.
	OperationCount uint64

	// ReadPercent and WritePercent partition [0, 1). Their sum must lie
	// in (0, 1]; any remainder below 1 becomes explicitly skipped
	// operations during the run phase.
	ReadPercent  float64
	WritePercent float64

	// KeySize is the fixed byte length of every generated key.
	KeySize uint64

	// Value sizes are drawn from the half-open range
	// [MinValueSize, MaxValueSize).
	MinValueSize uint64
	MaxValueSize uint64

	// ThreadCount is the run phase's worker parallelism.
	ThreadCount int
}

// Validate reports whether the descriptor can drive a benchmark. It is
// checked before any backend call is made.
func (c Config) Validate() error {
	if c.ReadPercent < 0 || c.ReadPercent > 1 {
		return fmt.Errorf("read percent %v outside [0, 1]", c.ReadPercent)
	}

	if c.WritePercent < 0 || c.WritePercent > 1 {
		return fmt.Errorf("write percent %v outside [0, 1]", c.WritePercent)
	}

	sum := c.ReadPercent + c.WritePercent
	if sum <= 0 {
		return fmt.Errorf("read and write percent cannot both be zero")
	}

	if sum > 1 {
		return fmt.Errorf("read and write percent sum to %v, above 1", sum)
	}

	if c.LoadInsertCount < 1 {
		return fmt.Errorf("load insert count must be at least 1")
	}

	if c.KeySize < 1 {
		return fmt.Errorf("key size must be at least 1 byte")
	}

	if c.MaxValueSize <= c.MinValueSize {
		return fmt.Errorf("value size range [%d, %d) is empty",
			c.MinValueSize, c.MaxValueSize)
	}

	if c.ThreadCount < 1 {
		return fmt.Errorf("thread count must be at least 1")
	}

	return nil
}

// ReadWrite is an even 50/50 read/write mix.
func ReadWrite() Config {
	return Config{
		Name:            "read-write",
		LoadInsertCount: 10_000,
		OperationCount:  8_000,
		ReadPercent:     0.5,
		WritePercent:    0.5,
		KeySize:         128,
		MinValueSize:    512,
		MaxValueSize:    1024,
		ThreadCount:     16,
	}
}

// ReadHeavy issues 95% reads against the loaded key universe.
func ReadHeavy() Config {
	cfg := ReadWrite()
	cfg.Name = "read-heavy"
	cfg.ReadPercent = 0.95
	cfg.WritePercent = 0.05

	return cfg
}

// ReadOnly issues reads exclusively.
func ReadOnly() Config {
	cfg := ReadWrite()
	cfg.Name = "read-only"
	cfg.ReadPercent = 1
	cfg.WritePercent = 0

	return cfg
}

// Names returns the workload names selectable from the CLI.
func Names() []string {
	return []string{"read-write", "read-heavy", "read-only"}
}

// ByName resolves a workload name to its descriptor.
func ByName(name string) (Config, error) {
	switch name {
	case "read-write":
		return ReadWrite(), nil
	case "read-heavy":
		return ReadHeavy(), nil
	case "read-only":
		return ReadOnly(), nil
	default:
		return Config{}, fmt.Errorf("unknown workload %q (known: %s)",
			name, strings.Join(Names(), ", "))
	}
}
