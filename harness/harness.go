package harness

import (
	"fmt"
	"log/slog"
	mrand "math/rand"
	"time"

	"github.com/gurksohal/kvbencher/generator"
	"github.com/gurksohal/kvbencher/store"
	"github.com/gurksohal/kvbencher/workload"
)

// Execute drives one full benchmark: load phase, then run phase. The seed
// determines every generator seed in both phases, so a fixed seed and
// thread count reproduce the whole benchmark. stats is mutated exactly
// twice, once per phase.
func Execute(
	logger *slog.Logger,
	db store.Store,
	cfg workload.Config,
	seed int64,
	stats *Stats,
) error {
	seeds := mrand.New(mrand.NewSource(seed))

	if err := Load(logger, db, cfg, seeds.Int63(), stats); err != nil {
		return fmt.Errorf("load phase: %w", err)
	}

	if err := Run(logger, db, cfg, seeds.Int63(), stats); err != nil {
		return fmt.Errorf("run phase: %w", err)
	}

	return nil
}

// Load populates db with exactly cfg.LoadInsertCount keys, sequentially
// and single-threaded. Key and value bytes are both derived by reseeding
// a byte source from the loop index, so the key universe is exactly the
// indices 0..LoadInsertCount mapped injectively to fixed-size keys. Only
// the time spent inside Set calls is accumulated into stats.LoadTime.
func Load(
	logger *slog.Logger,
	db store.Store,
	cfg workload.Config,
	seed int64,
	stats *Stats,
) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("workload %s: %w", cfg.Name, err)
	}

	if err := db.Init(); err != nil {
		return fmt.Errorf("init store: %w", err)
	}

	valueSizes, err := generator.NewSizeGen(
		cfg.MaxValueSize-cfg.MinValueSize, uint64(seed),
	)
	if err != nil {
		return err
	}

	logger.Info("load phase starting",
		slog.String("workload", cfg.Name),
		slog.Uint64("keys", cfg.LoadInsertCount),
	)

	key := make([]byte, cfg.KeySize)

	var elapsed time.Duration

	for i := uint64(0); i < cfg.LoadInsertCount; i++ {
		value := make([]byte, valueSizes.Size()+cfg.MinValueSize)

		rng := mrand.New(mrand.NewSource(int64(i)))
		rng.Read(key)
		rng.Read(value)

		start := time.Now()

		if err := db.Set(key, value); err != nil {
			return fmt.Errorf("load key %d: %w", i, err)
		}

		elapsed += time.Since(start)
	}

	stats.LoadTime = elapsed
	stats.LoadOps = cfg.LoadInsertCount

	logger.Info("load phase complete",
		slog.Duration("time", elapsed),
		slog.Uint64("ops", cfg.LoadInsertCount),
	)

	return nil
}

// workerSeeds carries one worker's generator seeds, all derived from the
// run-level seed before any worker starts.
type workerSeeds struct {
	size  int64
	bytes int64
	mix   int64
}

// Run spawns cfg.ThreadCount workers, each issuing cfg.OperationCount
// mixed operations against db with its own generators, and merges their
// results into stats. Workers share nothing but the store handle. Any
// worker failure fails the whole run phase after all workers have
// stopped; no partial statistics are recorded.
func Run(
	logger *slog.Logger,
	db store.Store,
	cfg workload.Config,
	seed int64,
	stats *Stats,
) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("workload %s: %w", cfg.Name, err)
	}

	seedRng := mrand.New(mrand.NewSource(seed))
	seeds := make([]workerSeeds, cfg.ThreadCount)

	for i := range seeds {
		seeds[i] = workerSeeds{
			size:  seedRng.Int63(),
			bytes: seedRng.Int63(),
			mix:   seedRng.Int63(),
		}
	}

	logger.Info("run phase starting",
		slog.String("workload", cfg.Name),
		slog.Int("threads", cfg.ThreadCount),
		slog.Uint64("ops_per_thread", cfg.OperationCount),
	)

	type outcome struct {
		res Result
		err error
	}

	outcomes := make(chan outcome, cfg.ThreadCount)

	wallStart := time.Now()

	for i := 0; i < cfg.ThreadCount; i++ {
		go func(ws workerSeeds) {
			res, err := runWorker(db, cfg, ws)
			outcomes <- outcome{res: res, err: err}
		}(seeds[i])
	}

	merged := newResult()

	var firstErr error

	for i := 0; i < cfg.ThreadCount; i++ {
		out := <-outcomes
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}

			continue
		}

		merged.merge(out.res)
	}

	wall := time.Since(wallStart)

	if firstErr != nil {
		return fmt.Errorf("run worker: %w", firstErr)
	}

	stats.RunWallTime = wall
	stats.RunReadTime = merged.ReadDuration
	stats.RunWriteTime = merged.WriteDuration
	stats.RunReadOps = merged.ReadOps
	stats.RunWriteOps = merged.WriteOps
	stats.RunSkipOps = merged.SkippedOps
	stats.RunReadHist = merged.ReadHist
	stats.RunWriteHist = merged.WriteHist

	logger.Info("run phase complete",
		slog.Duration("wall_time", wall),
		slog.Uint64("read_ops", merged.ReadOps),
		slog.Uint64("write_ops", merged.WriteOps),
		slog.Uint64("skipped_ops", merged.SkippedOps),
	)

	return nil
}

func runWorker(
	db store.Store,
	cfg workload.Config,
	ws workerSeeds,
) (Result, error) {
	res := newResult()

	valueSizes, err := generator.NewSizeGen(
		cfg.MaxValueSize-cfg.MinValueSize, uint64(ws.size),
	)
	if err != nil {
		return res, err
	}

	// Key indices are bounded by the loaded key universe.
	byteGen, err := generator.NewByteGen(
		cfg.LoadInsertCount, uint64(ws.bytes),
	)
	if err != nil {
		return res, err
	}

	mix := mrand.New(mrand.NewSource(ws.mix))

	for op := uint64(0); op < cfg.OperationCount; op++ {
		x := mix.Float64()
		key := byteGen.KeyBytes(cfg.KeySize)

		switch {
		case x < cfg.ReadPercent:
			start := time.Now()

			if err := db.Get(key); err != nil {
				return res, fmt.Errorf("get: %w", err)
			}

			d := time.Since(start)
			res.ReadDuration += d
			res.ReadOps++
			recordLatency(res.ReadHist, d)

		case x < cfg.ReadPercent+cfg.WritePercent:
			value := byteGen.ValueBytes(valueSizes.Size() + cfg.MinValueSize)

			start := time.Now()

			if err := db.Set(key, value); err != nil {
				return res, fmt.Errorf("set: %w", err)
			}

			d := time.Since(start)
			res.WriteDuration += d
			res.WriteOps++
			recordLatency(res.WriteHist, d)

		default:
			// Gap left when the mix sums below 1: an explicit no-op,
			// counted so op accounting stays checkable.
			res.SkippedOps++
		}
	}

	return res, nil
}
