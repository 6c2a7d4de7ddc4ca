package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/plus3/compstore/ecs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// workerResult is what a single worker reports back after its run.
type workerResult struct {
	Worker  int
	Frames  int64
	Samples []time.Duration
	Stats   *ecs.StorageStats
}

// spawnEntity writes a fresh random entity at index, replacing anything that
// was there. Set is used rather than Add because Add leaves slots that already
// lie inside an array untouched.
func spawnEntity(storage *ecs.ComponentStorage, rng *rand.Rand, index int) {
	ecs.Set(storage, index, Position{X: rng.Float64() * 1000, Y: rng.Float64() * 1000})
	if rng.Intn(2) == 0 {
		ecs.Set(storage, index, Velocity{DX: rng.Float64()*2 - 1, DY: rng.Float64()*2 - 1})
	}
	if rng.Intn(10) < 7 {
		hp := 50 + rng.Intn(50)
		ecs.Set(storage, index, Health{Current: hp, Max: hp})
	}
	if rng.Intn(10) == 0 {
		ecs.Set(storage, index, Tag("marked"))
	}
}

// populate fills indices [0, n) with random entities.
func populate(storage *ecs.ComponentStorage, rng *rand.Rand, n int) {
	for i := 0; i < n; i++ {
		spawnEntity(storage, rng, i)
	}
}

// simulate advances every entity by one frame of dt seconds, queueing any
// structural edits on cmds.
func simulate(storage *ecs.ComponentStorage, cmds *ecs.Commands, rng *rand.Rand, cfg Config, dt float64) {
	for i, pos := range ecs.ComponentsMut[Position](storage) {
		if vel, ok := ecs.Get[Velocity](storage, i); ok {
			pos.X += vel.DX * dt
			pos.Y += vel.DY * dt
		}
	}

	for i, health := range ecs.ComponentsMut[Health](storage) {
		health.Current--
		if health.Current <= 0 {
			index := i
			cmds.Clear(index)
			cmds.Defer(func() { spawnEntity(storage, rng, index) })
		}
	}

	churn := int(float64(cfg.Entities) * cfg.ChurnRate)
	for range churn {
		index := rng.Intn(cfg.Entities)
		cmds.Clear(index)
		cmds.Defer(func() { spawnEntity(storage, rng, index) })
	}
}

// runWorker drives one storage until ctx is done or the frame limit is hit.
func runWorker(ctx context.Context, cfg Config, worker int, logger *zap.Logger) (*workerResult, error) {
	rng := rand.New(rand.NewSource(cfg.Seed + int64(worker)))
	storage := ecs.NewComponentStorage()
	cmds := ecs.NewCommands()

	populate(storage, rng, cfg.Entities)
	logger.Debug("storage populated",
		zap.Int("entities", cfg.Entities),
		zap.Int("types", storage.TypeCount()),
	)

	result := &workerResult{
		Worker:  worker,
		Samples: make([]time.Duration, 0),
	}

	lastLen := ecs.Len[Position](storage)
	lastFrameTime := time.Now()

	for cfg.Frames <= 0 || result.Frames < int64(cfg.Frames) {
		select {
		case <-ctx.Done():
			return finishWorker(result, storage, logger), nil
		default:
		}

		deltaTime := time.Since(lastFrameTime)
		lastFrameTime = time.Now()

		updateStart := time.Now()
		simulate(storage, cmds, rng, cfg, deltaTime.Seconds())
		cmds.Flush(storage)
		result.Samples = append(result.Samples, time.Since(updateStart))
		result.Frames++

		length := ecs.Len[Position](storage)
		if length < lastLen {
			return nil, fmt.Errorf("position array shrank from %d to %d at frame %d", lastLen, length, result.Frames)
		}
		lastLen = length
	}

	return finishWorker(result, storage, logger), nil
}

func finishWorker(result *workerResult, storage *ecs.ComponentStorage, logger *zap.Logger) *workerResult {
	result.Stats = storage.CollectStats()
	logger.Debug("worker finished",
		zap.Int64("frames", result.Frames),
		zap.Int("slots", result.Stats.TotalSlots),
		zap.Int("filled", result.Stats.TotalFilled),
	)
	return result
}

// runWorkers runs cfg.Workers independent storages, one per goroutine. Each
// storage is owned by exactly one goroutine.
func runWorkers(ctx context.Context, cfg Config, logger *zap.Logger) ([]*workerResult, error) {
	g, gctx := errgroup.WithContext(ctx)
	results := make([]*workerResult, cfg.Workers)

	for i := range cfg.Workers {
		g.Go(func() error {
			res, err := runWorker(gctx, cfg, i, logger.With(zap.Int("worker", i)))
			if err != nil {
				return fmt.Errorf("worker %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
