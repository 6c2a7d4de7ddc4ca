package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"
)

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("stress test failed", zap.Error(err))
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// startProfile starts the profiler selected by mode, writing to the working
// directory. It returns nil when profiling is off.
func startProfile(mode string) interface{ Stop() } {
	switch mode {
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	case "mem":
		return profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet)
	default:
		return nil
	}
}

func run(cfg Config, logger *zap.Logger) error {
	logger.Info("starting component storage stress test",
		zap.Duration("duration", cfg.Duration),
		zap.Int("frames", cfg.Frames),
		zap.Int("entities", cfg.Entities),
		zap.Int("workers", cfg.Workers),
		zap.Float64("churn_rate", cfg.ChurnRate),
	)

	if p := startProfile(cfg.Profile); p != nil {
		logger.Info("profiling enabled", zap.String("mode", cfg.Profile))
		defer p.Stop()
	}

	ctx := context.Background()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	var memStart runtime.MemStats
	runtime.ReadMemStats(&memStart)

	startTime := time.Now()
	results, err := runWorkers(ctx, cfg, logger)
	if err != nil {
		return err
	}
	totalTime := time.Since(startTime)

	report := newReport(cfg, results)
	report.TotalTime = totalTime
	report.MemStatsStart = memStart
	runtime.ReadMemStats(&report.MemStatsEnd)

	logger.Info("simulation finished",
		zap.Int64("updates", report.TotalUpdates),
		zap.Duration("total_time", totalTime),
		zap.Duration("avg_update", report.UpdateTime.Avg),
	)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Println("--- End of Report ---")

	return nil
}
