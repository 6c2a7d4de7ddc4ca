package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes a stress workload. It can be read from a YAML file and then
// overridden by command line flags.
type Config struct {
	Duration       time.Duration `yaml:"duration"`
	Frames         int           `yaml:"frames"`
	Entities       int           `yaml:"entities"`
	Workers        int           `yaml:"workers"`
	ChurnRate      float64       `yaml:"churn_rate"`
	Seed           int64         `yaml:"seed"`
	Profile        string        `yaml:"profile"`
	GCPauseMetrics bool          `yaml:"gc_pause_metrics"`
	Verbose        bool          `yaml:"verbose"`
}

// DefaultConfig returns the workload used when neither a file nor flags say
// otherwise.
func DefaultConfig() Config {
	return Config{
		Duration:  10 * time.Second,
		Entities:  10000,
		Workers:   1,
		ChurnRate: 0.01,
		Seed:      1,
	}
}

// LoadYAML decodes a workload from r on top of the defaults.
func LoadYAML(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads a workload from a YAML file.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// Validate checks the workload for values the driver cannot run with.
func (c Config) Validate() error {
	if c.Duration <= 0 && c.Frames <= 0 {
		return fmt.Errorf("either duration or frames must be positive")
	}
	if c.Entities <= 0 {
		return fmt.Errorf("entities must be positive, got %d", c.Entities)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.ChurnRate < 0 || c.ChurnRate > 1 {
		return fmt.Errorf("churn_rate must be within [0, 1], got %g", c.ChurnRate)
	}
	switch c.Profile {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("unknown profile mode %q", c.Profile)
	}
	return nil
}

// parseConfig builds the workload from args. Flags that were set explicitly
// take precedence over values read from -config.
func parseConfig(args []string) (Config, error) {
	fs := flag.NewFlagSet("storage-stress", flag.ContinueOnError)

	configPath := fs.String("config", "", "Path to a YAML workload file.")
	defaults := DefaultConfig()
	duration := fs.Duration("duration", defaults.Duration, "The total duration the test should run for.")
	frames := fs.Int("frames", defaults.Frames, "Stop after this many frames per worker (0 for no limit).")
	entities := fs.Int("entities", defaults.Entities, "The initial number of entities to create per worker.")
	workers := fs.Int("workers", defaults.Workers, "Number of independent storages to drive concurrently.")
	churn := fs.Float64("churn", defaults.ChurnRate, "Fraction of entities cleared and re-added each frame.")
	seed := fs.Int64("seed", defaults.Seed, "Random seed; worker i uses seed+i.")
	profileMode := fs.String("profile", defaults.Profile, "Write a profile to the working directory: cpu or mem.")
	gcPauseMetrics := fs.Bool("gc-pause-metrics", defaults.GCPauseMetrics, "Enable detailed GC pause metrics in the report.")
	verbose := fs.Bool("verbose", defaults.Verbose, "Use human readable development logging.")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := defaults
	if *configPath != "" {
		loaded, err := LoadFile(*configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "duration":
			cfg.Duration = *duration
		case "frames":
			cfg.Frames = *frames
		case "entities":
			cfg.Entities = *entities
		case "workers":
			cfg.Workers = *workers
		case "churn":
			cfg.ChurnRate = *churn
		case "seed":
			cfg.Seed = *seed
		case "profile":
			cfg.Profile = *profileMode
		case "gc-pause-metrics":
			cfg.GCPauseMetrics = *gcPauseMetrics
		case "verbose":
			cfg.Verbose = *verbose
		}
	})

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
