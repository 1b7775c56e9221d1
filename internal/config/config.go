package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/simcore/pkg/encoding"
)

type Config struct {
	Store      StoreConfig      `yaml:"store" toml:"store"`
	Snapshot   SnapshotConfig   `yaml:"snapshot" toml:"snapshot"`
	Logging    LoggingConfig    `yaml:"logging" toml:"logging"`
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
}

type StoreConfig struct {
	// MaxDispatchDepth bounds chains of actions dispatched from effects.
	MaxDispatchDepth int `yaml:"max_dispatch_depth" toml:"max_dispatch_depth"`
	// PendingWarnThreshold logs a warning when this many waitFor effects are outstanding.
	PendingWarnThreshold int `yaml:"pending_warn_threshold" toml:"pending_warn_threshold"`
}

type SnapshotConfig struct {
	Codec string `yaml:"codec" toml:"codec"` // "gob" or "yaml"
	Path  string `yaml:"path" toml:"path"`
}

type LoggingConfig struct {
	Level    string `yaml:"level" toml:"level"`
	Encoding string `yaml:"encoding" toml:"encoding"` // "json" or "console"
}

type SimulationConfig struct {
	TickRate time.Duration `yaml:"tick_rate" toml:"tick_rate"`
	Ticks    int           `yaml:"ticks" toml:"ticks"`
	// Throttle is the minimum simulated time, in seconds, between integration steps.
	Throttle float64 `yaml:"throttle" toml:"throttle"`
	// Bounds is the half-width of the square particles may occupy; 0 disables despawning.
	Bounds float64 `yaml:"bounds" toml:"bounds"`
	// Wave is the number of particles spawned at start.
	Wave  int     `yaml:"wave" toml:"wave"`
	Speed float64 `yaml:"speed" toml:"speed"`
}

// Load reads a .toml file with BurntSushi/toml and anything else as YAML,
// on top of Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	default:
		err = yaml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Default() *Config {
	return &Config{
		Store: StoreConfig{
			MaxDispatchDepth:     64,
			PendingWarnThreshold: 256,
		},
		Snapshot: SnapshotConfig{
			Codec: encoding.GobName,
			Path:  "simcore.snapshot",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		Simulation: SimulationConfig{
			TickRate: 16 * time.Millisecond,
			Ticks:    120,
			Throttle: 0.05,
			Bounds:   10,
			Wave:     16,
			Speed:    4,
		},
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Store.MaxDispatchDepth <= 0 {
		errs = append(errs, fmt.Errorf("store.max_dispatch_depth must be positive, got %d", c.Store.MaxDispatchDepth))
	}
	if c.Store.PendingWarnThreshold < 0 {
		errs = append(errs, fmt.Errorf("store.pending_warn_threshold must not be negative, got %d", c.Store.PendingWarnThreshold))
	}
	if _, err := encoding.Lookup(c.Snapshot.Codec); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("logging.encoding must be json or console, got %q", c.Logging.Encoding))
	}
	if c.Simulation.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("simulation.tick_rate must be positive, got %s", c.Simulation.TickRate))
	}
	if c.Simulation.Ticks < 0 {
		errs = append(errs, fmt.Errorf("simulation.ticks must not be negative, got %d", c.Simulation.Ticks))
	}
	if c.Simulation.Throttle < 0 {
		errs = append(errs, fmt.Errorf("simulation.throttle must not be negative, got %g", c.Simulation.Throttle))
	}
	if c.Simulation.Bounds < 0 {
		errs = append(errs, fmt.Errorf("simulation.bounds must not be negative, got %g", c.Simulation.Bounds))
	}
	if c.Simulation.Wave < 0 {
		errs = append(errs, fmt.Errorf("simulation.wave must not be negative, got %d", c.Simulation.Wave))
	}
	return errors.Join(errs...)
}
