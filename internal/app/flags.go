package app

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"khaos-map/internal/config"
)

// Config represents the command-line parameters shared by the commands.
type Config struct {
	ConfigPath string
	Overrides  KeyValues
	Size       int
	Scale      int
	TPS        int
	Budget     time.Duration
	Verbose    bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{Size: 480, Scale: 1, TPS: 60, Budget: 8 * time.Millisecond}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file (defaults when empty)")
	fs.Var(&c.Overrides, "set", "config override in key=value form (repeatable)")
	fs.IntVar(&c.Size, "size", c.Size, "map raster size in pixels")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "frames (viewer) or ticks (headless) per second, 0 for unthrottled")
	fs.DurationVar(&c.Budget, "budget", c.Budget, "simulation time budget per frame")
	fs.BoolVar(&c.Verbose, "v", c.Verbose, "debug logging")
}

// MapConfig loads the map configuration and applies the -set overrides.
func (c *Config) MapConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg.Apply(c.Overrides.Map())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("validate overrides: %w", err)
	}
	return cfg, nil
}

// Logger builds the process logger honouring -v.
func (c *Config) Logger() *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// KeyValues collects repeated key=value flags.
type KeyValues []string

func (l *KeyValues) String() string {
	return strings.Join(*l, ",")
}

func (l *KeyValues) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("override %q is not in key=value form", value)
	}
	*l = append(*l, value)
	return nil
}

// Map returns the overrides keyed by name. Later values win.
func (l KeyValues) Map() map[string]string {
	out := make(map[string]string, len(l))
	for _, kv := range l {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			continue
		}
		out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return out
}
