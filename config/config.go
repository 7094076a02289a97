// Package config loads run settings from a TOML file and applies them to
// coordinator builders and loggers.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sarchlab/duet/coord"
	"github.com/sarchlab/duet/core"
	"github.com/sarchlab/duet/instr"
)

// Engine names accepted in Run.Engine.
const (
	EngineDirect = "direct"
	EngineAkita  = "akita"
)

// Run configures coordinator runs.
type Run struct {
	MaxRounds        int    `toml:"max_rounds"`
	DesignatedLane   int    `toml:"designated_lane"`
	IdentityRegister string `toml:"identity_register"`
	Loopback         bool   `toml:"loopback"`
	Engine           string `toml:"engine"`
}

// Solo configures sound-mode runs.
type Solo struct {
	MaxSteps int `toml:"max_steps"`
}

// Log configures the default logger.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Config is the whole configuration file.
type Config struct {
	Run  Run  `toml:"run"`
	Solo Solo `toml:"solo"`
	Log  Log  `toml:"log"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Run: Run{
			MaxRounds:        coord.DefaultMaxRounds,
			DesignatedLane:   1,
			IdentityRegister: "p",
			Engine:           EngineDirect,
		},
		Solo: Solo{
			MaxSteps: 10_000_000,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown config keys in %s: %v", path, undecoded)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes TOML text on top of the defaults.
func Parse(text string) (Config, error) {
	cfg := Default()

	if _, err := toml.Decode(text, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Run.MaxRounds < 0 {
		return fmt.Errorf("run.max_rounds must not be negative")
	}

	if c.Run.DesignatedLane != 0 && c.Run.DesignatedLane != 1 {
		return fmt.Errorf("run.designated_lane must be 0 or 1, got %d", c.Run.DesignatedLane)
	}

	if _, err := instr.ParseRegister(c.Run.IdentityRegister); err != nil {
		return fmt.Errorf("run.identity_register: %w", err)
	}

	switch c.Run.Engine {
	case EngineDirect, EngineAkita:
	default:
		return fmt.Errorf("run.engine must be %q or %q, got %q", EngineDirect, EngineAkita, c.Run.Engine)
	}

	if c.Solo.MaxSteps < 0 {
		return fmt.Errorf("solo.max_steps must not be negative")
	}

	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// CoordinatorBuilder returns a builder with the run settings applied.
func (c Config) CoordinatorBuilder() coord.Builder {
	identity, _ := instr.ParseRegister(c.Run.IdentityRegister)

	return coord.NewBuilder().
		WithMaxRounds(c.Run.MaxRounds).
		WithDesignatedLane(c.Run.DesignatedLane).
		WithIdentityRegister(identity).
		WithLoopback(c.Run.Loopback)
}

// ParseLevel accepts debug, trace, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "trace":
		return core.LevelTrace, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// NewLogger builds a logger writing to w in the configured format.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}
