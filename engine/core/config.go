package core

import (
	"encoding/json"
	"log/slog"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

// Config holds runtime settings for one simulation
type Config struct {
	InitialCapacity int     `json:"initial_capacity"` // entity slots to preallocate
	TickRate        float64 `json:"tick_rate"`        // simulation ticks per second
	MaxFrameTime    float64 `json:"max_frame_time"`   // seconds of wall time consumed per frame at most
	LogLevel        string  `json:"log_level"`        // debug, info, warn, error
}

// DefaultConfig returns the settings used when no file is given
func DefaultConfig() Config {
	return Config{
		InitialCapacity: 1024,
		TickRate:        30,
		MaxFrameTime:    0.25,
		LogLevel:        "info",
	}
}

// LoadConfig reads a JSON file over the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, eris.Wrapf(err, "read config %s", path)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "parse config %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the loop cannot run with
func (c Config) Validate() error {
	if c.TickRate <= 0 {
		return eris.Errorf("tick_rate must be positive, got %v", c.TickRate)
	}
	if c.MaxFrameTime <= 0 {
		return eris.Errorf("max_frame_time must be positive, got %v", c.MaxFrameTime)
	}
	if c.InitialCapacity < 0 {
		return eris.Errorf("initial_capacity must not be negative, got %d", c.InitialCapacity)
	}
	return nil
}

// withDefaults replaces settings Validate would reject with their defaults
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.MaxFrameTime <= 0 {
		c.MaxFrameTime = d.MaxFrameTime
	}
	if c.InitialCapacity < 0 {
		c.InitialCapacity = d.InitialCapacity
	}
	return c
}

// Level maps LogLevel to a slog level, defaulting to info
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
