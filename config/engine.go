package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/canal"
)

// Engine holds engine settings.
type Engine struct {
	Version int `yaml:"version"`
	Log     struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Cache struct {
		Decoded *int `yaml:"decoded"`
	} `yaml:"cache"`
	Pool struct {
		PerBucket *int `yaml:"per_bucket"`
	} `yaml:"pool"`
	Surface struct {
		MaxDim int `yaml:"max_dim"`
	} `yaml:"surface"`
}

// DefaultEngine returns the settings used without a config file.
func DefaultEngine() *Engine {
	c := &Engine{Version: 1}
	c.Log.Level = "info"
	c.Log.Format = "text"
	return c
}

// LoadEngine reads engine settings from a YAML file.
func LoadEngine(path string) (*Engine, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseEngine(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseEngine decodes engine settings.
func ParseEngine(b []byte) (*Engine, error) {
	cfg := DefaultEngine()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Version != 1 {
		return nil, fmt.Errorf("%w: %d", ErrVersion, cfg.Version)
	}
	return cfg, nil
}

// Options converts the settings to engine options.
func (c *Engine) Options() []canal.Option {
	var opts []canal.Option
	if c.Cache.Decoded != nil {
		opts = append(opts, canal.WithDecodeCacheSize(*c.Cache.Decoded))
	}
	if c.Pool.PerBucket != nil {
		opts = append(opts, canal.WithPoolSize(*c.Pool.PerBucket))
	}
	if c.Surface.MaxDim > 0 {
		opts = append(opts, canal.WithMaxSurface(c.Surface.MaxDim))
	}
	return opts
}

// NewLogger builds the logger described by the log settings. Unknown
// levels mean info and unknown formats mean text.
func (c *Engine) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch c.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.Log.Format == "json" {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}
