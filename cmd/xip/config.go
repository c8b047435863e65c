package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/seiflotfy/xip"
)

// Config is the optional YAML configuration of the CLI. Command-line flags
// override it.
type Config struct {
	IterationLimit int    `yaml:"iteration_limit"`
	Extension      string `yaml:"extension"`
	LogLevel       string `yaml:"log_level"`
	CacheSize      int    `yaml:"cache_size"`
}

func defaultConfig() Config {
	return Config{
		Extension: xip.Extension,
		LogLevel:  "warn",
		CacheSize: xip.DefaultCacheSize,
	}
}

// loadConfig reads path on top of the defaults. Unknown keys are rejected.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.IterationLimit < 0 {
		return fmt.Errorf("iteration_limit must be >= 0: %d", c.IterationLimit)
	}
	if c.Extension == "" || !strings.HasPrefix(c.Extension, ".") {
		return fmt.Errorf("extension must start with '.': %q", c.Extension)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must be >= 0: %d", c.CacheSize)
	}
	_, err := c.level()
	return err
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("log_level: %w", err)
	}
	return l, nil
}
