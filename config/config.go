// Package config loads the settings used to wire a marker scan at startup:
// logging, metrics and the container's collision policy.
//
// Values come from three places, later ones winning: built-in defaults, an
// optional YAML file, and DIREG_* environment variables (optionally seeded
// from .env files).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration.
type Config struct {
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Container ContainerConfig `yaml:"container"`
}

// LogConfig selects the logger level and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // console | json
}

// MetricsConfig turns Prometheus scan counters on or off.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ContainerConfig holds the container's collision policy.
type ContainerConfig struct {
	Collision string `yaml:"collision"` // multibind | reject
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Container: ContainerConfig{
			Collision: "multibind",
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// path is empty) and the environment. envFiles are loaded into the
// environment first, in order; a missing file is skipped, any other failure
// to read or parse one is returned.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	cfg.Log.Level = env("DIREG_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = env("DIREG_LOG_FORMAT", cfg.Log.Format)
	cfg.Metrics.Enabled = envBool("DIREG_METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Container.Collision = env("DIREG_CONTAINER_COLLISION", cfg.Container.Collision)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every enumerated setting has a known value.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	switch strings.ToLower(c.Container.Collision) {
	case "multibind", "reject":
	default:
		return fmt.Errorf("container.collision: unknown policy %q", c.Container.Collision)
	}
	return nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
