// Package config loads pagegraph's runtime defaults from environment
// variables, with an optional YAML file overlay.
//
// Grounded on the teacher's pkg/config/config.go LoadFromEnv/Validate
// shape, trimmed to this domain: there is no Bolt/HTTP/auth/compliance
// surface here, since pagegraph has no network server (spec section 1's
// scope is a graph library plus its GraphML collaborator and a CLI).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds pagegraph's tunable defaults.
type Config struct {
	// DataDir is the configured directory for .graphml/.graphmlz files.
	// The CLI commands do not consult it: they read and write the paths
	// they are given as-is.
	DataDir string `yaml:"data_dir"`

	// Alpha is the default PageRank damping factor.
	Alpha float64 `yaml:"alpha"`
	// MaxIter is the default PageRank iteration cap.
	MaxIter int `yaml:"max_iter"`
	// Tol is the default PageRank L1 convergence threshold.
	Tol float64 `yaml:"tol"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"log_level"`
}

// Default returns pagegraph's built-in defaults, matching spec section
// 4.F's facade defaults (alpha=0.85, max_iter=100, tol=1e-6).
func Default() *Config {
	return &Config{
		DataDir:  ".",
		Alpha:    0.85,
		MaxIter:  100,
		Tol:      1e-6,
		LogLevel: "info",
	}
}

// LoadFromEnv starts from Default() and overrides fields from
// PAGEGRAPH_* environment variables, mirroring the teacher's
// LoadFromEnv pattern of reading os.Getenv per field.
func LoadFromEnv() *Config {
	cfg := Default()

	if v := os.Getenv("PAGEGRAPH_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PAGEGRAPH_ALPHA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Alpha = f
		}
	}
	if v := os.Getenv("PAGEGRAPH_MAX_ITER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxIter = n
		}
	}
	if v := os.Getenv("PAGEGRAPH_TOL"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tol = f
		}
	}
	if v := os.Getenv("PAGEGRAPH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	return cfg
}

// LoadYAML overlays cfg with values from a YAML file at path. Fields
// absent from the file are left untouched.
func LoadYAML(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate checks that cfg's numeric fields are within the ranges
// spec section 4.E requires of the PageRank kernel's inputs.
func (c *Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("config: alpha must be in (0, 1), got %v", c.Alpha)
	}
	if c.MaxIter <= 0 {
		return fmt.Errorf("config: max_iter must be positive, got %v", c.MaxIter)
	}
	if c.Tol <= 0 {
		return fmt.Errorf("config: tol must be positive, got %v", c.Tol)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	return nil
}
