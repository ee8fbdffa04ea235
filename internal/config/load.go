package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a single patch-sync.yaml file. Fields the file
// leaves empty take their default values.
func Load(path string) (*Config, error) {
	cfg, err := parse(path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

func parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.PatchesDir == "" {
		cfg.PatchesDir = def.PatchesDir
	}
	if cfg.TreeDir == "" {
		cfg.TreeDir = def.TreeDir
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.TreeHint == "" {
		cfg.TreeHint = def.TreeHint
	}
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

var validLogLevels = []string{"debug", "info", "warn", "error", "none"}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	if cfg.PatchesDir == "" {
		errs = append(errs, "'patches_dir' is required")
	}
	if cfg.TreeDir == "" {
		errs = append(errs, "'tree_dir' is required")
	}
	if cfg.PatchesDir != "" && filepath.Clean(cfg.PatchesDir) == filepath.Clean(cfg.TreeDir) {
		errs = append(errs, fmt.Sprintf("'patches_dir' and 'tree_dir' must differ (both are '%s')", cfg.PatchesDir))
	}

	if cfg.LogLevel != "" && !contains(validLogLevels, cfg.LogLevel) {
		errs = append(errs, fmt.Sprintf("invalid log_level '%s' — must be one of: %s", cfg.LogLevel, strings.Join(validLogLevels, ", ")))
	}

	return errs
}

// Resolve returns a copy of cfg whose relative directories are anchored at root.
func (c *Config) Resolve(root string) *Config {
	out := *c
	out.PatchesDir = anchor(root, c.PatchesDir)
	out.TreeDir = anchor(root, c.TreeDir)
	return &out
}

func anchor(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(root, path))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
