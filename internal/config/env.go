package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables that override the config file.
const (
	EnvPatchesDir = "PATCH_SYNC_PATCHES_DIR"
	EnvTreeDir    = "PATCH_SYNC_TREE_DIR"
	EnvLogLevel   = "PATCH_SYNC_LOG_LEVEL"
	EnvNoInherit  = "PATCH_SYNC_NO_INHERIT"
	EnvNoColor    = "PATCH_SYNC_NO_COLOR"
)

// LoadDotEnv loads dir/.env into the process environment. Variables that are
// already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg fields from PATCH_SYNC_* environment variables.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvPatchesDir)); v != "" {
		cfg.PatchesDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTreeDir)); v != "" {
		cfg.TreeDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
}

// EnvNoInheritSet returns true if PATCH_SYNC_NO_INHERIT is set to "1" or "true".
func EnvNoInheritSet() bool {
	return envBoolTrue(EnvNoInherit)
}

// EnvNoColorSet reports whether colored output is disabled through
// PATCH_SYNC_NO_COLOR or the NO_COLOR convention.
func EnvNoColorSet() bool {
	return envBoolTrue(EnvNoColor) || os.Getenv("NO_COLOR") != ""
}

// envBoolTrue returns true if the env var is set to "1" or "true" (case-insensitive).
func envBoolTrue(key string) bool {
	v := os.Getenv(key)
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "1" || v == "true"
}
