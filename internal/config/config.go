// Package config handles application configuration management.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Base directory for semverql data ($XDG_DATA_HOME/semverql)
	BaseDir string

	// Database is the catalog database path, or ":memory:". Empty means the
	// default file under BaseDir.
	Database string

	// LogDir receives semverql.log ($XDG_STATE_HOME/semverql)
	LogDir string

	// Debug enables debug logging.
	Debug bool
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if dir := os.Getenv("SEMVERQL_HOME"); dir != "" {
		cfg.BaseDir = dir
	}

	if db := os.Getenv("SEMVERQL_DB"); db != "" {
		cfg.Database = db
	}

	if dir := os.Getenv("SEMVERQL_LOG_DIR"); dir != "" {
		cfg.LogDir = dir
	}

	if v := os.Getenv("SEMVERQL_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("parse SEMVERQL_DEBUG: %w", err)
		}
		cfg.Debug = debug
	}

	// Ensure directories exist
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	for _, dir := range []string{cfg.BaseDir, cfg.LogDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
