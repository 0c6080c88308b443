package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// MemoryDatabase selects a private in-memory catalog.
const MemoryDatabase = ":memory:"

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Release catalog (SQLite), or ":memory:"
	Log      string // Log file
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	db := cfg.Database
	if db == "" {
		db = filepath.Join(cfg.BaseDir, "semverql.db")
	}
	return Paths{
		Database: db,
		Log:      filepath.Join(cfg.LogDir, "semverql.log"),
	}
}

// DefaultBaseDir returns the default base directory ($XDG_DATA_HOME/semverql).
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "semverql")
}

// DefaultLogDir returns the default log directory ($XDG_STATE_HOME/semverql).
func DefaultLogDir() string {
	return filepath.Join(xdg.StateHome, "semverql")
}
