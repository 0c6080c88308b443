// Package db opens SQLite databases with the semver extension installed and
// keeps a small release catalog on top of them.
package db

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/asteroid-belt/semverql/internal/extension"
	"github.com/asteroid-belt/semverql/internal/log"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the sqlx handle with catalog operations.
type DB struct {
	*sqlx.DB
	path string
}

// Config holds database configuration options.
type Config struct {
	Path        string
	Debug       bool
	MaxIdleConn int
	MaxOpenConn int

	// Extension is bound to the driver hooks by New. Nil keeps the bound
	// instance, or binds an uninstrumented one if none is.
	Extension *extension.Extension
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:        path,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	}
}

// New opens the database, declares the semver_requirements table for the
// connection and creates the catalog schema.
func New(cfg Config) (*DB, error) {
	// Without an explicit instance, keep whatever is already bound.
	if cfg.Extension != nil || registeredExtension() == nil {
		if err := Register(cfg.Extension); err != nil {
			return nil, fmt.Errorf("register extension: %w", err)
		}
	}

	dsn := cfg.Path
	if cfg.Path != MemoryPath {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = fmt.Sprintf("%s?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5000)", cfg.Path)
	}

	sqlx.BindDriver(DriverName, sqlx.QUESTION)
	sqlDB, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The temp virtual table and a memory database both live on one
	// connection, so the pool never grows past it or recycles it.
	sqlDB.SetMaxIdleConns(max(cfg.MaxIdleConn, 1))
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(0)

	wrapped := &DB{DB: sqlDB, path: cfg.Path}

	if err := wrapped.declareRequirements(); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if err := wrapped.migrate(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Debugf("opened database %s", cfg.Path)
	return wrapped, nil
}

func (db *DB) declareRequirements() error {
	stmt := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS temp.%[1]s USING %[1]s", extension.RequirementsModule)
	if _, err := db.Exec(stmt); err != nil {
		return fmt.Errorf("create %s table: %w", extension.RequirementsModule, err)
	}
	log.Debugf("declared temp.%s", extension.RequirementsModule)
	return nil
}

// migrate creates the catalog tables.
func (db *DB) migrate() error {
	_, err := db.Exec(releasesSchema)
	return err
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.DB.Close()
}
