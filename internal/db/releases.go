package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/asteroid-belt/semverql/internal/semver"
)

var (
	// ErrReleaseExists is returned when a package already has the release.
	ErrReleaseExists = errors.New("release already exists")
	// ErrNoMatch is returned when no release satisfies a requirement.
	ErrNoMatch = errors.New("no release matches requirement")
)

const releasesSchema = `
CREATE TABLE IF NOT EXISTS releases (
	id       TEXT PRIMARY KEY,
	package  TEXT NOT NULL,
	version  TEXT NOT NULL COLLATE semver,
	added_at INTEGER NOT NULL,
	UNIQUE (package, version)
);
CREATE INDEX IF NOT EXISTS idx_releases_package ON releases(package);
`

// Release is one published version of a package.
type Release struct {
	ID      string `db:"id"`
	Package string `db:"package"`
	Version string `db:"version"`
	AddedAt int64  `db:"added_at"`
}

// Added returns when the release was recorded.
func (r Release) Added() time.Time {
	return time.Unix(r.AddedAt, 0)
}

// AddRelease records version for pkg. A leading "v" is dropped and the rest
// must be a strict semantic version. Versions differing only in build
// metadata are the same release.
func (db *DB) AddRelease(pkg, version string) (*Release, error) {
	pkg = strings.TrimSpace(pkg)
	if pkg == "" {
		return nil, errors.New("package name is required")
	}
	v, err := semver.Parse(strings.TrimPrefix(strings.TrimSpace(version), "v"))
	if err != nil {
		return nil, fmt.Errorf("parse version: %w", err)
	}

	rel := &Release{
		ID:      uuid.NewString(),
		Package: pkg,
		Version: v.String(),
		AddedAt: time.Now().Unix(),
	}
	res, err := db.NamedExec(`
		INSERT INTO releases (id, package, version, added_at)
		VALUES (:id, :package, :version, :added_at)
		ON CONFLICT (package, version) DO NOTHING`, rel)
	if err != nil {
		return nil, fmt.Errorf("insert release: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("insert release: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrReleaseExists, pkg, rel.Version)
	}
	return rel, nil
}

// ListReleases returns releases in ascending version order. An empty pkg
// lists every package.
func (db *DB) ListReleases(pkg string) ([]Release, error) {
	var releases []Release
	var err error
	if pkg == "" {
		err = db.Select(&releases, `
			SELECT id, package, version, added_at FROM releases
			ORDER BY package, version COLLATE semver`)
	} else {
		err = db.Select(&releases, `
			SELECT id, package, version, added_at FROM releases
			WHERE package = ?
			ORDER BY version COLLATE semver`, pkg)
	}
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	return releases, nil
}

// Resolve returns the highest release of pkg that satisfies requirement.
func (db *DB) Resolve(pkg, requirement string) (*Release, error) {
	if _, err := semver.ParseRequirement(requirement); err != nil {
		return nil, fmt.Errorf("parse requirement: %w", err)
	}

	var rel Release
	err := db.Get(&rel, `
		SELECT id, package, version, added_at FROM releases
		WHERE package = ? AND semver_matches(version, ?)
		ORDER BY version COLLATE semver DESC
		LIMIT 1`, pkg, requirement)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s %s", ErrNoMatch, pkg, requirement)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve release: %w", err)
	}
	return &rel, nil
}

// DeleteRelease removes one release. Missing releases are not an error.
func (db *DB) DeleteRelease(pkg, version string) error {
	_, err := db.Exec(`DELETE FROM releases WHERE package = ? AND version = ?`,
		pkg, strings.TrimPrefix(version, "v"))
	if err != nil {
		return fmt.Errorf("delete release: %w", err)
	}
	return nil
}
