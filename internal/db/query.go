package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// RequirementRow is one comparator of a requirement as reported by the
// semver_requirements table. Omitted parts are invalid NullStrings; numbers
// stay text so values past int64 survive.
type RequirementRow struct {
	Op    string         `db:"op"`
	Major string         `db:"major"`
	Minor sql.NullString `db:"minor"`
	Patch sql.NullString `db:"patch"`
	Pre   sql.NullString `db:"pre"`
}

// Requirements decomposes requirement into its comparators.
func (db *DB) Requirements(ctx context.Context, requirement string) ([]RequirementRow, error) {
	var rows []RequirementRow
	err := db.SelectContext(ctx, &rows, `
		SELECT op,
		       CAST(major AS TEXT) AS major,
		       CAST(minor AS TEXT) AS minor,
		       CAST(patch AS TEXT) AS patch,
		       pre
		FROM semver_requirements(?)
		ORDER BY rowid`, requirement)
	if err != nil {
		return nil, fmt.Errorf("decompose requirement: %w", err)
	}
	return rows, nil
}

// Matches evaluates semver_matches(version, requirement).
func (db *DB) Matches(ctx context.Context, version, requirement string) (bool, error) {
	var ok bool
	if err := db.GetContext(ctx, &ok, `SELECT semver_matches(?, ?)`, version, requirement); err != nil {
		return false, fmt.Errorf("match version: %w", err)
	}
	return ok, nil
}

// Compare returns -1, 0 or 1 using semver_gt in both directions.
func (db *DB) Compare(ctx context.Context, a, b string) (int, error) {
	var c int
	if err := db.GetContext(ctx, &c, `SELECT semver_gt(?1, ?2) - semver_gt(?2, ?1)`, a, b); err != nil {
		return 0, fmt.Errorf("compare versions: %w", err)
	}
	return c, nil
}

// Sort orders versions with the semver collation. Unparsable entries keep
// whatever position the collation's fallback gives them.
func (db *DB) Sort(ctx context.Context, versions []string, descending bool) ([]string, error) {
	if len(versions) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(versions)
	if err != nil {
		return nil, fmt.Errorf("encode versions: %w", err)
	}
	order := "ASC"
	if descending {
		order = "DESC"
	}
	var sorted []string
	err = db.SelectContext(ctx, &sorted,
		`SELECT value FROM json_each(?) ORDER BY value COLLATE semver `+order, string(payload))
	if err != nil {
		return nil, fmt.Errorf("sort versions: %w", err)
	}
	return sorted, nil
}

// Result is the outcome of an ad hoc statement.
type Result struct {
	Columns []string
	Rows    [][]any
}

// QueryAll runs an arbitrary statement and collects every row. Blobs that hold
// version handles are left encoded.
func (db *DB) QueryAll(ctx context.Context, query string, args ...any) (*Result, error) {
	rows, err := db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	res := &Result{Columns: cols}
	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		res.Rows = append(res.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	return res, nil
}
