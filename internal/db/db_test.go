package db

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/semverql/internal/extension"
	"github.com/asteroid-belt/semverql/internal/telemetry"
)

// testRegistry collects the counters of the extension bound for this
// package's tests. Registration is process-wide, so it happens once here.
var (
	testRegistry  = prometheus.NewRegistry()
	testExtension = extension.New(telemetry.NewMetrics(testRegistry))
)

func TestMain(m *testing.M) {
	if err := Register(testExtension); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// testDB creates a temporary test database.
func testDB(t *testing.T) *DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := New(DefaultConfig(dbPath))
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})
	return db
}

func counter(t *testing.T, name, labels string) float64 {
	t.Helper()
	samples, err := telemetry.Snapshot(testRegistry)
	require.NoError(t, err)
	for _, s := range samples {
		if s.Name == name && s.Labels == labels {
			return s.Value
		}
	}
	return 0
}

func TestNew(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "semverql.db")

	db, err := New(DefaultConfig(dbPath))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, dbPath, db.Path())
}

func TestNew_Memory(t *testing.T) {
	db, err := New(DefaultConfig(MemoryPath))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.Get(&n, `SELECT count(*) FROM releases`))
	assert.Zero(t, n)
}

func TestRegister_Rebinds(t *testing.T) {
	db := testDB(t)
	t.Cleanup(func() { require.NoError(t, Register(testExtension)) })

	reg := prometheus.NewRegistry()
	other := extension.New(telemetry.NewMetrics(reg))
	require.NoError(t, Register(other))
	assert.Same(t, other, registeredExtension())

	before := counter(t, "semverql_versions_parsed_total", "")
	var got string
	require.NoError(t, db.Get(&got, `SELECT semver_version(1, 2, 3)`))
	require.NoError(t, db.Get(&got, `SELECT 'x' WHERE semver_matches('1.2.3', '^1')`))
	assert.Equal(t, "x", got)

	samples, err := telemetry.Snapshot(reg)
	require.NoError(t, err)
	var parsed float64
	for _, s := range samples {
		if s.Name == "semverql_versions_parsed_total" {
			parsed = s.Value
		}
	}
	assert.Equal(t, float64(1), parsed, "connection opened earlier reports to the new instance")
	assert.Equal(t, before, counter(t, "semverql_versions_parsed_total", ""))
}

func TestNew_NilExtensionKeepsBinding(t *testing.T) {
	_ = testDB(t)
	assert.Same(t, testExtension, registeredExtension())
}

func TestScalarFunctions(t *testing.T) {
	db := testDB(t)

	tests := []struct {
		name  string
		query string
		want  any
	}{
		{"construct three", `SELECT semver_version(1, 2, 3)`, "1.2.3"},
		{"construct five", `SELECT semver_version(1, 2, 3, 'rc.1', 'build.5')`, "1.2.3-rc.1+build.5"},
		{"construct null pre", `SELECT semver_version(1, 2, 3, NULL, 'b')`, "1.2.3+b"},
		{"matches text", `SELECT semver_matches('1.4.0', '>=1.2, <2.0')`, int64(1)},
		{"matches excludes prerelease", `SELECT semver_matches('1.4.0-rc.1', '>=1.2, <2.0')`, int64(0)},
		{"matches pointer", `SELECT semver_matches(semver_version_pointer(1, 2, 3), '^1')`, int64(1)},
		{"matches pointer prerelease", `SELECT semver_matches(semver_version_pointer(1, 2, 3, 'alpha'), '>=1.2.3-alpha')`, int64(1)},
		{"gt text", `SELECT semver_gt('1.10.0', '1.9.0')`, int64(1)},
		{"gt ignores build", `SELECT semver_gt('1.0.0+b', '1.0.0+a')`, int64(0)},
		{"gt pointers", `SELECT semver_gt(semver_version_pointer(2, 0, 0), semver_version_pointer(2, 0, 0, 'rc'))`, int64(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got any
			require.NoError(t, db.QueryRow(tt.query).Scan(&got))
			if s, ok := got.([]byte); ok {
				got = string(s)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScalarFunctions_Errors(t *testing.T) {
	db := testDB(t)

	tests := []struct {
		name    string
		query   string
		wantErr string
	}{
		{"wrong arity", `SELECT semver_version(1, 2)`, "wrong number of arguments to function semver_version()"},
		{"negative field", `SELECT semver_version(-1, 0, 0)`, "out of range"},
		{"field beyond uint64", `SELECT semver_version(99999999999999999999, 0, 0)`, "out of range"},
		{"bad prerelease", `SELECT semver_version(1, 0, 0, '01')`, "invalid leading zero"},
		{"bad version", `SELECT semver_matches('1.0', '*')`, "unexpected end of input"},
		{"bad requirement", `SELECT semver_matches('1.0.0', '>=')`, "major version number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got any
			err := db.QueryRow(tt.query).Scan(&got)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSemverVersionPointer_IsBlob(t *testing.T) {
	db := testDB(t)

	var kind string
	require.NoError(t, db.Get(&kind, `SELECT typeof(semver_version_pointer(1, 2, 3))`))
	assert.Equal(t, "blob", kind)
}

func TestScalarFunctions_CacheReleasesOncePerCall(t *testing.T) {
	db := testDB(t)

	before := counter(t, "semverql_handles_released_total", "")
	parsedBefore := counter(t, "semverql_versions_parsed_total", "")

	var ok bool
	require.NoError(t, db.Get(&ok, `SELECT semver_matches('1.2.3', '^1')`))
	assert.True(t, ok)

	assert.Equal(t, before+1, counter(t, "semverql_handles_released_total", ""))
	assert.Equal(t, parsedBefore+1, counter(t, "semverql_versions_parsed_total", ""))
}

func TestCollation(t *testing.T) {
	db := testDB(t)

	_, err := db.Exec(`CREATE TABLE v (s TEXT)`)
	require.NoError(t, err)
	for _, s := range []string{"1.10.0", "v1.2.0", "1.2.0-rc.1", "1.9.0", "0.9.9"} {
		_, err := db.Exec(`INSERT INTO v (s) VALUES (?)`, s)
		require.NoError(t, err)
	}

	var got []string
	require.NoError(t, db.Select(&got, `SELECT s FROM v ORDER BY s COLLATE semver`))
	assert.Equal(t, []string{"0.9.9", "1.2.0-rc.1", "v1.2.0", "1.9.0", "1.10.0"}, got)
}

func TestCollation_FallbackIsCounted(t *testing.T) {
	db := testDB(t)

	before := counter(t, "semverql_collation_fallbacks_total", "")
	var lt bool
	require.NoError(t, db.Get(&lt, `SELECT 'not-a-version' < '1.0.0' COLLATE semver`))
	assert.True(t, lt)
	require.NoError(t, db.Get(&lt, `SELECT '1.0.0' < 'not-a-version' COLLATE semver`))
	assert.True(t, lt)
	assert.Greater(t, counter(t, "semverql_collation_fallbacks_total", ""), before)
}
