package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/semverql/internal/config"
	"github.com/asteroid-belt/semverql/internal/telemetry"
	"github.com/asteroid-belt/semverql/pkg/version"
)

// setupCLI points the commands at a temporary catalog.
func setupCLI(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	configure(&config.Config{
		BaseDir:  dir,
		LogDir:   dir,
		Database: filepath.Join(dir, "catalog.db"),
	})
}

// runCLI executes args against the root command and returns its output.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	databaseFlag, statsFlag = "", false
	matchAll, sortReverse, sqlMemory, versionShortFlag = false, false, false, false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func commandCount(t *testing.T, command, outcome string) float64 {
	t.Helper()
	samples, err := telemetry.Snapshot(registry)
	require.NoError(t, err)
	for _, s := range samples {
		if s.Name == "semverql_cli_commands_total" && s.Labels == "command="+command+",outcome="+outcome {
			return s.Value
		}
	}
	return 0
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "semverql", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"parse", "compare", "match", "reqs", "sort", "sql", "release", "version"} {
		assert.Contains(t, names, want)
	}

	var sub []string
	for _, cmd := range releaseCmd.Commands() {
		sub = append(sub, cmd.Name())
	}
	assert.ElementsMatch(t, []string{"add", "list", "resolve", "remove"}, sub)
}

func TestParseCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "parse", "v1.2.3-rc.1+build.5", "0.1.0")
	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3-rc.1+build.5")
	assert.Contains(t, out, "rc.1")
	assert.Contains(t, out, "build.5")
	assert.Contains(t, out, "0.1.0")
	assert.Equal(t, float64(1), commandCount(t, "parse", "ok"))
}

func TestParseCommand_Invalid(t *testing.T) {
	setupCLI(t)

	_, err := runCLI(t, "", "parse", "1.2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected end of input")
	assert.Equal(t, float64(1), commandCount(t, "parse", "error"))
}

func TestCompareCommand(t *testing.T) {
	setupCLI(t)

	tests := []struct {
		a, b string
		want string
	}{
		{"1.0.0", "1.0.1", "1.0.0 < 1.0.1"},
		{"2.0.0", "2.0.0-rc.1", "2.0.0 > 2.0.0-rc.1"},
		{"1.0.0+a", "1.0.0+b", "1.0.0+a = 1.0.0+b"},
	}
	for _, tt := range tests {
		out, err := runCLI(t, "", "compare", tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want+"\n", out)
	}
}

func TestCompareCommand_CountsInFreshRegistry(t *testing.T) {
	for range 2 {
		setupCLI(t)
		_, err := runCLI(t, "", "compare", "1.0.0", "2.0.0")
		require.NoError(t, err)

		samples, err := telemetry.Snapshot(registry)
		require.NoError(t, err)
		var parsed float64
		for _, s := range samples {
			if s.Name == "semverql_versions_parsed_total" {
				parsed = s.Value
			}
		}
		// semver_gt runs twice with two operands each.
		assert.Equal(t, float64(4), parsed)
	}
}

func TestMatchCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "match", ">=1.2, <2.0", "1.4.0", "2.0.0")
	require.NoError(t, err)
	assert.Contains(t, out, "1.4.0")
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "false")

	_, err = runCLI(t, "", "match", "--all", ">=1.2, <2.0", "1.4.0", "2.0.0")
	assert.Error(t, err)

	_, err = runCLI(t, "", "match", "^3", "1.4.0")
	assert.ErrorIs(t, err, errNoMatch)
}

func TestReqsCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "reqs", ">=1.2, <2.0")
	require.NoError(t, err)
	assert.Contains(t, out, "greater_eq")
	assert.Contains(t, out, "less")
	assert.Contains(t, out, "NULL")

	out, err = runCLI(t, "", "reqs", "*")
	require.NoError(t, err)
	assert.Contains(t, out, "matches any release")
}

func TestSortCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "sort", "1.0.0", "1.0.0-beta", "0.9.0", "1.0.0-alpha")
	require.NoError(t, err)
	assert.Equal(t, "0.9.0\n1.0.0-alpha\n1.0.0-beta\n1.0.0\n", out)

	out, err = runCLI(t, "1.10.0\n\n1.9.0\n1.2.0\n", "sort", "-r")
	require.NoError(t, err)
	assert.Equal(t, "1.10.0\n1.9.0\n1.2.0\n", out)
}

func TestSQLCommand(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "sql", "--memory",
		"SELECT semver_matches(semver_version_pointer(1, 2, 3), '^1') AS ok, semver_version_pointer(1, 2, 3, 'rc') AS handle")
	require.NoError(t, err)
	assert.Contains(t, out, "<semver_version0 1.2.3-rc>")

	out, err = runCLI(t, "", "sql", "--memory", "SELECT x'00ff' AS b, NULL AS n")
	require.NoError(t, err)
	assert.Contains(t, out, "x'00FF'")
	assert.Contains(t, out, "NULL")

	_, err = runCLI(t, "", "sql", "--memory", "SELECT * FROM semver_requirements")
	assert.Error(t, err)
}

func TestReleaseCommands(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "release", "add", "tokio", "1.2.0", "v1.10.0", "1.9.0", "2.0.0-rc.1")
	require.NoError(t, err)
	assert.Contains(t, out, "Added tokio 1.10.0")

	out, err = runCLI(t, "", "release", "add", "tokio", "1.2.0")
	require.NoError(t, err)
	assert.Contains(t, out, "already recorded")

	out, err = runCLI(t, "", "release", "resolve", "tokio", "^1")
	require.NoError(t, err)
	assert.Equal(t, "1.10.0\n", out)

	out, err = runCLI(t, "", "release", "list", "tokio")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "1.2.0"), strings.Index(out, "1.9.0"))
	assert.Less(t, strings.Index(out, "1.9.0"), strings.Index(out, "1.10.0"))
	assert.Less(t, strings.Index(out, "1.10.0"), strings.Index(out, "2.0.0-rc.1"))

	_, err = runCLI(t, "", "release", "remove", "tokio", "1.10.0")
	require.NoError(t, err)
	out, err = runCLI(t, "", "release", "resolve", "tokio", "^1")
	require.NoError(t, err)
	assert.Equal(t, "1.9.0\n", out)

	_, err = runCLI(t, "", "release", "resolve", "tokio", "^5")
	assert.Error(t, err)
}

func TestReleaseList_Empty(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "release", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No releases recorded.")
}

func TestStatsFlag(t *testing.T) {
	setupCLI(t)

	out, err := runCLI(t, "", "--stats", "parse", "1.0.0")
	require.NoError(t, err)
	assert.Contains(t, out, "semverql_versions_parsed_total")
	assert.Contains(t, out, "semverql_cli_commands_total")
}

func TestVersionCommand(t *testing.T) {
	setupCLI(t)
	orig := version.Version
	t.Cleanup(func() { version.Version = orig })

	version.Version = "v1.3.0-rc.1"
	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version: v1.3.0-rc.1")
	assert.Contains(t, out, "Channel: pre-release")

	version.Version = "dev"
	out, err = runCLI(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
	assert.Equal(t, float64(2), commandCount(t, "version", "ok"))
}

func TestFormatCell(t *testing.T) {
	assert.Equal(t, "NULL", formatCell(nil))
	assert.Equal(t, "42", formatCell(int64(42)))
	assert.Equal(t, "1.5", formatCell(1.5))
	assert.Equal(t, "x'0102'", formatCell([]byte{1, 2}))
}
