// Package cli provides the command-line interface for semverql.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"
	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/semverql/internal/config"
	"github.com/asteroid-belt/semverql/internal/db"
	"github.com/asteroid-belt/semverql/internal/extension"
	"github.com/asteroid-belt/semverql/internal/log"
	"github.com/asteroid-belt/semverql/internal/telemetry"
	"github.com/asteroid-belt/semverql/pkg/version"
)

var (
	appConfig *config.Config
	registry  *prometheus.Registry
	recorder  telemetry.Recorder
	ext       *extension.Extension
)

var (
	databaseFlag string
	statsFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "semverql",
	Short: "Semantic versions in SQLite",
	Long: `Semantic versions in SQLite

semverql installs semver functions, a "semver" collation and the
semver_requirements table into an embedded SQLite database, and offers
commands that exercise them.

SQL surface:
  semver_version(major, minor, patch [, pre [, build]])
  semver_version_pointer(major, minor, patch [, pre [, build]])
  semver_matches(version, requirement)
  semver_gt(a, b)
  semver_version(), semver_debug()
  ORDER BY v COLLATE semver
  SELECT * FROM semver_requirements('>=1.2, <2.0')

Environment:
  SEMVERQL_HOME     data directory
  SEMVERQL_DB       catalog database path, or :memory:
  SEMVERQL_DEBUG    write debug lines to the log file
  SEMVERQL_METRICS  set to false to disable counters`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		recorder.CommandExecuted(cmd.Name(), false)
		if statsFlag {
			return printStats(cmd.ErrOrStderr())
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseFlag, "db", "", "catalog database path (overrides SEMVERQL_DB)")
	rootCmd.PersistentFlags().BoolVar(&statsFlag, "stats", false, "print extension counters to stderr when done")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(reqsCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(versionCmd)
}

// configure wires the configuration and a fresh metrics registry into the
// commands.
func configure(cfg *config.Config) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	appConfig = cfg
	registry = prometheus.NewRegistry()
	recorder = telemetry.New(registry)
	ext = extension.New(recorder)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, cfg *config.Config) error {
	configure(cfg)

	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)
}

// trackCLIError records a failed command in the counters and the log file.
// fang renders the error itself. Call this before returning errors from CLI
// commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	recorder.CommandExecuted(cmdName, true)
	log.Debugf("command %s failed: %v", cmdName, err)
	return err
}

// databasePath resolves --db, then the configuration.
func databasePath() string {
	if databaseFlag != "" {
		return databaseFlag
	}
	return config.GetPaths(appConfig).Database
}

// openDatabase opens path with the CLI's instrumented extension.
func openDatabase(path string) (*db.DB, error) {
	cfg := db.DefaultConfig(path)
	cfg.Debug = appConfig.Debug
	cfg.Extension = ext
	database, err := db.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return database, nil
}

// openScratch opens an in-memory database for commands that only evaluate.
func openScratch() (*db.DB, error) {
	return openDatabase(db.MemoryPath)
}

func newTable(w io.Writer, header ...any) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.Header(header...)
	return table
}

func printStats(w io.Writer) error {
	samples, err := telemetry.Snapshot(registry)
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	if len(samples) == 0 {
		_, err := fmt.Fprintln(w, "No counters recorded.")
		return err
	}
	table := newTable(w, "Counter", "Labels", "Value")
	for _, s := range samples {
		if err := table.Append(s.Name, s.Labels, s.Value); err != nil {
			return err
		}
	}
	return table.Render()
}
