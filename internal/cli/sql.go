package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/semverql/internal/db"
	"github.com/asteroid-belt/semverql/internal/extension"
	"github.com/asteroid-belt/semverql/internal/host"
	"github.com/asteroid-belt/semverql/internal/semver"
)

var sqlMemory bool

var sqlCmd = &cobra.Command{
	Use:   "sql <statement>",
	Short: "Run a SQL statement with the semver extension loaded",
	Long: `Run one SQL statement against the catalog database (or a scratch
in-memory database with --memory) and print the result as a table.

Version handles from semver_version_pointer are shown as <semver_version0 V>.`,
	Example: `  semverql sql "SELECT semver_matches(semver_version_pointer(1, 2, 3), '^1')"
  semverql sql "SELECT * FROM semver_requirements('~1.2.3, <1.3')"
  semverql sql "SELECT version FROM releases ORDER BY version COLLATE semver"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlMemory, "memory", false, "use a scratch in-memory database")
}

func runSQL(cmd *cobra.Command, args []string) error {
	path := databasePath()
	if sqlMemory {
		path = db.MemoryPath
	}
	database, err := openDatabase(path)
	if err != nil {
		return trackCLIError("sql", err)
	}
	defer func() { _ = database.Close() }()

	res, err := database.QueryAll(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return trackCLIError("sql", err)
	}
	if len(res.Columns) == 0 {
		return nil
	}

	header := make([]any, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c
	}
	table := newTable(cmd.OutOrStdout(), header...)
	for _, row := range res.Rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		if err := table.Append(cells...); err != nil {
			return trackCLIError("sql", fmt.Errorf("render row: %w", err))
		}
	}
	return table.Render()
}

// formatCell renders one SQL value for display.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		if tag, ok := host.PointerTag(x); ok && tag == extension.PointerTag {
			var version semver.Version
			if err := host.DecodePointer(x, tag, &version); err == nil {
				return fmt.Sprintf("<%s %s>", tag, version)
			}
		}
		return fmt.Sprintf("x'%X'", x)
	}
	return fmt.Sprint(v)
}
