package cli

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
)

var reqsCmd = &cobra.Command{
	Use:   "reqs <requirement>",
	Short: "Split a requirement into comparators",
	Long: `Show the rows semver_requirements produces for a requirement:
one row per comparator with its operator and version parts.`,
	Example: `  semverql reqs '>=1.2, <2.0'`,
	Args:    cobra.ExactArgs(1),
	RunE:    runReqs,
}

func runReqs(cmd *cobra.Command, args []string) error {
	database, err := openScratch()
	if err != nil {
		return trackCLIError("reqs", err)
	}
	defer func() { _ = database.Close() }()

	rows, err := database.Requirements(cmd.Context(), args[0])
	if err != nil {
		return trackCLIError("reqs", err)
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%q matches any release.\n", args[0])
		return err
	}

	table := newTable(cmd.OutOrStdout(), "Op", "Major", "Minor", "Patch", "Pre")
	for _, r := range rows {
		if err := table.Append(r.Op, r.Major, nullText(r.Minor), nullText(r.Patch), nullText(r.Pre)); err != nil {
			return trackCLIError("reqs", fmt.Errorf("render row: %w", err))
		}
	}
	return table.Render()
}

func nullText(s sql.NullString) string {
	if !s.Valid {
		return "NULL"
	}
	return s.String
}
