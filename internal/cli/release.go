package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/semverql/internal/db"
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Manage the release catalog",
	Long: `The release catalog is a SQLite table of package versions stored with
the semver collation. Resolve picks the highest release that satisfies a
requirement.`,
}

var releaseAddCmd = &cobra.Command{
	Use:   "add <package> <version>...",
	Short: "Record releases of a package",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runReleaseAdd,
}

var releaseListCmd = &cobra.Command{
	Use:   "list [package]",
	Short: "List releases in version order",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReleaseList,
}

var releaseResolveCmd = &cobra.Command{
	Use:     "resolve <package> <requirement>",
	Short:   "Print the highest release matching a requirement",
	Example: `  semverql release resolve tokio '^1.2'`,
	Args:    cobra.ExactArgs(2),
	RunE:    runReleaseResolve,
}

var releaseRemoveCmd = &cobra.Command{
	Use:   "remove <package> <version>",
	Short: "Remove a release",
	Args:  cobra.ExactArgs(2),
	RunE:  runReleaseRemove,
}

func init() {
	releaseCmd.AddCommand(releaseAddCmd)
	releaseCmd.AddCommand(releaseListCmd)
	releaseCmd.AddCommand(releaseResolveCmd)
	releaseCmd.AddCommand(releaseRemoveCmd)
}

func runReleaseAdd(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(databasePath())
	if err != nil {
		return trackCLIError("add", err)
	}
	defer func() { _ = database.Close() }()

	pkg := args[0]
	out := cmd.OutOrStdout()
	for _, v := range args[1:] {
		rel, err := database.AddRelease(pkg, v)
		if errors.Is(err, db.ErrReleaseExists) {
			_, _ = fmt.Fprintf(out, "%s %s already recorded\n", pkg, v)
			continue
		}
		if err != nil {
			return trackCLIError("add", err)
		}
		_, _ = fmt.Fprintf(out, "Added %s %s\n", rel.Package, rel.Version)
	}
	return nil
}

func runReleaseList(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(databasePath())
	if err != nil {
		return trackCLIError("list", err)
	}
	defer func() { _ = database.Close() }()

	pkg := ""
	if len(args) == 1 {
		pkg = args[0]
	}
	releases, err := database.ListReleases(pkg)
	if err != nil {
		return trackCLIError("list", err)
	}
	if len(releases) == 0 {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "No releases recorded.")
		return err
	}

	table := newTable(cmd.OutOrStdout(), "Package", "Version", "Added")
	for _, r := range releases {
		if err := table.Append(r.Package, r.Version, r.Added().UTC().Format(time.DateTime)); err != nil {
			return trackCLIError("list", fmt.Errorf("render row: %w", err))
		}
	}
	return table.Render()
}

func runReleaseResolve(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(databasePath())
	if err != nil {
		return trackCLIError("resolve", err)
	}
	defer func() { _ = database.Close() }()

	rel, err := database.Resolve(args[0], args[1])
	if err != nil {
		return trackCLIError("resolve", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rel.Version)
	return err
}

func runReleaseRemove(cmd *cobra.Command, args []string) error {
	database, err := openDatabase(databasePath())
	if err != nil {
		return trackCLIError("remove", err)
	}
	defer func() { _ = database.Close() }()

	if err := database.DeleteRelease(args[0], args[1]); err != nil {
		return trackCLIError("remove", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Removed %s %s\n", args[0], args[1])
	return err
}
