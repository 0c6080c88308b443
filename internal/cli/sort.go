package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var sortReverse bool

var sortCmd = &cobra.Command{
	Use:   "sort [version]...",
	Short: "Sort versions with the semver collation",
	Long: `Sort versions by semver precedence using ORDER BY ... COLLATE semver.
With no arguments, versions are read one per line from stdin.
Values that do not parse compare below everything, so their position is
not stable.`,
	RunE: runSort,
}

func init() {
	sortCmd.Flags().BoolVarP(&sortReverse, "reverse", "r", false, "highest version first")
}

func runSort(cmd *cobra.Command, args []string) error {
	versions := args
	if len(versions) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				versions = append(versions, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return trackCLIError("sort", fmt.Errorf("read stdin: %w", err))
		}
	}

	database, err := openScratch()
	if err != nil {
		return trackCLIError("sort", err)
	}
	defer func() { _ = database.Close() }()

	sorted, err := database.Sort(cmd.Context(), versions, sortReverse)
	if err != nil {
		return trackCLIError("sort", err)
	}
	out := cmd.OutOrStdout()
	for _, v := range sorted {
		if _, err := fmt.Fprintln(out, v); err != nil {
			return err
		}
	}
	return nil
}
