package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNoMatch = errors.New("no version matched")

var matchAll bool

var matchCmd = &cobra.Command{
	Use:   "match <requirement> <version>...",
	Short: "Check versions against a requirement",
	Long: `Evaluate semver_matches for every version against the requirement.

Requirements use cargo syntax: =, >, >=, <, <=, ~, ^, wildcards (1.*, 1.2.x)
and comma or space separated conjunctions. A bare version means ^.
Pre-release versions only match comparators that name the same
major.minor.patch with a pre-release.`,
	Example: `  semverql match '>=1.2, <2.0' 1.4.0 2.0.0 1.5.0-rc.1`,
	Args:    cobra.MinimumNArgs(2),
	RunE:    runMatch,
}

func init() {
	matchCmd.Flags().BoolVar(&matchAll, "all", false, "fail unless every version matches")
}

func runMatch(cmd *cobra.Command, args []string) error {
	database, err := openScratch()
	if err != nil {
		return trackCLIError("match", err)
	}
	defer func() { _ = database.Close() }()

	requirement := args[0]
	table := newTable(cmd.OutOrStdout(), "Version", "Matches")
	matched := 0
	for _, v := range args[1:] {
		ok, err := database.Matches(cmd.Context(), v, requirement)
		if err != nil {
			return trackCLIError("match", err)
		}
		if ok {
			matched++
		}
		if err := table.Append(v, ok); err != nil {
			return trackCLIError("match", fmt.Errorf("render row: %w", err))
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	switch {
	case matched == 0:
		return trackCLIError("match", fmt.Errorf("%w %q", errNoMatch, requirement))
	case matchAll && matched < len(args)-1:
		return trackCLIError("match", fmt.Errorf("%d of %d versions do not match %q", len(args)-1-matched, len(args)-1, requirement))
	}
	return nil
}
