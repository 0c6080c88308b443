package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/semverql/internal/semver"
)

var parseCmd = &cobra.Command{
	Use:   "parse <version>...",
	Short: "Parse versions and show their parts",
	Long: `Parse one or more semantic versions and print major, minor, patch,
pre-release and build metadata. A single leading "v" is accepted.`,
	Example: `  semverql parse 1.2.3-rc.1+build.5
  semverql parse v2.0.0 0.1.0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	table := newTable(cmd.OutOrStdout(), "Version", "Major", "Minor", "Patch", "Pre-release", "Build")
	for _, arg := range args {
		v, err := semver.Parse(strings.TrimPrefix(arg, "v"))
		if err != nil {
			return trackCLIError("parse", err)
		}
		recorder.VersionParsed()
		if err := table.Append(v.String(), v.Major, v.Minor, v.Patch, v.PrereleaseString(), v.BuildString()); err != nil {
			return trackCLIError("parse", fmt.Errorf("render row: %w", err))
		}
	}
	return table.Render()
}
