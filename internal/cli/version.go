package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/semverql/pkg/version"
)

var versionShortFlag bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build version details",
	Long: `Show the build version, its channel (release, pre-release or
development), commit, build date and Go runtime. semver_version() and
semver_debug() report the same build from SQL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionShortFlag {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Short())
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		return err
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShortFlag, "short", false, "print only the version number")
}
