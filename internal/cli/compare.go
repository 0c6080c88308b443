package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Compare two versions by precedence",
	Long: `Compare two versions with semver_gt and print the relation.
Build metadata is ignored, so 1.0.0+a and 1.0.0+b are equal.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	database, err := openScratch()
	if err != nil {
		return trackCLIError("compare", err)
	}
	defer func() { _ = database.Close() }()

	c, err := database.Compare(cmd.Context(), args[0], args[1])
	if err != nil {
		return trackCLIError("compare", err)
	}

	relation := "="
	switch {
	case c < 0:
		relation = "<"
	case c > 0:
		relation = ">"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", args[0], relation, args[1])
	return err
}
