package cmd

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X thoreinstein.com/census/cmd.version=v1.2.3".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the census version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), formatVersion(version))
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// formatVersion normalizes a release version to vMAJOR.MINOR.PATCH[-pre].
// Development builds and unparseable versions are printed as set.
func formatVersion(v string) string {
	if v == "dev" || v == "" {
		return "census dev"
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return "census " + v
	}
	return "census v" + sv.String()
}
