package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"thoreinstein.com/census/pkg/config"
	"thoreinstein.com/census/pkg/project"
)

// typesCmd represents the types command
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the marker files used to classify projects",
	Long: `List the marker table in evaluation order.

The first marker present in a directory decides its project type, so a
directory with both build.zig and Cargo.toml is a zig project. Extra markers
from scan.extra_markers are listed after the built-in ones.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cfg == nil {
			cfg = config.Default()
		}
		return runTypesCommand(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}

func runTypesCommand(out io.Writer, cfg *config.Config) error {
	extra, err := cfg.Scan.Rules()
	if err != nil {
		return err
	}
	detector, err := project.NewDetector(extra...)
	if err != nil {
		return errors.Wrap(err, "failed to build marker table")
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, rule := range detector.Rules() {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, rule.Marker, rule.Type)
	}
	return errors.Wrap(w.Flush(), "failed to write marker table")
}
