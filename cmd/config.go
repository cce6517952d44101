package cmd

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"thoreinstein.com/census/pkg/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect census configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration census would scan with, after merging defaults,
the user config file, a workspace .census.toml and CENSUS_* environment
variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cfg == nil {
			cfg = config.Default()
		}
		return runConfigShow(cmd.OutOrStdout(), cfg)
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(out io.Writer, cfg *config.Config) error {
	enc := toml.NewEncoder(out)
	enc.SetIndentTables(true)
	return errors.Wrap(enc.Encode(cfg), "failed to encode configuration")
}
