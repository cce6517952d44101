package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"thoreinstein.com/census/pkg/bootstrap"
	"thoreinstein.com/census/pkg/config"
	censuserrors "thoreinstein.com/census/pkg/errors"
	"thoreinstein.com/census/pkg/logging"
)

var cfgFile string
var verbose bool
var appConfig *config.Config
var logger = logging.Discard()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "census [path]",
	Short: "Census - find projects and report on their git repositories",
	Long: `Census walks a directory tree, identifies software projects by their marker
files and, for every project that is a git repository, reports the origin
remote, commits not yet pushed to the upstream branch and working tree changes.

Descent stops at a project root and at the maximum depth.

Examples:
  census ~/src
  census --depth 5 --exclude target .
  census --format json ~/src > projects.json`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	RunE:              runScanCommand,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, censuserrors.FormatUserError(err))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "C", "", "config file (default is $HOME/.config/census/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	registerScanFlags(rootCmd)
}

// initConfig reads in config file and ENV variables and builds the logger.
func initConfig(cmd *cobra.Command, _ []string) error {
	bootLogger := logging.New(config.LogConfig{Level: "warn"}, cmd.ErrOrStderr(), verbose)

	cfg, err := bootstrap.NewLoader(bootLogger).InitConfig(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	logger = logging.New(cfg.Log, cmd.ErrOrStderr(), verbose)
	logger.WithField("level", logger.GetLevel().String()).Debug("configuration loaded")
	return nil
}
