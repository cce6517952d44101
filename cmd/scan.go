package cmd

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"thoreinstein.com/census/pkg/config"
	"thoreinstein.com/census/pkg/discovery"
	"thoreinstein.com/census/pkg/git"
	"thoreinstein.com/census/pkg/logging"
	"thoreinstein.com/census/pkg/project"
	"thoreinstein.com/census/pkg/report"
)

var (
	scanDepth         int
	scanFormat        string
	scanExclude       []string
	scanStrictMarkers bool
)

func registerScanFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&scanDepth, "depth", "d", config.Default().Scan.MaxDepth, "maximum directory depth to scan")
	cmd.Flags().StringVarP(&scanFormat, "format", "f", report.FormatText, "output format: text, yaml or json")
	cmd.Flags().StringSliceVar(&scanExclude, "exclude", nil, "additional directory names to skip")
	cmd.Flags().BoolVar(&scanStrictMarkers, "strict-markers", false, "treat marker check failures as faults")
}

// scanOptions is the effective scan configuration after flags are applied.
type scanOptions struct {
	Root          string
	MaxDepth      int
	Format        string
	Exclusions    map[string]bool
	StrictMarkers bool
	ExtraRules    []project.MarkerRule
}

// resolveScanOptions merges configuration with the flags the user set explicitly.
func resolveScanOptions(cmd *cobra.Command, cfg *config.Config, args []string) (*scanOptions, error) {
	opts := &scanOptions{
		Root:          cfg.Scan.Root,
		MaxDepth:      cfg.Scan.MaxDepth,
		Format:        cfg.Scan.Format,
		Exclusions:    cfg.Scan.ExclusionSet(),
		StrictMarkers: cfg.Scan.StrictMarkers,
	}
	if len(args) > 0 {
		opts.Root = args[0]
	}

	flags := cmd.Flags()
	if flags.Changed("depth") {
		if scanDepth < 0 {
			return nil, errors.Newf("invalid depth %d: must not be negative", scanDepth)
		}
		opts.MaxDepth = scanDepth
	}
	if flags.Changed("format") {
		if err := report.ValidateFormat(scanFormat); err != nil {
			return nil, err
		}
		opts.Format = scanFormat
	}
	for _, name := range scanExclude {
		opts.Exclusions[name] = true
	}
	if flags.Changed("strict-markers") {
		opts.StrictMarkers = scanStrictMarkers
	}

	rules, err := cfg.Scan.Rules()
	if err != nil {
		return nil, err
	}
	opts.ExtraRules = rules
	return opts, nil
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cfg == nil {
		cfg = config.Default()
	}

	opts, err := resolveScanOptions(cmd, cfg, args)
	if err != nil {
		return err
	}
	return runScan(cmd, opts, logging.Component(logger, "cli"), cmd.OutOrStdout())
}

// runScan performs the scan described by opts and writes the report to out.
func runScan(cmd *cobra.Command, opts *scanOptions, log *logrus.Entry, out io.Writer) error {
	detector, err := project.NewDetector(opts.ExtraRules...)
	if err != nil {
		return errors.Wrap(err, "failed to build marker table")
	}

	scanner := discovery.NewScanner(opts.MaxDepth, detector, git.NewInspector(log), log)
	scanner.Exclusions = opts.Exclusions
	scanner.StrictMarkers = opts.StrictMarkers

	log.WithField("root", opts.Root).
		WithField("depth", opts.MaxDepth).
		WithField("format", opts.Format).
		Debug("starting scan")

	if opts.Format == report.FormatText {
		text := report.NewText(out)
		result, err := scanner.Scan(cmd.Context(), opts.Root, text)
		if err != nil {
			return err
		}
		if err := text.Err(); err != nil {
			return errors.Wrap(err, "failed to write report")
		}
		// The summary is status, not report, so it stays off stdout.
		summary := report.NewText(cmd.ErrOrStderr())
		summary.Summary(result)
		return errors.Wrap(summary.Err(), "failed to write summary")
	}

	collector := report.NewCollector(opts.Root)
	result, err := scanner.Scan(cmd.Context(), opts.Root, collector)
	if err != nil {
		return err
	}
	collector.Summary(result)
	return report.Write(out, opts.Format, collector.Document())
}
