package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/mp2vue/pkg/batch"
	"github.com/Sumatoshi-tech/mp2vue/pkg/config"
	"github.com/Sumatoshi-tech/mp2vue/pkg/observability"
	"github.com/Sumatoshi-tech/mp2vue/pkg/version"
)

// convertFlags override config values when set.
type convertFlags struct {
	root        string
	out         string
	format      string
	platform    string
	metricsFile string
	workers     int
	strict      bool
	batchMode   bool
	quiet       bool
}

func convertCmd(root *rootOptions) *cobra.Command {
	flags := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert [path...]",
		Short: "Convert the scripts of a mini-app project",
		Long: `Convert every App, Page, Component and Behavior script under the given
paths (default: the whole project root) and print a report.

Examples:
  mp2vue convert --root ./miniapp --out ./vue-app
  mp2vue convert --root ./miniapp pages/index --format json
  mp2vue convert --metrics-file /var/lib/node_exporter/mp2vue.prom --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			flags.quiet = root.quiet

			if err := flags.apply(cmd, cfg); err != nil {
				return err
			}

			return runConvert(cmd, cfg, flags, args)
		},
	}

	cmd.Flags().StringVar(&flags.root, "root", ".", "project root")
	cmd.Flags().StringVarP(&flags.out, "out", "o", "", "output directory (default: report only)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "", "report format (text, json, yaml, toml)")
	cmd.Flags().StringVar(&flags.platform, "platform", "", "platform API keyword (wx, qq, tt, swan, my)")
	cmd.Flags().StringVar(&flags.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	cmd.Flags().IntVarP(&flags.workers, "workers", "j", 0, "modules converted in parallel (default: config or GOMAXPROCS)")
	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit with code 2 when a module needs a manual fix")
	cmd.Flags().BoolVar(&flags.batchMode, "batch", false, "tag telemetry as an unattended batch run")

	return cmd
}

func (flags *convertFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("out") {
		cfg.Output.Dir = flags.out
	}

	if cmd.Flags().Changed("format") {
		cfg.Output.Format = flags.format
	}

	if cmd.Flags().Changed("platform") {
		cfg.Convert.Platform = flags.platform
	}

	if cmd.Flags().Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = flags.metricsFile
	}

	if cmd.Flags().Changed("workers") {
		cfg.Convert.Workers = flags.workers
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return nil
}

func runConvert(cmd *cobra.Command, cfg *config.Config, flags *convertFlags, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	projectRoot, err := filepath.Abs(flags.root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	mode := observability.ModeCLI
	if flags.batchMode {
		mode = observability.ModeBatch
	}

	sess, err := newSession(cfg, cmd.ErrOrStderr(), mode, projectRoot)
	if err != nil {
		return err
	}

	defer func() {
		err = errors.Join(err, sess.close(context.WithoutCancel(ctx)))
	}()

	disc := &discovery{
		logger:       sess.providers.Logger,
		root:         projectRoot,
		skipVendored: cfg.Output.SkipVendored,
	}

	if cfg.Output.Dir != "" {
		if disc.exclude, err = filepath.Abs(cfg.Output.Dir); err != nil {
			return fmt.Errorf("resolve output dir: %w", err)
		}
	}

	inputs, err := disc.inputs(ctx, args)
	if err != nil {
		return err
	}

	runner := batch.New(sess.engine,
		batch.WithWorkers(cfg.Convert.Workers),
		batch.WithTracer(sess.providers.Tracer),
		batch.WithMetrics(sess.metrics),
		batch.WithLogger(sess.providers.Logger),
	)

	report, err := runner.Run(ctx, inputs)
	if err != nil {
		return err
	}

	footprint := inputFootprint{}
	for _, in := range inputs {
		footprint.Bytes += len(in.Text)
	}

	if cfg.Output.Dir != "" {
		out := &writer{dir: cfg.Output.Dir, singleFile: cfg.Output.SingleFile}
		if footprint.Written, err = out.write(report.Results); err != nil {
			return err
		}
	}

	if !flags.quiet {
		rep := newRunReport(report, version.Get().Version, footprint)
		if err := renderReport(cmd.OutOrStdout(), cfg.Output.Format, rep); err != nil {
			return err
		}
	}

	if flags.strict && report.HasErrors() {
		return errManualFix
	}

	return nil
}
