// Package main provides the mp2vue CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/mp2vue/pkg/config"
)

// exitCodeManualFix is returned by --strict runs that left errors behind.
const exitCodeManualFix = 2

// errManualFix reports that converted files still need a manual fix.
var errManualFix = errors.New("some modules need a manual fix")

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	noColor    bool
}

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if errors.Is(err, errManualFix) {
		os.Exit(exitCodeManualFix)
	}

	os.Exit(1)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mp2vue",
		Short: "Convert mini-app scripts into Vue options objects",
		Long: `mp2vue rewrites mini-app App, Page, Component and Behavior registrations
into Vue options objects, reporting everything it could not convert safely.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.noColor {
				color.NoColor = true //nolint:reassign // intentional override of library global
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./.mp2vue.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress output")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(convertCmd(opts))
	rootCmd.AddCommand(diffCmd(opts))
	rootCmd.AddCommand(configCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

// loadConfig loads the config named by --config and applies --verbose.
func (opts *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	switch {
	case opts.verbose:
		cfg.Logging.Level = "debug"
	case opts.quiet:
		cfg.Logging.Level = "error"
	}

	return cfg, nil
}
