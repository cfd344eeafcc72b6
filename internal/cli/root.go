// Package cli provides the command-line interface for picturepalette.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/picturepalette/internal/config"
	"github.com/jmylchreest/picturepalette/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	quiet      bool
	configPath string
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "picturepalette",
		Short: "Extract dominant colours from a picture and derive a palette",
		Long: `picturepalette reduces a picture to five dominant colours by clustering its
pixels in HSV space, then derives a five-colour display palette from them
using a named scheme.

Pictures can be local files, a directory (one image is picked at random)
or an HTTP(S) URL.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/picturepalette/config.toml)")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newPaletteCmd(opts))
	rootCmd.AddCommand(newSchemesCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// logger writes to the command's stderr at a level chosen by --verbose/--quiet.
func (o *globalOptions) logger(cmd *cobra.Command) hclog.Logger {
	level := hclog.Info
	switch {
	case o.quiet:
		level = hclog.Off
	case o.verbose:
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "picturepalette",
		Output: cmd.ErrOrStderr(),
		Level:  level,
	})
}

// loadConfig layers defaults, config file, environment and the command's flags.
func (o *globalOptions) loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(config.Options{Path: o.configPath, Flags: cmd.Flags()})
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
