package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/linalg/internal/config"
	"github.com/roach88/linalg/internal/dialect"
	"github.com/roach88/linalg/internal/linalg"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Config is the loaded config file, or the defaults if none was given.
	// Populated before any subcommand runs.
	Config config.Config

	// Logger receives driver diagnostics. It is a no-op unless --verbose.
	Logger *zap.Logger

	// Registry is the dialect registry shared by subcommands.
	Registry *dialect.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the linalg-opt CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{
		Config:   config.Default(),
		Logger:   zap.NewNop(),
		Registry: linalg.NewRegistry(),
	}

	cmd := &cobra.Command{
		Use:   "linalg-opt",
		Short: "linalg-opt - parse, verify and print linalg IR",
		Long:  "A driver for the linalg dialect: verifies slice ops over views and round-trips their textual form.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, opts); err != nil {
				return err
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Verbose {
				opts.Logger = newLogger(cmd)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a CUE config file")

	// Add subcommands
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// applyConfig loads --config and fills in every global flag the user did not
// set explicitly.
func applyConfig(cmd *cobra.Command, opts *RootOptions) error {
	if opts.ConfigPath == "" {
		return nil
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		_ = formatter.Error(ErrCodeConfigInvalid, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	opts.Config = cfg

	flags := cmd.Flags()
	if !flags.Changed("format") {
		opts.Format = cfg.Format
	}
	if !flags.Changed("verbose") {
		opts.Verbose = cfg.Verbose
	}
	return nil
}

// newLogger writes human-readable debug logs to the command's stderr so they
// never mix with JSON on stdout.
func newLogger(cmd *cobra.Command) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(cmd.ErrOrStderr()),
		zap.DebugLevel,
	)
	return zap.New(core)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
