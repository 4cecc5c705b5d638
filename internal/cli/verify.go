package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/linalg/internal/compiler"
	"github.com/roach88/linalg/internal/store"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Cache string // SQLite verification cache path
}

// VerifyResult holds verification results.
type VerifyResult struct {
	Valid  bool                       `json:"valid"`
	Ops    int                        `json:"ops"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
	Cache  *store.Stats               `json:"cache,omitempty"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Parse and verify an IR file",
		Long: `Parse an IR file and run every op's verifier.

All ops are checked; each failing op reports its first error. With --cache,
verdicts are stored in SQLite keyed by the op's content hash and reused on
later runs.

Exit codes:
  0 - All ops valid
  1 - Syntax or verification errors
  2 - Command error (missing file, unusable cache, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Cache, "cache", "", "path to a SQLite verification cache")

	return cmd
}

func runVerify(opts *VerifyOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, syntaxErr, err := loadModule(opts.RootOptions, path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	if syntaxErr != nil {
		return outputVerifyFailure(formatter, VerifyResult{Errors: []compiler.ValidationError{*syntaxErr}})
	}
	formatter.VerboseLog("Parsed %d op(s) from %s", len(m.Ops), path)

	validateOpts := []compiler.Option{compiler.WithLogger(opts.Logger)}

	cachePath := opts.Cache
	if cachePath == "" {
		cachePath = opts.Config.Cache
	}
	var st *store.Store
	if cachePath != "" {
		st, err = store.Open(cachePath)
		if err != nil {
			_ = formatter.Error(ErrCodeCacheFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to open verification cache", err)
		}
		defer st.Close()
		validateOpts = append(validateOpts, compiler.WithCache(st))
		opts.Logger.Debug("using verification cache", zap.String("path", cachePath))
	}

	result := VerifyResult{Ops: len(m.Ops)}
	result.Errors = compiler.Validate(cmd.Context(), m, opts.Registry, validateOpts...)
	result.Valid = len(result.Errors) == 0

	if st != nil {
		stats, err := st.Stats(cmd.Context())
		if err != nil {
			opts.Logger.Warn("failed to read cache stats", zap.Error(err))
		} else {
			result.Cache = &stats
			formatter.VerboseLog("Cache: %d entries, %d hits", stats.Entries, stats.Hits)
		}
	}

	if !result.Valid {
		return outputVerifyFailure(formatter, result)
	}
	return outputVerifySuccess(formatter, result)
}

// outputVerifySuccess outputs successful verification results.
func outputVerifySuccess(formatter *OutputFormatter, result VerifyResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ All ops valid (%d op(s))\n", result.Ops)
	return nil
}

// outputVerifyFailure outputs syntax or verifier errors.
func outputVerifyFailure(formatter *OutputFormatter, result VerifyResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		if err := formatter.Failure(errs[0].Code, errs[0].Message, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("verification failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Verification failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d:%d\n", err.Line, err.Col)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("verification failed with %d error(s)", len(errs)))
}
