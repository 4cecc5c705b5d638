package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/linalg/internal/asm"
)

// PrintOptions holds flags for the print command.
type PrintOptions struct {
	*RootOptions
	Generic bool
	Output  string
}

// PrintResult is the JSON payload of the print command.
type PrintResult struct {
	Ops int    `json:"ops"`
	IR  string `json:"ir"`
}

// NewPrintCommand creates the print command.
func NewPrintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "print <file>",
		Short: "Parse an IR file and print it back",
		Long: `Parse an IR file and print it in canonical form.

Ops are printed in their custom form unless --generic is given. The output
parses back to the same module. Printing does not verify; use verify for that.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrint(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Generic, "generic", false, "print every op in generic form")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write output to a file instead of stdout")

	return cmd
}

func runPrint(opts *PrintOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, syntaxErr, err := loadModule(opts.RootOptions, path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	if syntaxErr != nil {
		_ = formatter.Error(syntaxErr.Code, syntaxErr.Error(), syntaxErr)
		return NewExitError(ExitFailure, syntaxErr.Error())
	}

	var printerOpts []asm.PrinterOption
	if opts.Generic || opts.Config.Generic {
		printerOpts = append(printerOpts, asm.WithGenericForm())
	}
	text := asm.Print(m, opts.Registry, printerOpts...)

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text), 0644); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		formatter.VerboseLog("Wrote %d op(s) to %s", len(m.Ops), opts.Output)
		if formatter.Format == "json" {
			return formatter.Success(PrintResult{Ops: len(m.Ops)})
		}
		return nil
	}

	if formatter.Format == "json" {
		return formatter.Success(PrintResult{Ops: len(m.Ops), IR: text})
	}
	fmt.Fprint(formatter.Writer, text)
	return nil
}
