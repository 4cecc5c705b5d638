package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/linalg/internal/ir"
	"github.com/roach88/linalg/internal/linalg"
)

// InspectedSlice reports one slice op. Info is only set for ops that verify.
type InspectedSlice struct {
	Op    int               `json:"op"`
	Valid bool              `json:"valid"`
	Info  *linalg.SliceInfo `json:"info,omitempty"`
	Error string            `json:"error,omitempty"`
}

// InspectResult is the payload of the inspect command.
type InspectResult struct {
	Ops    int              `json:"ops"`
	Slices []InspectedSlice `json:"slices"`
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show derived properties of slice ops",
		Long: `Parse an IR file and report, for every linalg.slice op, the parent and
result view types, ranks, element type, sliced dimension and whether the
slice drops a dimension. Ops that do not verify are listed with their error.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	m, syntaxErr, err := loadModule(opts, path)
	if err != nil {
		return reportLoadError(formatter, err)
	}
	if syntaxErr != nil {
		_ = formatter.Error(syntaxErr.Code, syntaxErr.Error(), syntaxErr)
		return NewExitError(ExitFailure, syntaxErr.Error())
	}

	result := InspectResult{Ops: len(m.Ops), Slices: []InspectedSlice{}}
	for i, op := range m.Ops {
		s, ok := linalg.AsSlice(op)
		if !ok {
			continue
		}
		result.Slices = append(result.Slices, inspectSlice(i, s))
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	if len(result.Slices) == 0 {
		fmt.Fprintln(w, "No slice ops found.")
		return nil
	}
	for _, s := range result.Slices {
		if !s.Valid {
			fmt.Fprintf(w, "ops[%d] invalid: %s\n", s.Op, s.Error)
			continue
		}
		info := s.Info
		fmt.Fprintf(w, "ops[%d] %s = %s\n", s.Op, info.Result, linalg.SliceOpName)
		fmt.Fprintf(w, "  parent:   %s (rank %d)\n", info.ParentType, info.ParentRank)
		fmt.Fprintf(w, "  indexing: %s along dim %d\n", info.IndexingType, info.Dim)
		fmt.Fprintf(w, "  result:   %s (rank %d, element %s)\n", info.ResultType, info.Rank, info.ElementType)
		fmt.Fprintf(w, "  rank-decreasing: %t\n", info.RankDecreasing)
	}
	return nil
}

func inspectSlice(index int, s linalg.SliceOp) InspectedSlice {
	if info, ok := s.Describe(); ok {
		return InspectedSlice{Op: index, Valid: true, Info: &info}
	}
	out := InspectedSlice{Op: index}
	var oe *ir.OpError
	if err := s.Verify(); errors.As(err, &oe) {
		out.Error = fmt.Sprintf("%s: %s", oe.Code, oe.Message)
	} else if err != nil {
		out.Error = err.Error()
	}
	return out
}
