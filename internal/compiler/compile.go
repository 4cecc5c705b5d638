// Package compiler turns textual IR into verified modules.
//
// Compile parses; Validate runs every op's verifier through the registry.
// The two steps are separate so callers can print or inspect IR that does not
// verify.
package compiler

import (
	"fmt"
	"os"

	"github.com/roach88/linalg/internal/asm"
	"github.com/roach88/linalg/internal/dialect"
	"github.com/roach88/linalg/internal/ir"
)

// Compile parses src as a module. Parse errors are *asm.SyntaxError values
// carrying the location of the failure.
func Compile(file, src string, reg *dialect.Registry) (*ir.Module, error) {
	return asm.ParseModule(file, src, reg)
}

// CompileFile reads and parses the file at path.
func CompileFile(path string, reg *dialect.Registry) (*ir.Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read IR file: %w", err)
	}
	return Compile(path, string(data), reg)
}
