package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/linalg/internal/compiler"
	"github.com/roach88/linalg/internal/ir"
)

// LoadError represents a failure to read an input file.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
}

// loadModule reads and parses the IR file at path.
//
// A missing or unreadable file is returned as a *LoadError. A syntax error is
// not a command error: it is returned as a ValidationError so callers can
// report it alongside verifier output.
func loadModule(opts *RootOptions, path string) (*ir.Module, *compiler.ValidationError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &LoadError{Code: ErrCodeFileNotFound, Path: path, Message: "file not found"}
		}
		return nil, nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error()}
	}

	m, err := compiler.Compile(path, string(data), opts.Registry)
	if err != nil {
		ve := compiler.SyntaxValidationError(err)
		return nil, &ve, nil
	}
	return m, nil, nil
}

// reportLoadError prints err and converts it into a command error.
func reportLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, fmt.Sprintf("%s: %s", loadErr.Path, loadErr.Message), nil)
		return WrapExitError(ExitCommandError, loadErr.Code, err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, ErrCodeGeneric, err)
}
