package ir

import (
	"errors"
	"fmt"
)

// OpError is a verification failure reported by an operation.
//
// Verification failures are recoverable: the caller decides whether to abort
// the enclosing transformation. Code identifies the failed check so drivers can
// aggregate diagnostics without matching on messages.
type OpError struct {
	Op      string
	Loc     Location
	Code    string
	Message string
}

// Error renders the failure the way diagnostics are shown to users:
// "loc: 'op.name' op message".
func (e *OpError) Error() string {
	if e.Loc.IsValid() {
		return fmt.Sprintf("%s: '%s' op %s", e.Loc, e.Op, e.Message)
	}
	return fmt.Sprintf("'%s' op %s", e.Op, e.Message)
}

// EmitOpError creates an OpError located at op.
func EmitOpError(op *Operation, code, message string) *OpError {
	return &OpError{Op: op.Name, Loc: op.Loc, Code: code, Message: message}
}

// IsOpError reports whether err is (or wraps) an OpError with the given code.
// An empty code matches any OpError.
func IsOpError(err error, code string) bool {
	var oe *OpError
	if !errors.As(err, &oe) {
		return false
	}
	return code == "" || oe.Code == code
}
