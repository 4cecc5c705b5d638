package harness

import (
	"github.com/roach88/linalg/internal/compiler"
	"github.com/roach88/linalg/internal/linalg"
)

// Outcome is everything observed while processing a scenario input.
type Outcome struct {
	// ParseError is the syntax failure, if parsing failed. When set, the
	// remaining fields are empty.
	ParseError *compiler.ValidationError `json:"parse_error,omitempty"`

	// Diagnostics are the verifier failures, one per failing op.
	Diagnostics []compiler.ValidationError `json:"diagnostics,omitempty"`

	// Printed is the module in custom form.
	Printed string `json:"printed,omitempty"`

	// Generic is the module in generic form.
	Generic string `json:"generic,omitempty"`

	// Reprinted is Printed parsed and printed again.
	Reprinted string `json:"reprinted,omitempty"`

	// ReparseError is set if Printed did not parse.
	ReparseError string `json:"reparse_error,omitempty"`

	// Slices maps op index to the summary of each verified slice op.
	Slices map[int]linalg.SliceInfo `json:"slices,omitempty"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Outcome is what the pipeline produced.
	Outcome Outcome `json:"outcome"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
