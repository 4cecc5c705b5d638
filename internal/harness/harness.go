package harness

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/linalg/internal/asm"
	"github.com/roach88/linalg/internal/compiler"
	"github.com/roach88/linalg/internal/dialect"
	"github.com/roach88/linalg/internal/linalg"
)

// Harness runs scenarios against a dialect registry.
type Harness struct {
	reg    *dialect.Registry
	logger *zap.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithRegistry replaces the default linalg registry.
func WithRegistry(reg *dialect.Registry) Option {
	return func(h *Harness) { h.reg = reg }
}

// WithLogger sets the logger used for per-scenario diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// New creates a harness. By default it uses the linalg dialect and a no-op
// logger.
func New(opts ...Option) *Harness {
	h := &Harness{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	if h.reg == nil {
		h.reg = linalg.NewRegistry()
	}
	return h
}

// Run executes a scenario and evaluates its assertions.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	return New().Run(ctx, scenario)
}

// Run parses, verifies and prints the scenario input, then checks every
// assertion. The error result is reserved for failures of the harness itself;
// failed assertions are reported in the Result.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("nil scenario")
	}
	result := NewResult()
	result.Outcome = h.process(ctx, scenario)

	for i, a := range scenario.Assertions {
		if err := checkAssertion(&result.Outcome, a); err != nil {
			result.AddError(fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}

	h.logger.Debug("scenario finished",
		zap.String("scenario", scenario.Name),
		zap.Bool("pass", result.Pass),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

// process runs the pipeline and records what it observed.
func (h *Harness) process(ctx context.Context, scenario *Scenario) Outcome {
	var out Outcome

	m, err := compiler.Compile(scenario.Name, scenario.Input, h.reg)
	if err != nil {
		ve := compiler.SyntaxValidationError(err)
		out.ParseError = &ve
		return out
	}

	out.Diagnostics = compiler.Validate(ctx, m, h.reg, compiler.WithLogger(h.logger))
	out.Printed = asm.Print(m, h.reg)
	out.Generic = asm.Print(m, h.reg, asm.WithGenericForm())

	again, err := compiler.Compile(scenario.Name, out.Printed, h.reg)
	if err != nil {
		out.ReparseError = err.Error()
	} else {
		out.Reprinted = asm.Print(again, h.reg)
	}

	out.Slices = make(map[int]linalg.SliceInfo)
	for i, op := range m.Ops {
		s, ok := linalg.AsSlice(op)
		if !ok {
			continue
		}
		if info, ok := s.Describe(); ok {
			out.Slices[i] = info
		}
	}
	return out
}
