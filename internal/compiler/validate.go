package compiler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/linalg/internal/asm"
	"github.com/roach88/linalg/internal/dialect"
	"github.com/roach88/linalg/internal/ir"
)

// Driver error codes (E100-E199). Op verification codes are owned by the
// dialect that defines the op (E200 and up).
const (
	ErrSyntax      = "E100" // textual IR does not match the grammar
	ErrHashFailed  = "E101" // op could not be content-addressed
	ErrUnknownFail = "E199" // verifier returned a non-OpError failure
)

// ValidationError represents one failed op or syntax error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
	Col     int    `json:"col,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Verdict is the cacheable outcome of verifying one op.
type Verdict struct {
	OpName  string
	Valid   bool
	Code    string
	Message string
}

// VerificationCache stores verdicts keyed by ir.OperationHash.
// Implementations must be safe to call sequentially from one goroutine.
type VerificationCache interface {
	Lookup(ctx context.Context, hash string) (Verdict, bool, error)
	Record(ctx context.Context, hash string, v Verdict) error
}

type validateConfig struct {
	cache  VerificationCache
	logger *zap.Logger
}

// Option configures Validate.
type Option func(*validateConfig)

// WithCache reuses verdicts for ops whose content hash was seen before.
func WithCache(c VerificationCache) Option {
	return func(cfg *validateConfig) { cfg.cache = c }
}

// WithLogger sets the logger for per-op diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *validateConfig) { cfg.logger = l }
}

// Validate verifies every op in m. It does not stop at the first failing op:
// each op contributes at most one error (its verifier short-circuits).
func Validate(ctx context.Context, m *ir.Module, reg *dialect.Registry, opts ...Option) []ValidationError {
	cfg := validateConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	var errs []ValidationError
	for i, op := range m.Ops {
		field := fmt.Sprintf("ops[%d](%s)", i, op.Name)
		v, err := verifyOp(ctx, op, reg, &cfg)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: err.Error(),
				Code:    ErrHashFailed,
				Line:    op.Loc.Line,
				Col:     op.Loc.Col,
			})
			continue
		}
		if v.Valid {
			continue
		}
		errs = append(errs, ValidationError{
			Field:   field,
			Message: v.Message,
			Code:    v.Code,
			Line:    op.Loc.Line,
			Col:     op.Loc.Col,
		})
	}
	return errs
}

// verifyOp returns the op's verdict, consulting the cache when configured.
// Cache failures are logged and otherwise ignored.
func verifyOp(ctx context.Context, op *ir.Operation, reg *dialect.Registry, cfg *validateConfig) (Verdict, error) {
	if cfg.cache == nil {
		return verdictOf(op, reg.Verify(op)), nil
	}

	hash, err := ir.OperationHash(op)
	if err != nil {
		return Verdict{}, err
	}
	if v, ok, err := cfg.cache.Lookup(ctx, hash); err != nil {
		cfg.logger.Warn("verification cache lookup failed", zap.String("op", op.Name), zap.Error(err))
	} else if ok {
		cfg.logger.Debug("verification cache hit", zap.String("op", op.Name), zap.String("hash", hash))
		return v, nil
	}

	v := verdictOf(op, reg.Verify(op))
	if err := cfg.cache.Record(ctx, hash, v); err != nil {
		cfg.logger.Warn("verification cache record failed", zap.String("op", op.Name), zap.Error(err))
	}
	cfg.logger.Debug("verified op",
		zap.String("op", op.Name),
		zap.Bool("valid", v.Valid),
		zap.String("code", v.Code))
	return v, nil
}

func verdictOf(op *ir.Operation, err error) Verdict {
	if err == nil {
		return Verdict{OpName: op.Name, Valid: true}
	}
	var oe *ir.OpError
	if errors.As(err, &oe) {
		return Verdict{OpName: op.Name, Code: oe.Code, Message: oe.Message}
	}
	return Verdict{OpName: op.Name, Code: ErrUnknownFail, Message: err.Error()}
}

// SyntaxValidationError converts a parse failure into a ValidationError.
func SyntaxValidationError(err error) ValidationError {
	var se *asm.SyntaxError
	if errors.As(err, &se) {
		return ValidationError{
			Field:   "syntax",
			Message: se.Message,
			Code:    ErrSyntax,
			Line:    se.Loc.Line,
			Col:     se.Loc.Col,
		}
	}
	return ValidationError{Field: "syntax", Message: err.Error(), Code: ErrSyntax}
}
