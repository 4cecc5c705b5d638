package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/linalg/internal/ir"
	"github.com/roach88/linalg/internal/linalg"
	"github.com/roach88/linalg/internal/testutil"
)

// memoryCache is an in-memory VerificationCache.
type memoryCache struct {
	verdicts map[string]Verdict
	lookups  int
	records  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{verdicts: make(map[string]Verdict)}
}

func (c *memoryCache) Lookup(_ context.Context, hash string) (Verdict, bool, error) {
	c.lookups++
	v, ok := c.verdicts[hash]
	return v, ok, nil
}

func (c *memoryCache) Record(_ context.Context, hash string, v Verdict) error {
	c.records++
	c.verdicts[hash] = v
	return nil
}

// brokenCache fails every call.
type brokenCache struct{}

func (brokenCache) Lookup(context.Context, string) (Verdict, bool, error) {
	return Verdict{}, false, errors.New("disk on fire")
}

func (brokenCache) Record(context.Context, string, Verdict) error {
	return errors.New("disk on fire")
}

const mixedModule = `%a = linalg.slice %v[%i] {dim = 0} : !linalg.view<?x?xf32>, index
%b = linalg.slice %w[%j] {dim = 3} : !linalg.view<?x?xf32>, index
%c = "linalg.slice"(%v, %r) {dim = 0 : index} : (!linalg.view<?x?xf32>, !linalg.range) -> !linalg.view<?xf32>
"test.other"() : () -> ()
`

func compileMixed(t *testing.T) *ir.Module {
	t.Helper()
	m, err := Compile(testutil.TestFile, mixedModule, linalg.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestValidateValidModule(t *testing.T) {
	m, err := Compile(testutil.TestFile, validModule, linalg.NewRegistry())
	require.NoError(t, err)
	assert.Empty(t, Validate(context.Background(), m, linalg.NewRegistry()))
}

func TestValidateReportsEveryFailingOp(t *testing.T) {
	errs := Validate(context.Background(), compileMixed(t), linalg.NewRegistry())

	want := []ValidationError{
		{
			Field:   "ops[1](linalg.slice)",
			Message: "slicing dim must be in the [0 .. parent_rank) range",
			Code:    linalg.ErrDimOutOfRange,
			Line:    2,
			Col:     6,
		},
		{
			Field:   "ops[2](linalg.slice)",
			Message: "result type '!linalg.view<?xf32>' does not match inferred slice type '!linalg.view<?x?xf32>'",
			Code:    linalg.ErrResultMismatch,
			Line:    3,
			Col:     6,
		},
		{
			Field:   "ops[3](test.other)",
			Message: "is not registered",
			Code:    "E200",
			Line:    4,
			Col:     1,
		},
	}
	assert.Equal(t, want, errs)
}

func TestValidateWithCache(t *testing.T) {
	reg := linalg.NewRegistry()
	cache := newMemoryCache()

	first := Validate(context.Background(), compileMixed(t), reg, WithCache(cache))
	assert.Equal(t, 4, cache.lookups)
	assert.Equal(t, 4, cache.records)

	core, logs := observer.New(zapcore.DebugLevel)
	second := Validate(context.Background(), compileMixed(t), reg, WithCache(cache), WithLogger(zap.New(core)))

	assert.Equal(t, first, second, "cached verdicts reproduce the same diagnostics")
	assert.Equal(t, 8, cache.lookups)
	assert.Equal(t, 4, cache.records, "hits are not re-recorded")
	assert.Equal(t, 4, logs.FilterMessage("verification cache hit").Len())
}

func TestValidateCacheFailuresAreNotFatal(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	errs := Validate(context.Background(), compileMixed(t), linalg.NewRegistry(),
		WithCache(brokenCache{}), WithLogger(zap.New(core)))

	assert.Len(t, errs, 3)
	assert.Equal(t, 4, logs.FilterMessage("verification cache lookup failed").Len())
	assert.Equal(t, 4, logs.FilterMessage("verification cache record failed").Len())
}

func TestValidateHashFailure(t *testing.T) {
	op := testutil.GenericOp("test.op", nil, ir.Attributes{{Name: "broken", Value: nil}})
	m := &ir.Module{Ops: []*ir.Operation{op}}

	errs := Validate(context.Background(), m, linalg.NewRegistry(), WithCache(newMemoryCache()))
	require.Len(t, errs, 1)
	assert.Equal(t, ErrHashFailed, errs[0].Code)
	assert.Equal(t, "ops[0](test.op)", errs[0].Field)
}

func TestVerdictOf(t *testing.T) {
	op := testutil.GenericOp("test.op", nil, nil)

	assert.Equal(t, Verdict{OpName: "test.op", Valid: true}, verdictOf(op, nil))
	assert.Equal(t,
		Verdict{OpName: "test.op", Code: "E201", Message: "missing"},
		verdictOf(op, ir.EmitOpError(op, "E201", "missing")))
	assert.Equal(t,
		Verdict{OpName: "test.op", Code: ErrUnknownFail, Message: "boom"},
		verdictOf(op, errors.New("boom")))
}
