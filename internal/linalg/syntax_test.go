package linalg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/linalg/internal/asm"
	"github.com/roach88/linalg/internal/ir"
	"github.com/roach88/linalg/internal/linalg"
	"github.com/roach88/linalg/internal/testutil"
)

func parseOne(t *testing.T, src string) linalg.SliceOp {
	t.Helper()
	op, err := asm.ParseSingleOperation(testutil.TestFile, src, linalg.NewRegistry())
	require.NoError(t, err)
	s, ok := linalg.AsSlice(op)
	require.True(t, ok)
	return s
}

func TestParseSlice(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		dim      int
		indexing ir.Type
		result   ir.Type
	}{
		{
			name:     "index",
			src:      `%s = linalg.slice %v[%i] {dim = 1} : !linalg.view<?x?xf32>, index`,
			dim:      1,
			indexing: ir.Index,
			result:   ir.NewViewType(ir.F32, 1),
		},
		{
			name:     "range",
			src:      `%s = linalg.slice %v[%r] {dim = 0} : !linalg.view<?x?xf32>, !linalg.range`,
			dim:      0,
			indexing: ir.Range,
			result:   ir.NewViewType(ir.F32, 2),
		},
		{
			name:     "typed dim",
			src:      `%s = linalg.slice %v[%i] {dim = 2 : index} : !linalg.view<?x?x?xi32>, index`,
			dim:      2,
			indexing: ir.Index,
			result:   ir.NewViewType(ir.I32, 2),
		},
		{
			name:     "rank 1 to rank 0",
			src:      `%s = linalg.slice %v[%i] {dim = 0} : !linalg.view<?xf64>, index`,
			dim:      0,
			indexing: ir.Index,
			result:   ir.NewViewType(ir.F64, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parseOne(t, tt.src)

			dim, ok := s.SlicingDim()
			require.True(t, ok)
			assert.Equal(t, tt.dim, dim)

			attr, _ := s.Operation().Attr(linalg.SlicingDimAttrName)
			assert.Equal(t, ir.NewIndexAttr(int64(tt.dim)), attr, "dim is normalised to index")

			assert.Equal(t, tt.indexing, s.Indexing().Type)
			assert.Equal(t, tt.result, s.Operation().Result(0).Type)
			assert.Equal(t, testutil.Loc(1, 6), s.Operation().Loc)
			assert.NoError(t, s.Verify())
		})
	}
}

func TestParseSliceExtraAttributes(t *testing.T) {
	s := parseOne(t, `%s = linalg.slice %v[%i] {dim = 0} {tag = "x", n = 3} : !linalg.view<?xf32>, index`)
	assert.Equal(t, []string{"dim", "tag", "n"}, s.Operation().Attributes.Names())
}

func TestParseSliceWithoutDimFailsVerify(t *testing.T) {
	s := parseOne(t, `%s = linalg.slice %v[%i] : !linalg.view<?xf32>, index`)
	assert.True(t, ir.IsOpError(s.Verify(), linalg.ErrMissingDim))
}

func TestParseSliceErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		message string
	}{
		{
			name:    "two indexings",
			src:     `%s = linalg.slice %v[%i, %j] {dim = 0} : !linalg.view<?xf32>, index`,
			message: "expected 1 indexing type",
		},
		{
			name:    "no indexing",
			src:     `%s = linalg.slice %v[] {dim = 0} : !linalg.view<?xf32>, index`,
			message: "expected 1 indexing type",
		},
		{
			name:    "parent not a view",
			src:     `%s = linalg.slice %v[%i] {dim = 0} : index, index`,
			message: "view type expected as first type",
		},
		{
			name:    "float indexing",
			src:     `%s = linalg.slice %v[%i] {dim = 0} : !linalg.view<?xf32>, f32`,
			message: "indexing must be of range or index type",
		},
		{
			name:    "single type",
			src:     `%s = linalg.slice %v[%i] {dim = 0} : !linalg.view<?xf32>`,
			message: "indexing must be of range or index type",
		},
		{
			name:    "three types",
			src:     `%s = linalg.slice %v[%i] {dim = 0} : !linalg.view<?xf32>, index, index`,
			message: "expected 2 types, got 3",
		},
		{
			name:    "index into rank 0",
			src:     `%s = linalg.slice %v[%i] {dim = 0} : !linalg.view<f32>, index`,
			message: "cannot index into a rank-0 view",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := asm.ParseSingleOperation(testutil.TestFile, tt.src, linalg.NewRegistry())
			require.Error(t, err)

			var se *asm.SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.message, se.Message)
			assert.Equal(t, testutil.Loc(1, 6), se.Loc, "errors point at the op name")
		})
	}
}

func TestParseSliceMissingBracket(t *testing.T) {
	_, err := asm.ParseSingleOperation(testutil.TestFile,
		`%s = linalg.slice %v %i {dim = 0} : !linalg.view<?xf32>, index`, linalg.NewRegistry())
	var se *asm.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "expected '[' in operand list", se.Message)
	assert.Equal(t, 22, se.Loc.Col)
}

func TestParseSliceTypeConflictWithEarlierUse(t *testing.T) {
	src := "%a = linalg.slice %v[%i] {dim = 0} : !linalg.view<?x?xf32>, index\n" +
		"%b = linalg.slice %v[%i] {dim = 0} : !linalg.view<?xf32>, index\n"
	_, err := asm.ParseModule(testutil.TestFile, src, linalg.NewRegistry())

	var se *asm.SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t,
		"use of value '%v' expects different type than prior uses: '!linalg.view<?xf32>' vs '!linalg.view<?x?xf32>'",
		se.Message)
	assert.Equal(t, 2, se.Loc.Line)
}

func TestPrintSlice(t *testing.T) {
	reg := linalg.NewRegistry()
	view := testutil.View("v", ir.F32, 2)
	idx := testutil.Index("i")

	s := linalg.NewSlice(testutil.Loc(1, 1), view, idx, 1)
	assert.Equal(t,
		`%0 = linalg.slice %v[%i] {dim = 1} : !linalg.view<?x?xf32>, index`,
		asm.PrintOp(s.Operation(), reg))

	s.Operation().Attributes.Set("tag", ir.StringAttr("x"))
	assert.Equal(t,
		`%0 = linalg.slice %v[%i] {dim = 1} {tag = "x"} : !linalg.view<?x?xf32>, index`,
		asm.PrintOp(s.Operation(), reg))
}

func TestPrintSliceGenericForm(t *testing.T) {
	s := linalg.NewSlice(testutil.Loc(1, 1), testutil.View("v", ir.F32, 2), testutil.Index("i"), 1)
	assert.Equal(t,
		`%0 = "linalg.slice"(%v, %i) {dim = 1 : index} : (!linalg.view<?x?xf32>, index) -> !linalg.view<?xf32>`,
		asm.PrintOp(s.Operation(), linalg.NewRegistry(), asm.WithGenericForm()))
}

func TestPrintSliceFallsBackToGeneric(t *testing.T) {
	reg := linalg.NewRegistry()
	view := testutil.View("v", ir.F32, 2)

	tests := []struct {
		name     string
		op       *ir.Operation
		expected string
	}{
		{
			name:     "missing dim",
			op:       testutil.GenericOp(linalg.SliceOpName, []*ir.Value{view, testutil.Index("i")}, nil, ir.NewViewType(ir.F32, 1)),
			expected: `%0 = "linalg.slice"(%v, %i) : (!linalg.view<?x?xf32>, index) -> !linalg.view<?xf32>`,
		},
		{
			name:     "result mismatch",
			op:       testutil.GenericOp(linalg.SliceOpName, []*ir.Value{view, testutil.Range("r")}, testutil.DimAttr(0), ir.NewViewType(ir.F32, 1)),
			expected: `%0 = "linalg.slice"(%v, %r) {dim = 0 : index} : (!linalg.view<?x?xf32>, !linalg.range) -> !linalg.view<?xf32>`,
		},
		{
			name:     "no result",
			op:       testutil.GenericOp(linalg.SliceOpName, []*ir.Value{view, testutil.Index("i")}, testutil.DimAttr(0)),
			expected: `"linalg.slice"(%v, %i) {dim = 0 : index} : (!linalg.view<?x?xf32>, index) -> ()`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, asm.PrintOp(tt.op, reg))
		})
	}
}

func TestSliceRoundTrip(t *testing.T) {
	reg := linalg.NewRegistry()
	src := "%a = linalg.slice %v[%r] {dim = 0} : !linalg.view<?x?x?xf32>, !linalg.range\n" +
		"%b = linalg.slice %a[%i] {dim = 2} {tag = \"inner\"} : !linalg.view<?x?x?xf32>, index\n" +
		"%c = linalg.slice %b[%j] {dim = 0} : !linalg.view<?x?xf32>, index\n"

	m, err := asm.ParseModule(testutil.TestFile, src, reg)
	require.NoError(t, err)
	require.Len(t, m.Ops, 3)
	for _, op := range m.Ops {
		require.NoError(t, reg.Verify(op))
	}

	printed := asm.Print(m, reg)
	assert.Equal(t, src, printed)

	// The generic form must parse back to the same ops.
	generic := asm.Print(m, reg, asm.WithGenericForm())
	again, err := asm.ParseModule(testutil.TestFile, generic, reg)
	require.NoError(t, err)
	assert.Equal(t, src, asm.Print(again, reg))

	for i := range m.Ops {
		assert.Equal(t, ir.MustOperationHash(m.Ops[i]), ir.MustOperationHash(again.Ops[i]))
	}
}
