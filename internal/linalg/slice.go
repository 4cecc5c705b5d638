package linalg

import (
	"fmt"

	"github.com/roach88/linalg/internal/asm"
	"github.com/roach88/linalg/internal/ir"
)

const (
	// SliceOpName is the registered name of the slice op.
	SliceOpName = "linalg.slice"

	// SlicingDimAttrName names the attribute holding the sliced axis.
	SlicingDimAttrName = "dim"

	// FirstIndexingOperand is the position of the first indexing operand;
	// operand 0 is the parent view.
	FirstIndexingOperand = 1
)

// Verification error codes (E201-E209)
const (
	ErrMissingDim     = "E201" // dim attribute absent or not an integer
	ErrDimOutOfRange  = "E202" // dim not in [0, parent_rank)
	ErrParentNotView  = "E203" // operand 0 is not a view
	ErrBadIndexing    = "E204" // operand 1 is neither a range nor an index
	ErrOperandCount   = "E205" // wrong number of operands or results
	ErrResultMismatch = "E206" // result type differs from the inferred one
)

// SliceOp extracts a view from a parent view along one dimension, either
// keeping the dimension (range indexing) or dropping it (index indexing).
//
// A view may itself be coming either from a view-producing op or from
// another SliceOp.
//
// SliceOp is a thin handle over a generic operation; copying it is cheap and
// all copies observe the same operation.
type SliceOp struct {
	op *ir.Operation
}

// AsSlice wraps op if it is a slice op.
func AsSlice(op *ir.Operation) (SliceOp, bool) {
	if op == nil || op.Name != SliceOpName {
		return SliceOp{}, false
	}
	return SliceOp{op: op}, true
}

// Operation returns the underlying generic operation.
func (s SliceOp) Operation() *ir.Operation { return s.op }

// InferSliceType computes the view type produced by slicing parent with an
// indexing value of type indexing. Range indexing preserves the rank; index
// indexing drops one dimension. The element type is always propagated.
// The second result is false if indexing is neither a range nor an index,
// or if an index is applied to a rank-0 view.
func InferSliceType(parent ir.ViewType, indexing ir.Type) (ir.ViewType, bool) {
	switch indexing.(type) {
	case ir.RangeType:
		return parent, true
	case ir.IndexType:
		if parent.Rank == 0 {
			return ir.ViewType{}, false
		}
		return ir.NewViewType(parent.Elem, parent.Rank-1), true
	default:
		return ir.ViewType{}, false
	}
}

// BuildSlice fills state with the operands, dim attribute and result type of
// a slice of view along dim. No validation happens here; call Verify.
//
// The caller must guarantee that view is a view and indexing is a range or
// an index. Anything else is a programming error and panics.
func BuildSlice(state *ir.OperationState, view, indexing *ir.Value, dim int) {
	viewType, ok := view.Type.(ir.ViewType)
	if !ok {
		panic(fmt.Sprintf("linalg.slice: parent must be a view, got %s", view.Type))
	}
	resultType, ok := InferSliceType(viewType, indexing.Type)
	if !ok {
		panic(fmt.Sprintf("linalg.slice: cannot slice %s with %s", viewType, indexing.Type))
	}

	state.AddOperands(view, indexing)
	state.AddAttribute(SlicingDimAttrName, ir.NewIndexAttr(int64(dim)))
	state.AddTypes(resultType)
}

// NewSlice builds and materialises a slice op at loc.
func NewSlice(loc ir.Location, view, indexing *ir.Value, dim int) SliceOp {
	state := ir.NewOperationState(SliceOpName, loc)
	BuildSlice(state, view, indexing, dim)
	return SliceOp{op: ir.NewOperation(state)}
}

// Verify checks the op and returns the first failure as an *ir.OpError.
//
// Checks run in order: dim attribute present, dim within the parent rank,
// parent is a view, indexing is a range or an index. The rank check needs a
// view parent; when the parent is not a view the next check reports it.
// Operand/result arity is checked before anything reads an operand, and the
// result type is checked against the inferred type last.
func (s SliceOp) Verify() error {
	op := s.op
	attr, ok := op.Attr(SlicingDimAttrName)
	if !ok {
		return ir.EmitOpError(op, ErrMissingDim, "slice op expects a dim attribute")
	}
	dimAttr, ok := attr.(ir.IntegerAttr)
	if !ok {
		return ir.EmitOpError(op, ErrMissingDim, "slice op expects an integer dim attribute")
	}
	if len(op.Operands) != 2 || len(op.Results) != 1 {
		return ir.EmitOpError(op, ErrOperandCount, fmt.Sprintf(
			"expects 2 operands and 1 result, got %d and %d", len(op.Operands), len(op.Results)))
	}

	parent, isView := typeOf(op.Operands[0]).(ir.ViewType)
	if isView && (dimAttr.Value < 0 || dimAttr.Value >= int64(parent.Rank)) {
		return ir.EmitOpError(op, ErrDimOutOfRange, "slicing dim must be in the [0 .. parent_rank) range")
	}
	if !isView {
		return ir.EmitOpError(op, ErrParentNotView,
			"first operand must be of ViewType (i.e. a view op or a slice op)")
	}

	indexing := typeOf(op.Operands[1])
	switch indexing.(type) {
	case ir.RangeType, ir.IndexType:
	default:
		return ir.EmitOpError(op, ErrBadIndexing,
			"second operand must be of RangeType (i.e. a range op) or IndexType")
	}

	want, _ := InferSliceType(parent, indexing)
	if got := op.Results[0].Type; !ir.TypesEqual(got, want) {
		return ir.EmitOpError(op, ErrResultMismatch, fmt.Sprintf(
			"result type '%s' does not match inferred slice type '%s'", got, want))
	}
	return nil
}

func typeOf(v *ir.Value) ir.Type {
	if v == nil {
		return nil
	}
	return v.Type
}

// ParseSlice reads the custom form:
//
//	linalg.slice %view[%indexing] {dim = N} : !linalg.view<...>, index|!linalg.range
//
// Errors are reported at the op name. Operands are only resolved once every
// check has passed.
func ParseSlice(p *asm.Parser, state *ir.OperationState) error {
	viewRef, err := p.ParseOperand()
	if err != nil {
		return err
	}
	indexingRefs, err := p.ParseOperandList(asm.DelimiterSquare)
	if err != nil {
		return err
	}
	// The printer emits dim in its own dictionary ahead of the remaining
	// attributes, so accept consecutive dictionaries.
	for p.AtAttrDict() {
		if err := p.ParseOptionalAttrDict(&state.Attributes); err != nil {
			return err
		}
	}
	types, err := p.ParseColonTypeList()
	if err != nil {
		return err
	}

	if len(indexingRefs) != 1 {
		return p.EmitError(p.NameLoc(), "expected 1 indexing type")
	}

	viewType, ok := types[0].(ir.ViewType)
	if !ok {
		return p.EmitError(p.NameLoc(), "view type expected as first type")
	}

	indexingType := types[len(types)-1]
	switch indexingType.(type) {
	case ir.RangeType, ir.IndexType:
	default:
		return p.EmitError(p.NameLoc(), "indexing must be of range or index type")
	}
	if len(types) != 2 {
		return p.EmitError(p.NameLoc(), fmt.Sprintf("expected 2 types, got %d", len(types)))
	}

	resultType, ok := InferSliceType(viewType, indexingType)
	if !ok {
		return p.EmitError(p.NameLoc(), "cannot index into a rank-0 view")
	}

	// dim is an index; a bare literal parses as i64.
	if attr, ok := state.Attributes.Get(SlicingDimAttrName); ok {
		if ia, ok := attr.(ir.IntegerAttr); ok {
			state.Attributes.Set(SlicingDimAttrName, ir.NewIndexAttr(ia.Value))
		}
	}

	if err := p.ResolveOperand(viewRef, viewType, &state.Operands); err != nil {
		return err
	}
	if err := p.ResolveOperand(indexingRefs[0], indexingType, &state.Operands); err != nil {
		return err
	}
	state.AddTypes(resultType)
	return nil
}

// Print writes the custom form. The dim attribute is always printed in its
// fixed position; other attributes follow in a second dictionary. Ops the
// custom form cannot express are printed generically.
func (s SliceOp) Print(p *asm.Printer) {
	op := s.op
	dim, hasDim := s.SlicingDim()
	if !hasDim || !s.hasCustomForm() {
		p.PrintGenericOp(op)
		return
	}
	p.WriteString(SliceOpName)
	p.WriteString(" ")
	p.PrintOperand(s.ParentView())
	p.WriteString("[")
	p.PrintOperand(s.Indexing())
	p.WriteString("]")
	p.WriteString(fmt.Sprintf(" {%s = %d}", SlicingDimAttrName, dim))
	p.PrintOptionalAttrDict(op.Attributes, SlicingDimAttrName)
	p.WriteString(" : ")
	p.PrintType(typeOf(s.ParentView()))
	p.WriteString(", ")
	p.PrintType(typeOf(s.Indexing()))
}

// hasCustomForm reports whether parsing the custom form would rebuild op:
// the result type is implied by the operand types, so it must match.
func (s SliceOp) hasCustomForm() bool {
	op := s.op
	if len(op.Operands) != 2 || len(op.Results) != 1 {
		return false
	}
	parent, ok := typeOf(op.Operands[0]).(ir.ViewType)
	if !ok {
		return false
	}
	want, ok := InferSliceType(parent, typeOf(op.Operands[1]))
	return ok && ir.TypesEqual(op.Results[0].Type, want)
}
