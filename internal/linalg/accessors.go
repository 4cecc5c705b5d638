package linalg

import "github.com/roach88/linalg/internal/ir"

// SlicingDim returns the value of the dim attribute.
func (s SliceOp) SlicingDim() (int, bool) {
	attr, ok := s.op.Attr(SlicingDimAttrName)
	if !ok {
		return 0, false
	}
	ia, ok := attr.(ir.IntegerAttr)
	if !ok {
		return 0, false
	}
	return int(ia.Value), true
}

// ParentView returns the sliced view.
func (s SliceOp) ParentView() *ir.Value { return s.op.Operand(0) }

// Indexing returns the single indexing operand.
func (s SliceOp) Indexing() *ir.Value { return s.op.Operand(FirstIndexingOperand) }

// Indexings returns all operands after the parent view. Only one is ever
// built; the accessor stays general for ops parsed in generic form.
func (s SliceOp) Indexings() []*ir.Value {
	if len(s.op.Operands) <= FirstIndexingOperand {
		return nil
	}
	return s.op.Operands[FirstIndexingOperand:]
}

// ViewType returns the result view type. It panics on an op whose result is
// not a view; verified ops always have one.
func (s SliceOp) ViewType() ir.ViewType {
	return s.op.Results[0].Type.(ir.ViewType)
}

// Rank returns the rank of the result view.
func (s SliceOp) Rank() int { return s.ViewType().Rank }

// ElementType returns the element type of the result view.
func (s SliceOp) ElementType() ir.Type { return s.ViewType().Elem }

// ParentViewType returns the type of the parent view. It panics if the parent
// is not a view.
func (s SliceOp) ParentViewType() ir.ViewType {
	return s.ParentView().Type.(ir.ViewType)
}

// ParentRank returns the rank of the parent view.
func (s SliceOp) ParentRank() int { return s.ParentViewType().Rank }

// ParentElementType returns the element type of the parent view.
func (s SliceOp) ParentElementType() ir.Type { return s.ParentViewType().Elem }

// IsRankDecreasing reports whether the slice drops a dimension, which is the
// case exactly when it is indexed by an index rather than a range.
func (s SliceOp) IsRankDecreasing() bool {
	return s.ParentRank() != s.Rank()
}
