package ir

import (
	"fmt"
	"strings"
)

// Type is a sealed interface representing IR value types.
// Only IndexType, IntegerType, FloatType, RangeType and ViewType implement it.
type Type interface {
	irType() // Sealed - only these types implement it
	String() string
}

// IndexType is the type of scalar positions along one dimension.
type IndexType struct{}

func (IndexType) irType() {}

func (IndexType) String() string { return "index" }

// IntegerType is a signless integer of the given bit width.
type IntegerType struct {
	Width int
}

func (IntegerType) irType() {}

func (t IntegerType) String() string { return fmt.Sprintf("i%d", t.Width) }

// FloatType is an IEEE float of the given bit width (16, 32 or 64).
type FloatType struct {
	Width int
}

func (FloatType) irType() {}

func (t FloatType) String() string { return fmt.Sprintf("f%d", t.Width) }

// RangeType is the type of contiguous spans along one dimension.
type RangeType struct{}

func (RangeType) irType() {}

func (RangeType) String() string { return "!linalg.range" }

// ViewType is a strided reference to an array of Elem with Rank dimensions.
// Sizes are dynamic and therefore printed as '?'.
type ViewType struct {
	Elem Type
	Rank int
}

func (ViewType) irType() {}

func (t ViewType) String() string {
	var b strings.Builder
	b.WriteString("!linalg.view<")
	for i := 0; i < t.Rank; i++ {
		b.WriteString("?x")
	}
	if t.Elem != nil {
		b.WriteString(t.Elem.String())
	}
	b.WriteByte('>')
	return b.String()
}

// Common types.
var (
	Index = IndexType{}
	Range = RangeType{}
	F16   = FloatType{Width: 16}
	F32   = FloatType{Width: 32}
	F64   = FloatType{Width: 64}
	I1    = IntegerType{Width: 1}
	I32   = IntegerType{Width: 32}
	I64   = IntegerType{Width: 64}
)

// NewViewType returns the view type over elem with the given rank.
func NewViewType(elem Type, rank int) ViewType {
	return ViewType{Elem: elem, Rank: rank}
}

// TypesEqual reports whether two types are structurally identical.
// Two view types are equal iff their element types and ranks match.
func TypesEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// IsElementType reports whether t may appear as the element type of a view.
func IsElementType(t Type) bool {
	switch t.(type) {
	case IntegerType, FloatType, IndexType:
		return true
	default:
		return false
	}
}
