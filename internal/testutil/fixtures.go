// Package testutil provides IR fixtures shared by package tests.
package testutil

import "github.com/roach88/linalg/internal/ir"

// TestFile is the file name recorded in fixture locations.
const TestFile = "test.mlir"

// Loc returns a location in TestFile.
func Loc(line, col int) ir.Location {
	return ir.Location{File: TestFile, Line: line, Col: col}
}

// View returns a module argument holding a rank-rank view of elem.
func View(name string, elem ir.Type, rank int) *ir.Value {
	return ir.NewArgument(name, ir.NewViewType(elem, rank))
}

// Index returns a module argument of index type.
func Index(name string) *ir.Value {
	return ir.NewArgument(name, ir.Index)
}

// Range returns a module argument of range type.
func Range(name string) *ir.Value {
	return ir.NewArgument(name, ir.Range)
}

// GenericOp builds an operation without going through any op builder, so
// tests can construct ops that builders would reject.
func GenericOp(name string, operands []*ir.Value, attrs ir.Attributes, results ...ir.Type) *ir.Operation {
	state := ir.NewOperationState(name, Loc(1, 1))
	state.AddOperands(operands...)
	for _, na := range attrs {
		state.AddAttribute(na.Name, na.Value)
	}
	state.AddTypes(results...)
	return ir.NewOperation(state)
}

// DimAttr returns an attribute list holding only dim = value : index.
func DimAttr(value int64) ir.Attributes {
	return ir.Attributes{{Name: "dim", Value: ir.NewIndexAttr(value)}}
}
