// Package linalg implements the linalg dialect ops over views.
//
// Currently the dialect has one op, linalg.slice. Its custom syntax is
//
//	%r = linalg.slice %view[%i] {dim = 0} : !linalg.view<?x?xf32>, index
//
// where %view holds a !linalg.view<?x?xf32> and %i holds an index (producing
// a !linalg.view<?xf32>) or a !linalg.range (producing a view of the parent's
// type).
package linalg

import (
	"github.com/roach88/linalg/internal/asm"
	"github.com/roach88/linalg/internal/dialect"
	"github.com/roach88/linalg/internal/ir"
)

// sliceDefinition adapts SliceOp to the registry callbacks.
type sliceDefinition struct{}

func (sliceDefinition) Name() string { return SliceOpName }

func (sliceDefinition) Verify(op *ir.Operation) error {
	s, ok := AsSlice(op)
	if !ok {
		return ir.EmitOpError(op, dialect.ErrUnregisteredOp, "is not a "+SliceOpName+" op")
	}
	return s.Verify()
}

func (sliceDefinition) Parse(p *asm.Parser, state *ir.OperationState) error {
	return ParseSlice(p, state)
}

func (sliceDefinition) Print(p *asm.Printer, op *ir.Operation) {
	if s, ok := AsSlice(op); ok {
		s.Print(p)
		return
	}
	p.PrintGenericOp(op)
}

// Register adds every linalg op to r.
func Register(r *dialect.Registry) error {
	return r.Register(sliceDefinition{})
}

// NewRegistry returns a registry with the linalg dialect loaded.
func NewRegistry() *dialect.Registry {
	r := dialect.NewRegistry()
	if err := Register(r); err != nil {
		panic(err)
	}
	return r
}
