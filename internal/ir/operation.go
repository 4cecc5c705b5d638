package ir

import "fmt"

// Location identifies a position in textual IR.
type Location struct {
	File string `json:"file,omitempty"`
	Line int    `json:"line"`
	Col  int    `json:"col"`
}

// IsValid reports whether the location carries a line number.
func (l Location) IsValid() bool {
	return l.Line > 0
}

func (l Location) String() string {
	if !l.IsValid() {
		return "<unknown>"
	}
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// OperationState accumulates everything needed to create an Operation.
// Build functions and custom parsers fill it in; NewOperation freezes it.
type OperationState struct {
	Name       string
	Loc        Location
	Operands   []*Value
	Attributes Attributes
	Types      []Type
}

// NewOperationState starts an empty state for the named op.
func NewOperationState(name string, loc Location) *OperationState {
	return &OperationState{Name: name, Loc: loc}
}

// AddOperands appends operands.
func (s *OperationState) AddOperands(vals ...*Value) {
	s.Operands = append(s.Operands, vals...)
}

// AddAttribute sets a named attribute.
func (s *OperationState) AddAttribute(name string, value Attribute) {
	s.Attributes.Set(name, value)
}

// AddTypes appends result types.
func (s *OperationState) AddTypes(types ...Type) {
	s.Types = append(s.Types, types...)
}

// Operation is a generic operation instance: a name, operands, an attribute
// dictionary and typed results.
type Operation struct {
	Name       string
	Loc        Location
	Operands   []*Value
	Attributes Attributes
	Results    []*Value
}

// NewOperation materialises an operation from state, creating one result
// value per result type. The state's slices are copied.
func NewOperation(state *OperationState) *Operation {
	op := &Operation{
		Name:       state.Name,
		Loc:        state.Loc,
		Operands:   append([]*Value(nil), state.Operands...),
		Attributes: state.Attributes.Clone(),
	}
	op.Results = make([]*Value, len(state.Types))
	for i, t := range state.Types {
		op.Results[i] = &Value{Type: t, DefiningOp: op, ResultIndex: i}
	}
	return op
}

// Operand returns operand i, or nil if out of range.
func (op *Operation) Operand(i int) *Value {
	if i < 0 || i >= len(op.Operands) {
		return nil
	}
	return op.Operands[i]
}

// Result returns result i, or nil if out of range.
func (op *Operation) Result(i int) *Value {
	if i < 0 || i >= len(op.Results) {
		return nil
	}
	return op.Results[i]
}

// Attr returns the named attribute.
func (op *Operation) Attr(name string) (Attribute, bool) {
	return op.Attributes.Get(name)
}

// OperandTypes returns the types of all operands.
func (op *Operation) OperandTypes() []Type {
	types := make([]Type, len(op.Operands))
	for i, v := range op.Operands {
		if v != nil {
			types[i] = v.Type
		}
	}
	return types
}

// ResultTypes returns the types of all results.
func (op *Operation) ResultTypes() []Type {
	types := make([]Type, len(op.Results))
	for i, v := range op.Results {
		types[i] = v.Type
	}
	return types
}

// Module is an ordered list of operations parsed from one source.
type Module struct {
	File string
	Ops  []*Operation

	// Arguments are values used before (or without) being defined, in order of
	// first use.
	Arguments []*Value
}
