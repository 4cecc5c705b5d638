package ir

import "fmt"

// Value is an SSA value: either the result of an operation or a module
// argument introduced by the first use of an undefined name.
type Value struct {
	// Name is the SSA identifier without the leading '%'. Empty names are
	// numbered by the printer.
	Name string

	// Type is fixed when the value is created.
	Type Type

	// DefiningOp is nil for module arguments.
	DefiningOp *Operation

	// ResultIndex is the position in DefiningOp.Results.
	ResultIndex int
}

// NewArgument creates a value that is not defined by any operation.
func NewArgument(name string, typ Type) *Value {
	return &Value{Name: name, Type: typ}
}

func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	if v.Name == "" {
		return fmt.Sprintf("<%s>", v.Type)
	}
	return "%" + v.Name
}

// IsArgument reports whether the value has no defining operation.
func (v *Value) IsArgument() bool {
	return v.DefiningOp == nil
}
