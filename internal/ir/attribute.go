package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute is a sealed interface representing compile-time constant data
// attached to an operation.
// Only IntegerAttr, StringAttr, BoolAttr and ArrayAttr implement it.
type Attribute interface {
	irAttribute() // Sealed - only these types implement it
	String() string
}

// IntegerAttr is an integer constant with an integer or index type.
type IntegerAttr struct {
	Value int64
	Type  Type
}

func (IntegerAttr) irAttribute() {}

// String prints the value, followed by its type unless the type is i64 (the
// type a bare integer literal parses to).
func (a IntegerAttr) String() string {
	if a.Type == nil || TypesEqual(a.Type, I64) {
		return strconv.FormatInt(a.Value, 10)
	}
	return fmt.Sprintf("%d : %s", a.Value, a.Type)
}

// StringAttr is a string constant.
type StringAttr string

func (StringAttr) irAttribute() {}

func (a StringAttr) String() string { return strconv.Quote(string(a)) }

// BoolAttr is a boolean constant.
type BoolAttr bool

func (BoolAttr) irAttribute() {}

func (a BoolAttr) String() string { return strconv.FormatBool(bool(a)) }

// ArrayAttr is an ordered list of attributes.
type ArrayAttr []Attribute

func (ArrayAttr) irAttribute() {}

func (a ArrayAttr) String() string {
	parts := make([]string, len(a))
	for i, elem := range a {
		parts[i] = elem.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NewIndexAttr creates an index-typed integer attribute.
func NewIndexAttr(v int64) IntegerAttr {
	return IntegerAttr{Value: v, Type: Index}
}

// NamedAttribute pairs an attribute with its name in an operation's
// attribute dictionary.
type NamedAttribute struct {
	Name  string
	Value Attribute
}

// Attributes is an ordered attribute dictionary. Names are unique; Set
// replaces an existing entry in place so printing order stays stable.
type Attributes []NamedAttribute

// Get returns the attribute with the given name.
func (attrs Attributes) Get(name string) (Attribute, bool) {
	for _, na := range attrs {
		if na.Name == name {
			return na.Value, true
		}
	}
	return nil, false
}

// Has reports whether an attribute with the given name is present.
func (attrs Attributes) Has(name string) bool {
	_, ok := attrs.Get(name)
	return ok
}

// Set adds or replaces the attribute with the given name.
func (attrs *Attributes) Set(name string, value Attribute) {
	for i, na := range *attrs {
		if na.Name == name {
			(*attrs)[i].Value = value
			return
		}
	}
	*attrs = append(*attrs, NamedAttribute{Name: name, Value: value})
}

// Remove deletes the attribute with the given name, if present.
func (attrs *Attributes) Remove(name string) {
	for i, na := range *attrs {
		if na.Name == name {
			*attrs = append((*attrs)[:i], (*attrs)[i+1:]...)
			return
		}
	}
}

// Names returns attribute names in dictionary order.
func (attrs Attributes) Names() []string {
	names := make([]string, len(attrs))
	for i, na := range attrs {
		names[i] = na.Name
	}
	return names
}

// Clone returns a shallow copy that can be mutated independently.
func (attrs Attributes) Clone() Attributes {
	if attrs == nil {
		return nil
	}
	out := make(Attributes, len(attrs))
	copy(out, attrs)
	return out
}
