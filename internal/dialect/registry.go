// Package dialect holds the flat table of op definitions.
//
// Each op kind implements Definition and is registered under its name. The
// textual parser, the printer and the verifier drivers look ops up here
// instead of dispatching through a type hierarchy.
package dialect

import (
	"fmt"
	"sort"

	"github.com/roach88/linalg/internal/asm"
	"github.com/roach88/linalg/internal/ir"
)

// ErrUnregisteredOp is the verification code for ops with no definition.
const ErrUnregisteredOp = "E200"

// Definition is the callback set of one op kind.
type Definition interface {
	asm.OpSyntax

	// Name is the fully qualified op name, e.g. "linalg.slice".
	Name() string

	// Verify checks op without mutating it. It returns nil or an *ir.OpError.
	Verify(op *ir.Operation) error
}

// Registry maps op names to definitions.
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds def. Registering the same name twice is an error.
func (r *Registry) Register(def Definition) error {
	name := def.Name()
	if _, exists := r.defs[name]; exists {
		return fmt.Errorf("op %q is already registered", name)
	}
	r.defs[name] = def
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// LookupSyntax implements asm.SyntaxTable.
func (r *Registry) LookupSyntax(name string) (asm.OpSyntax, bool) {
	def, ok := r.defs[name]
	if !ok {
		return nil, false
	}
	return def, true
}

// Names returns registered op names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Verify runs the op's own verifier. Ops without a definition fail.
func (r *Registry) Verify(op *ir.Operation) error {
	def, ok := r.defs[op.Name]
	if !ok {
		return ir.EmitOpError(op, ErrUnregisteredOp, "is not registered")
	}
	return def.Verify(op)
}
