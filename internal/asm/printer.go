package asm

import (
	"strconv"
	"strings"

	"github.com/roach88/linalg/internal/ir"
)

// Printer writes textual IR. Unnamed values get sequential numeric names that
// never collide with names already present in the printed ops.
//
// Printer is not safe for concurrent use.
type Printer struct {
	b       strings.Builder
	table   SyntaxTable
	generic bool

	names map[*ir.Value]string
	used  map[string]bool
	next  int
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithGenericForm prints every op in generic form, even registered ones.
func WithGenericForm() PrinterOption {
	return func(p *Printer) { p.generic = true }
}

// NewPrinter creates a printer that uses table for custom op syntax.
func NewPrinter(table SyntaxTable, opts ...PrinterOption) *Printer {
	p := &Printer{
		table: table,
		names: make(map[*ir.Value]string),
		used:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// String returns everything printed so far.
func (p *Printer) String() string { return p.b.String() }

// WriteString writes s verbatim.
func (p *Printer) WriteString(s string) { p.b.WriteString(s) }

// reserve marks explicit names of values as taken.
func (p *Printer) reserve(ops []*ir.Operation) {
	for _, op := range ops {
		for _, v := range op.Operands {
			if v != nil && v.Name != "" {
				p.used[v.Name] = true
			}
		}
		for _, v := range op.Results {
			if v.Name != "" {
				p.used[v.Name] = true
			}
		}
	}
}

func (p *Printer) nameOf(v *ir.Value) string {
	if v.Name != "" {
		return v.Name
	}
	if n, ok := p.names[v]; ok {
		return n
	}
	for {
		n := strconv.Itoa(p.next)
		p.next++
		if !p.used[n] {
			p.used[n] = true
			p.names[v] = n
			return n
		}
	}
}

// PrintOperand writes %name for v.
func (p *Printer) PrintOperand(v *ir.Value) {
	if v == nil {
		p.b.WriteString("<<NULL VALUE>>")
		return
	}
	p.b.WriteByte('%')
	p.b.WriteString(p.nameOf(v))
}

// PrintOperands writes a comma separated operand list.
func (p *Printer) PrintOperands(vals []*ir.Value) {
	for i, v := range vals {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.PrintOperand(v)
	}
}

// PrintType writes t.
func (p *Printer) PrintType(t ir.Type) {
	if t == nil {
		p.b.WriteString("<<NULL TYPE>>")
		return
	}
	p.b.WriteString(t.String())
}

// PrintAttribute writes a.
func (p *Printer) PrintAttribute(a ir.Attribute) {
	p.b.WriteString(a.String())
}

// PrintOptionalAttrDict writes ` {name = value, ...}` for every attribute not
// listed in elided. Nothing is written when no attribute remains.
func (p *Printer) PrintOptionalAttrDict(attrs ir.Attributes, elided ...string) {
	var shown []ir.NamedAttribute
	for _, na := range attrs {
		skip := false
		for _, e := range elided {
			if na.Name == e {
				skip = true
				break
			}
		}
		if !skip {
			shown = append(shown, na)
		}
	}
	if len(shown) == 0 {
		return
	}
	p.b.WriteString(" {")
	for i, na := range shown {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.b.WriteString(printableKey(na.Name))
		p.b.WriteString(" = ")
		p.PrintAttribute(na.Value)
	}
	p.b.WriteByte('}')
}

// printableKey quotes keys that would not lex back as a bare identifier.
func printableKey(name string) string {
	if name == "" || !(isLetter(name[0]) || name[0] == '_') {
		return strconv.Quote(name)
	}
	for i := 0; i < len(name); i++ {
		if !isBareIDChar(name[i]) {
			return strconv.Quote(name)
		}
	}
	return name
}

// PrintOperation writes op, including result bindings, without a newline.
func (p *Printer) PrintOperation(op *ir.Operation) {
	p.reserve([]*ir.Operation{op})
	p.printOperation(op)
}

func (p *Printer) printOperation(op *ir.Operation) {
	if len(op.Results) > 0 {
		p.PrintOperands(op.Results)
		p.b.WriteString(" = ")
	}
	if !p.generic {
		if syntax, ok := p.lookupSyntax(op.Name); ok {
			syntax.Print(p, op)
			return
		}
	}
	p.PrintGenericOp(op)
}

func (p *Printer) lookupSyntax(name string) (OpSyntax, bool) {
	if p.table == nil {
		return nil, false
	}
	return p.table.LookupSyntax(name)
}

// PrintGenericOp writes `"name"(operands) {attrs} : (types) -> results`.
func (p *Printer) PrintGenericOp(op *ir.Operation) {
	p.b.WriteString(strconv.Quote(op.Name))
	p.b.WriteByte('(')
	p.PrintOperands(op.Operands)
	p.b.WriteByte(')')
	p.PrintOptionalAttrDict(op.Attributes)
	p.b.WriteString(" : (")
	for i, t := range op.OperandTypes() {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.PrintType(t)
	}
	p.b.WriteString(") -> ")
	results := op.ResultTypes()
	if len(results) == 1 {
		p.PrintType(results[0])
		return
	}
	p.b.WriteByte('(')
	for i, t := range results {
		if i > 0 {
			p.b.WriteString(", ")
		}
		p.PrintType(t)
	}
	p.b.WriteByte(')')
}

// PrintModule writes every op on its own line.
func (p *Printer) PrintModule(m *ir.Module) {
	p.reserve(m.Ops)
	for _, op := range m.Ops {
		p.printOperation(op)
		p.b.WriteByte('\n')
	}
}

// Print renders a module with a fresh printer.
func Print(m *ir.Module, table SyntaxTable, opts ...PrinterOption) string {
	p := NewPrinter(table, opts...)
	p.PrintModule(m)
	return p.String()
}

// PrintOp renders a single op with a fresh printer.
func PrintOp(op *ir.Operation, table SyntaxTable, opts ...PrinterOption) string {
	p := NewPrinter(table, opts...)
	p.PrintOperation(op)
	return p.String()
}
