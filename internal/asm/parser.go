package asm

import (
	"fmt"
	"strings"

	"github.com/roach88/linalg/internal/ir"
)

// SyntaxError is a parse failure located in the source text.
type SyntaxError struct {
	Loc     ir.Location
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Message)
}

// OpSyntax is the custom textual form of one op kind.
//
// Parse is called with the parser positioned just after the op name and must
// fill state with operands, attributes and result types. Print writes the op
// starting with its name; result bindings are already printed.
type OpSyntax interface {
	Parse(p *Parser, state *ir.OperationState) error
	Print(p *Printer, op *ir.Operation)
}

// SyntaxTable resolves op names to their custom syntax.
type SyntaxTable interface {
	LookupSyntax(name string) (OpSyntax, bool)
}

// Delimiter selects the brackets around an operand list.
type Delimiter int

const (
	DelimiterNone Delimiter = iota
	DelimiterParen
	DelimiterSquare
)

// OperandRef is an unresolved use of an SSA name.
type OperandRef struct {
	Name string
	Pos  Pos
}

// Parser reads textual IR. It keeps a module-wide symbol table; values used
// before being defined become module arguments.
//
// Parser is not safe for concurrent use.
type Parser struct {
	file    string
	lex     *Lexer
	tok     Token
	table   SyntaxTable
	nameLoc Pos

	symbols map[string]*ir.Value
	// pending holds module arguments declared while parsing the current op.
	// They become visible only when the op parses successfully.
	pending []*ir.Value
	args    []*ir.Value
}

// NewParser creates a parser over src. file is used in error locations only.
func NewParser(file, src string, table SyntaxTable) *Parser {
	p := &Parser{
		file:    file,
		lex:     NewLexer(src),
		table:   table,
		symbols: make(map[string]*ir.Value),
	}
	p.tok = p.lex.Next()
	return p
}

// Token returns the current token.
func (p *Parser) Token() Token { return p.tok }

func (p *Parser) next() Token {
	prev := p.tok
	p.tok = p.lex.Next()
	return prev
}

// consume advances past the current token if it has kind k.
func (p *Parser) consume(k Kind) bool {
	if p.tok.Kind != k {
		return false
	}
	p.next()
	return true
}

func (p *Parser) expect(k Kind, context string) error {
	if p.consume(k) {
		return nil
	}
	return p.EmitError(p.tok.Pos, fmt.Sprintf("expected %s %s", k, context))
}

// Loc converts a source position to an IR location.
func (p *Parser) Loc(pos Pos) ir.Location {
	return ir.Location{File: p.file, Line: pos.Line, Col: pos.Col}
}

// NameLoc returns the position of the name of the op being parsed.
func (p *Parser) NameLoc() Pos { return p.nameLoc }

// EmitError creates a located syntax error.
func (p *Parser) EmitError(pos Pos, message string) error {
	return &SyntaxError{Loc: p.Loc(pos), Message: message}
}

// ParseOperand parses one SSA use: %name.
func (p *Parser) ParseOperand() (OperandRef, error) {
	if !p.tok.Is(PercentIdentifier) {
		return OperandRef{}, p.EmitError(p.tok.Pos, "expected SSA operand")
	}
	tok := p.next()
	return OperandRef{Name: tok.Spelling[1:], Pos: tok.Pos}, nil
}

// ParseOperandList parses a comma separated operand list inside the given
// delimiters. The list may be empty; callers check the count they need.
func (p *Parser) ParseOperandList(delim Delimiter) ([]OperandRef, error) {
	var closing Kind
	switch delim {
	case DelimiterParen:
		if err := p.expect(LParen, "in operand list"); err != nil {
			return nil, err
		}
		closing = RParen
	case DelimiterSquare:
		if err := p.expect(LSquare, "in operand list"); err != nil {
			return nil, err
		}
		closing = RSquare
	}

	var refs []OperandRef
	if delim == DelimiterNone && !p.tok.Is(PercentIdentifier) {
		return nil, nil
	}
	if delim == DelimiterNone || !p.tok.Is(closing) {
		for {
			ref, err := p.ParseOperand()
			if err != nil {
				return nil, err
			}
			refs = append(refs, ref)
			if !p.consume(Comma) {
				break
			}
		}
	}
	if delim != DelimiterNone {
		if err := p.expect(closing, "in operand list"); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

// AtAttrDict reports whether an attribute dictionary starts here.
func (p *Parser) AtAttrDict() bool { return p.tok.Is(LBrace) }

// ParseOptionalAttrDict parses `{name = attr, ...}` into attrs if the current
// token opens a dictionary. Keys may be bare identifiers or strings. A key
// already present in attrs is an error.
func (p *Parser) ParseOptionalAttrDict(attrs *ir.Attributes) error {
	if !p.consume(LBrace) {
		return nil
	}
	if p.consume(RBrace) {
		return nil
	}
	for {
		keyTok := p.tok
		var key string
		switch {
		case keyTok.IsAny(BareIdentifier, IntType) || keyTok.IsKeyword():
			key = keyTok.Spelling
		case keyTok.Is(String):
			s, err := keyTok.StringValue()
			if err != nil {
				return p.EmitError(keyTok.Pos, "invalid string literal")
			}
			key = s
		default:
			return p.EmitError(keyTok.Pos, "expected attribute name")
		}
		p.next()
		if attrs.Has(key) {
			return p.EmitError(keyTok.Pos, fmt.Sprintf("duplicate key '%s' in dictionary attribute", key))
		}
		if err := p.expect(Equal, "in attribute dictionary"); err != nil {
			return err
		}
		value, err := p.ParseAttribute()
		if err != nil {
			return err
		}
		attrs.Set(key, value)
		if !p.consume(Comma) {
			break
		}
	}
	return p.expect(RBrace, "in attribute dictionary")
}

// ParseAttribute parses an attribute value: an integer with optional
// `: type`, a string, true/false, or a bracketed list.
func (p *Parser) ParseAttribute() (ir.Attribute, error) {
	switch p.tok.Kind {
	case Integer:
		tok := p.next()
		v, ok := tok.IntegerValue()
		if !ok {
			return nil, p.EmitError(tok.Pos, "integer constant out of range for attribute")
		}
		var typ ir.Type = ir.I64
		if p.consume(Colon) {
			t, err := p.ParseType()
			if err != nil {
				return nil, err
			}
			switch t.(type) {
			case ir.IntegerType, ir.IndexType:
			default:
				return nil, p.EmitError(tok.Pos, fmt.Sprintf("integer literal not valid for specified type '%s'", t))
			}
			typ = t
		}
		return ir.IntegerAttr{Value: v, Type: typ}, nil
	case String:
		tok := p.next()
		s, err := tok.StringValue()
		if err != nil {
			return nil, p.EmitError(tok.Pos, "invalid string literal")
		}
		return ir.StringAttr(s), nil
	case KwTrue:
		p.next()
		return ir.BoolAttr(true), nil
	case KwFalse:
		p.next()
		return ir.BoolAttr(false), nil
	case LSquare:
		p.next()
		arr := ir.ArrayAttr{}
		if p.consume(RSquare) {
			return arr, nil
		}
		for {
			elem, err := p.ParseAttribute()
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
			if !p.consume(Comma) {
				break
			}
		}
		if err := p.expect(RSquare, "in array attribute"); err != nil {
			return nil, err
		}
		return arr, nil
	default:
		return nil, p.EmitError(p.tok.Pos, "expected attribute value")
	}
}

// ParseType parses a builtin or linalg type.
func (p *Parser) ParseType() (ir.Type, error) {
	tok := p.tok
	switch tok.Kind {
	case KwIndex:
		p.next()
		return ir.Index, nil
	case KwF16:
		p.next()
		return ir.F16, nil
	case KwF32:
		p.next()
		return ir.F32, nil
	case KwF64:
		p.next()
		return ir.F64, nil
	case IntType:
		p.next()
		w, ok := tok.IntTypeBitwidth()
		if !ok {
			return nil, p.EmitError(tok.Pos, "invalid integer width")
		}
		return ir.IntegerType{Width: w}, nil
	case ExclamationIdentifier:
		p.next()
		return p.parseDialectType(tok)
	default:
		return nil, p.EmitError(tok.Pos, "expected type")
	}
}

// parseDialectType interprets !linalg.range and !linalg.view<?x...xELEM>.
// View sizes are always dynamic.
func (p *Parser) parseDialectType(tok Token) (ir.Type, error) {
	spelling := tok.Spelling
	if spelling == "!linalg.range" {
		return ir.Range, nil
	}
	body, ok := strings.CutPrefix(spelling, "!linalg.view<")
	if !ok || !strings.HasSuffix(body, ">") {
		return nil, p.EmitError(tok.Pos, fmt.Sprintf("unknown type '%s'", spelling))
	}
	body = strings.TrimSuffix(body, ">")
	rank := 0
	for strings.HasPrefix(body, "?x") {
		body = body[2:]
		rank++
	}
	elem, err := parseElementType(body)
	if err != nil {
		return nil, p.EmitError(tok.Pos, fmt.Sprintf("invalid view type '%s': %v", spelling, err))
	}
	return ir.NewViewType(elem, rank), nil
}

func parseElementType(s string) (ir.Type, error) {
	lex := NewLexer(s)
	tok := lex.Next()
	if rest := lex.Next(); !rest.Is(EOF) {
		return nil, fmt.Errorf("expected '?' or element type, got %q", s)
	}
	switch tok.Kind {
	case KwIndex:
		return ir.Index, nil
	case KwF16:
		return ir.F16, nil
	case KwF32:
		return ir.F32, nil
	case KwF64:
		return ir.F64, nil
	case IntType:
		if w, ok := tok.IntTypeBitwidth(); ok {
			return ir.IntegerType{Width: w}, nil
		}
	}
	return nil, fmt.Errorf("expected '?' or element type, got %q", s)
}

// ParseColonTypeList parses `: type (, type)*`.
func (p *Parser) ParseColonTypeList() ([]ir.Type, error) {
	if err := p.expect(Colon, "before type list"); err != nil {
		return nil, err
	}
	return p.parseTypeList()
}

func (p *Parser) parseTypeList() ([]ir.Type, error) {
	var types []ir.Type
	for {
		t, err := p.ParseType()
		if err != nil {
			return nil, err
		}
		types = append(types, t)
		if !p.consume(Comma) {
			return types, nil
		}
	}
}

// ResolveOperand binds ref to a value of type typ and appends it to operands.
// The first use of an undefined name declares a module argument of that type;
// later uses must agree on the type.
func (p *Parser) ResolveOperand(ref OperandRef, typ ir.Type, operands *[]*ir.Value) error {
	if v, ok := p.symbols[ref.Name]; ok {
		if !ir.TypesEqual(v.Type, typ) {
			return p.EmitError(ref.Pos, fmt.Sprintf(
				"use of value '%%%s' expects different type than prior uses: '%s' vs '%s'",
				ref.Name, typ, v.Type))
		}
		*operands = append(*operands, v)
		return nil
	}
	v := ir.NewArgument(ref.Name, typ)
	p.symbols[ref.Name] = v
	p.pending = append(p.pending, v)
	*operands = append(*operands, v)
	return nil
}

// ResolveOperands resolves every ref to the same type.
func (p *Parser) ResolveOperands(refs []OperandRef, typ ir.Type, operands *[]*ir.Value) error {
	for _, ref := range refs {
		if err := p.ResolveOperand(ref, typ, operands); err != nil {
			return err
		}
	}
	return nil
}

// rollback forgets arguments declared by a failed op parse.
func (p *Parser) rollback() {
	for _, v := range p.pending {
		delete(p.symbols, v.Name)
	}
	p.pending = nil
}

func (p *Parser) commit() {
	p.args = append(p.args, p.pending...)
	p.pending = nil
}

// ParseOperation parses one op with optional result bindings.
// On failure, nothing the op declared remains in the symbol table.
func (p *Parser) ParseOperation() (*ir.Operation, error) {
	op, err := p.parseOperation()
	if err != nil {
		p.rollback()
		return nil, err
	}
	p.commit()
	return op, nil
}

func (p *Parser) parseOperation() (*ir.Operation, error) {
	var results []OperandRef
	if p.tok.Is(PercentIdentifier) {
		refs, err := p.ParseOperandList(DelimiterNone)
		if err != nil {
			return nil, err
		}
		if err := p.expect(Equal, "after SSA result names"); err != nil {
			return nil, err
		}
		results = refs
	}

	p.nameLoc = p.tok.Pos
	var state *ir.OperationState
	switch p.tok.Kind {
	case BareIdentifier:
		name := p.tok.Spelling
		syntax, ok := p.lookupSyntax(name)
		if !ok {
			return nil, p.EmitError(p.nameLoc, fmt.Sprintf("custom op '%s' is unknown", name))
		}
		p.next()
		state = ir.NewOperationState(name, p.Loc(p.nameLoc))
		if err := syntax.Parse(p, state); err != nil {
			return nil, err
		}
	case String:
		tok := p.next()
		name, err := tok.StringValue()
		if err != nil || name == "" {
			return nil, p.EmitError(tok.Pos, "invalid operation name")
		}
		state = ir.NewOperationState(name, p.Loc(p.nameLoc))
		if err := p.parseGenericBody(state); err != nil {
			return nil, err
		}
	default:
		return nil, p.EmitError(p.nameLoc, "expected operation name")
	}

	if len(results) != len(state.Types) {
		return nil, p.EmitError(p.nameLoc, fmt.Sprintf(
			"operation defines %d results but was provided %d to bind", len(state.Types), len(results)))
	}
	for _, ref := range results {
		if _, exists := p.symbols[ref.Name]; exists {
			return nil, p.EmitError(ref.Pos, fmt.Sprintf("redefinition of SSA value '%%%s'", ref.Name))
		}
	}

	op := ir.NewOperation(state)
	for i, ref := range results {
		op.Results[i].Name = ref.Name
		p.symbols[ref.Name] = op.Results[i]
	}
	return op, nil
}

func (p *Parser) lookupSyntax(name string) (OpSyntax, bool) {
	if p.table == nil {
		return nil, false
	}
	return p.table.LookupSyntax(name)
}

// parseGenericBody parses `(operands) {attrs}? : (types) -> results`.
func (p *Parser) parseGenericBody(state *ir.OperationState) error {
	refs, err := p.ParseOperandList(DelimiterParen)
	if err != nil {
		return err
	}
	if err := p.ParseOptionalAttrDict(&state.Attributes); err != nil {
		return err
	}
	if err := p.expect(Colon, "before function type"); err != nil {
		return err
	}
	typesPos := p.tok.Pos
	if err := p.expect(LParen, "in function type"); err != nil {
		return err
	}
	var inputs []ir.Type
	if !p.consume(RParen) {
		inputs, err = p.parseTypeList()
		if err != nil {
			return err
		}
		if err := p.expect(RParen, "in function type"); err != nil {
			return err
		}
	}
	if err := p.expect(Arrow, "in function type"); err != nil {
		return err
	}
	var outputs []ir.Type
	if p.consume(LParen) {
		if !p.consume(RParen) {
			outputs, err = p.parseTypeList()
			if err != nil {
				return err
			}
			if err := p.expect(RParen, "in function type"); err != nil {
				return err
			}
		}
	} else {
		t, err := p.ParseType()
		if err != nil {
			return err
		}
		outputs = []ir.Type{t}
	}

	if len(inputs) != len(refs) {
		return p.EmitError(typesPos, fmt.Sprintf("expected %d operand types but had %d", len(refs), len(inputs)))
	}
	for i, ref := range refs {
		if err := p.ResolveOperand(ref, inputs[i], &state.Operands); err != nil {
			return err
		}
	}
	state.AddTypes(outputs...)
	return nil
}

// ParseModule parses a sequence of operations. Parsing stops at the first
// error, which is returned with its location.
func ParseModule(file, src string, table SyntaxTable) (*ir.Module, error) {
	p := NewParser(file, src, table)
	m := &ir.Module{File: file}
	for !p.tok.Is(EOF) {
		if p.tok.Is(Error) {
			return nil, p.EmitError(p.tok.Pos, fmt.Sprintf("unexpected character %q", p.tok.Spelling))
		}
		op, err := p.ParseOperation()
		if err != nil {
			return nil, err
		}
		m.Ops = append(m.Ops, op)
	}
	m.Arguments = p.args
	return m, nil
}

// ParseSingleOperation parses src as exactly one operation.
func ParseSingleOperation(file, src string, table SyntaxTable) (*ir.Operation, error) {
	p := NewParser(file, src, table)
	op, err := p.ParseOperation()
	if err != nil {
		return nil, err
	}
	if !p.tok.Is(EOF) {
		return nil, p.EmitError(p.tok.Pos, "expected end of input after operation")
	}
	return op, nil
}
