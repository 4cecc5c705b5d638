package ir

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON describing op's
// structure: name, operand types, attributes and result types.
// CRITICAL: This is the ONLY serialization that should be used for
// content-addressed identity computation.
//
// SSA names and locations are deliberately absent: two ops that differ only in
// how their values are spelled have the same identity.
//
// Differences from encoding/json:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping, U+2028/U+2029 emitted literally
//  3. Strings are NFC normalized
func MarshalCanonical(op *Operation) ([]byte, error) {
	if op == nil {
		return nil, fmt.Errorf("nil operation")
	}
	attrs := make(map[string]any, len(op.Attributes))
	for _, na := range op.Attributes {
		v, err := canonicalAttr(na.Value)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", na.Name, err)
		}
		attrs[na.Name] = v
	}
	doc := map[string]any{
		"name":          op.Name,
		"operand_types": typeNames(op.OperandTypes()),
		"attributes":    attrs,
		"result_types":  typeNames(op.ResultTypes()),
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func typeNames(types []Type) []any {
	out := make([]any, len(types))
	for i, t := range types {
		if t == nil {
			out[i] = "<null>"
			continue
		}
		out[i] = t.String()
	}
	return out
}

// canonicalAttr maps an attribute onto JSON-shaped values.
// Integers carry their type so 1 : i32 and 1 : index hash differently.
func canonicalAttr(a Attribute) (any, error) {
	switch val := a.(type) {
	case IntegerAttr:
		typ := I64.String()
		if val.Type != nil {
			typ = val.Type.String()
		}
		return map[string]any{"int": val.Value, "type": typ}, nil
	case StringAttr:
		return string(val), nil
	case BoolAttr:
		return bool(val), nil
	case ArrayAttr:
		out := make([]any, len(val))
		for i, elem := range val {
			v, err := canonicalAttr(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported attribute type: %T", a)
	}
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case string:
		writeCanonicalString(buf, val)
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysRFC8785)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("value for key %q: %w", k, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
	return nil
}

// writeCanonicalString writes an NFC-normalised JSON string. Only the quote,
// the backslash and control characters are escaped.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			fmt.Fprintf(buf, `\u%04x`, r)
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
// CRITICAL: Go's default string comparison uses UTF-8 which produces a
// DIFFERENT order for characters outside the BMP.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}
