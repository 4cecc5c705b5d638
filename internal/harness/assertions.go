package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

func checkAssertion(out *Outcome, a Assertion) error {
	switch a.Type {
	case AssertParseError:
		return assertParseError(out, a)
	case AssertVerifyError:
		return assertVerifyError(out, a)
	case AssertValid:
		return assertValid(out)
	case AssertSlice:
		return assertSlice(out, a)
	case AssertRoundTrip:
		return assertRoundTrip(out)
	case AssertOutput:
		return assertOutput(out, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertParseError(out *Outcome, a Assertion) error {
	if out.ParseError == nil {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("parse error %q", a.Message), Actual: "successful parse"}
	}
	if !strings.Contains(out.ParseError.Message, a.Message) {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("parse error %q", a.Message), Actual: fmt.Sprintf("%q", out.ParseError.Message)}
	}
	if a.Line > 0 && out.ParseError.Line != a.Line {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("error on line %d", a.Line), Actual: fmt.Sprintf("line %d", out.ParseError.Line)}
	}
	return nil
}

func assertVerifyError(out *Outcome, a Assertion) error {
	if err := requireParsed(out, a.Type); err != nil {
		return err
	}
	prefix := fmt.Sprintf("ops[%d](", a.Op)
	for _, d := range out.Diagnostics {
		if !strings.HasPrefix(d.Field, prefix) {
			continue
		}
		if a.Code != "" && d.Code != a.Code {
			return &AssertionError{Type: a.Type, Expected: "code " + a.Code, Actual: fmt.Sprintf("%s (%s)", d.Code, d.Message)}
		}
		if a.Message != "" && !strings.Contains(d.Message, a.Message) {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("message %q", a.Message), Actual: fmt.Sprintf("%q", d.Message)}
		}
		return nil
	}
	return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("op %d to fail verification", a.Op), Actual: "op verified"}
}

func assertValid(out *Outcome) error {
	if err := requireParsed(out, AssertValid); err != nil {
		return err
	}
	if len(out.Diagnostics) > 0 {
		msgs := make([]string, len(out.Diagnostics))
		for i, d := range out.Diagnostics {
			msgs[i] = d.Error()
		}
		return &AssertionError{Type: AssertValid, Expected: "no verifier errors", Actual: strings.Join(msgs, "; ")}
	}
	return nil
}

func assertSlice(out *Outcome, a Assertion) error {
	if err := requireParsed(out, a.Type); err != nil {
		return err
	}
	info, ok := out.Slices[a.Op]
	if !ok {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("verified slice op at %d", a.Op), Actual: "none"}
	}
	if a.ResultType != "" && info.ResultType != a.ResultType {
		return &AssertionError{Type: a.Type, Expected: "result type " + a.ResultType, Actual: info.ResultType}
	}
	if a.Rank != nil && info.Rank != *a.Rank {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("rank %d", *a.Rank), Actual: fmt.Sprintf("rank %d", info.Rank)}
	}
	if a.ElementType != "" && info.ElementType != a.ElementType {
		return &AssertionError{Type: a.Type, Expected: "element type " + a.ElementType, Actual: info.ElementType}
	}
	if a.RankDecreasing != nil && info.RankDecreasing != *a.RankDecreasing {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("rank_decreasing=%t", *a.RankDecreasing), Actual: fmt.Sprintf("rank_decreasing=%t", info.RankDecreasing)}
	}
	if a.Dim != nil && info.Dim != *a.Dim {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("dim %d", *a.Dim), Actual: fmt.Sprintf("dim %d", info.Dim)}
	}
	return nil
}

func assertRoundTrip(out *Outcome) error {
	if err := requireParsed(out, AssertRoundTrip); err != nil {
		return err
	}
	if out.ReparseError != "" {
		return &AssertionError{Type: AssertRoundTrip, Expected: "printed output to parse", Actual: out.ReparseError}
	}
	if out.Reprinted != out.Printed {
		return &AssertionError{Type: AssertRoundTrip, Expected: fmt.Sprintf("%q", out.Printed), Actual: fmt.Sprintf("%q", out.Reprinted)}
	}
	return nil
}

func assertOutput(out *Outcome, a Assertion) error {
	if err := requireParsed(out, a.Type); err != nil {
		return err
	}
	want := strings.TrimSpace(a.Text)
	got := strings.TrimSpace(out.Printed)
	if got != want {
		return &AssertionError{Type: a.Type, Expected: fmt.Sprintf("%q", want), Actual: fmt.Sprintf("%q", got)}
	}
	return nil
}

func requireParsed(out *Outcome, typ string) error {
	if out.ParseError != nil {
		return &AssertionError{Type: typ, Expected: "successful parse", Actual: out.ParseError.Error()}
	}
	return nil
}
