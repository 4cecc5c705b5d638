package harness

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot renders the parts of an outcome that golden files pin down: the
// printed module (generic form if the scenario asks for it) followed by the
// diagnostics as IR comments, or the syntax error if parsing failed.
func Snapshot(scenario *Scenario, out Outcome) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "// scenario: %s\n", scenario.Name)

	if out.ParseError != nil {
		fmt.Fprintf(&b, "// %s\n", out.ParseError.Error())
		return []byte(b.String())
	}

	if scenario.Generic {
		b.WriteString(out.Generic)
	} else {
		b.WriteString(out.Printed)
	}
	for _, d := range out.Diagnostics {
		fmt.Fprintf(&b, "// %s\n", d.Error())
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Assertion failures and golden
// mismatches fail t.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}
	AssertGolden(t, scenario, result)
	return result, nil
}

// AssertGolden compares an already computed result against the scenario's
// golden file.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, Snapshot(scenario, result.Outcome))
}
