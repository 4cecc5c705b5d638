// Package harness provides conformance testing for linalg IR.
//
// A scenario feeds textual IR through the parser, the verifier and the
// printer and asserts on what comes out.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: slice_index_drops_dim
//	description: "Index slicing drops one dimension"
//	input: |
//	  %r = linalg.slice %v[%i] {dim = 1} : !linalg.view<?x?xf32>, index
//	assertions:
//	  - type: valid
//	  - type: slice
//	    op: 0
//	    result_type: "!linalg.view<?xf32>"
//	    rank_decreasing: true
//	  - type: round_trip
//
// # Assertion Types
//
//   - parse_error: parsing fails with the given message (and line)
//   - verify_error: op N fails verification with the given code and message
//   - valid: every op verifies
//   - slice: slice op N has the given derived properties
//   - round_trip: printing is stable under reparsing
//   - output: the printed module equals the given text
//
// # Golden Files
//
// RunWithGolden additionally compares a text snapshot of the printed module
// and its diagnostics against testdata/golden/{name}.golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/slice.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(ctx, scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, e := range result.Errors {
//	    log.Println(e)
//	}
package harness
