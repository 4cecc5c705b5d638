package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: a textual IR input plus
// assertions on how it parses, verifies and prints.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Input is the textual IR fed to the parser.
	Input string `yaml:"input"`

	// Generic prints the golden output in generic form.
	Generic bool `yaml:"generic,omitempty"`

	// Assertions validate the outcome.
	// Supported types: parse_error, verify_error, valid, slice, round_trip, output
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of a scenario outcome.
type Assertion struct {
	// Type specifies the assertion type:
	// - "parse_error": parsing fails with Message as a substring, at Line if set
	// - "verify_error": op Op fails verification with Code and Message
	// - "valid": the input parses and every op verifies
	// - "slice": slice op Op has the listed derived properties
	// - "round_trip": print(parse(print(input))) equals print(input)
	// - "output": the printed module equals Text
	Type string `yaml:"type"`

	// Op is the index of the operation in the module (verify_error, slice).
	Op int `yaml:"op,omitempty"`

	// Code is the expected error code (verify_error).
	Code string `yaml:"code,omitempty"`

	// Message is a substring of the expected error (parse_error, verify_error).
	Message string `yaml:"message,omitempty"`

	// Line is the expected 1-based error line (parse_error). Zero skips the check.
	Line int `yaml:"line,omitempty"`

	// Text is the expected printed module (output). Surrounding whitespace is ignored.
	Text string `yaml:"text,omitempty"`

	// Slice expectations. Unset fields are not checked.
	ResultType     string `yaml:"result_type,omitempty"`
	Rank           *int   `yaml:"rank,omitempty"`
	ElementType    string `yaml:"element_type,omitempty"`
	RankDecreasing *bool  `yaml:"rank_decreasing,omitempty"`
	Dim            *int   `yaml:"dim,omitempty"`
}

// Assertion type constants.
const (
	AssertParseError  = "parse_error"
	AssertVerifyError = "verify_error"
	AssertValid       = "valid"
	AssertSlice       = "slice"
	AssertRoundTrip   = "round_trip"
	AssertOutput      = "output"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes a scenario from YAML bytes.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateAssertion(a Assertion) error {
	switch a.Type {
	case AssertParseError:
		if a.Message == "" {
			return fmt.Errorf("parse_error requires message")
		}
	case AssertVerifyError:
		if a.Code == "" && a.Message == "" {
			return fmt.Errorf("verify_error requires code or message")
		}
	case AssertOutput:
		if a.Text == "" {
			return fmt.Errorf("output requires text")
		}
	case AssertValid, AssertSlice, AssertRoundTrip:
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	if a.Op < 0 {
		return fmt.Errorf("op must be non-negative, got %d", a.Op)
	}
	return nil
}
