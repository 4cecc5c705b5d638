// Package config loads linalg-opt settings from CUE files.
//
// A config file is unified with the embedded #Config schema, so unknown
// fields and ill-typed values are rejected with CUE positions, and omitted
// fields take the schema defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// Config holds tool settings.
type Config struct {
	Format  string `json:"format"`
	Verbose bool   `json:"verbose"`
	Cache   string `json:"cache"`
	Generic bool   `json:"generic"`
}

// Default returns the schema defaults.
func Default() Config {
	return Config{Format: "text"}
}

// LoadError is a config failure with the CUE position when one is known.
type LoadError struct {
	Path    string
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads and validates the CUE config at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Path: path, Message: fmt.Sprintf("failed to read config: %v", err)}
	}
	return Parse(path, data)
}

// Parse validates src against the schema. path is used in error messages.
func Parse(path string, src []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a build defect.
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}

	v := ctx.CompileBytes(src, cue.Filename(path))
	if err := v.Err(); err != nil {
		return Config{}, toLoadError(path, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, toLoadError(path, err)
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, toLoadError(path, err)
	}
	return cfg, nil
}

// toLoadError extracts position info from CUE errors.
func toLoadError(path string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Path: path, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Path: path, Message: first.Error()}
	for _, pos := range errors.Positions(first) {
		if pos.Filename() == path {
			le.Line = pos.Line()
			break
		}
	}
	return le
}
