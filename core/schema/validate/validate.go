// Package validate checks run request files against the embedded JSON
// Schema before the CLI decodes them. Library callers may skip validation;
// the engine itself stays lenient about missing payload keys.
package validate

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/kaptinlin/jsonschema"
)

//go:embed run_request.schema.json
var runRequestSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// ValidateRunRequest validates raw request JSON against the run request
// schema.
func ValidateRunRequest(data []byte) error {
	schema, err := runRequest()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("schema validation failed: %v", result.Errors)
}

// ValidateRunRequestFile validates a run request file on disk.
func ValidateRunRequestFile(path string) error {
	// #nosec G304 -- request path is explicit local user input.
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	return ValidateRunRequest(data)
}

func runRequest() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		compiled, compileErr = compiler.Compile(runRequestSchema)
	})
	if compileErr != nil {
		return nil, fmt.Errorf("compile run request schema: %w", compileErr)
	}
	return compiled, nil
}
