package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaValidator checks JSON documents against a JSON schema file
type SchemaValidator interface {
	ValidateBytes(data []byte, schemaPath string) error
}

type schemaValidator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewSchemaValidator creates a validator that compiles each schema once
func NewSchemaValidator() SchemaValidator {
	return &schemaValidator{
		compiled: make(map[string]*jsonschema.Schema),
	}
}

// ValidateBytes validates a JSON document against the schema at schemaPath.
// Relative schema paths are resolved against the module root so callers and
// their tests can both use repo-relative paths.
func (v *schemaValidator) ValidateBytes(data []byte, schemaPath string) error {
	schema, err := v.schemaFor(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaPath, err)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse JSON document: %w", err)
	}

	if err := schema.Validate(doc); err != nil {
		return describeFailure(err)
	}
	return nil
}

func (v *schemaValidator) schemaFor(schemaPath string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.compiled[schemaPath]; ok {
		return schema, nil
	}

	resolved, err := resolveAgainstModuleRoot(schemaPath)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	var schemaDoc interface{}
	if err := json.Unmarshal(raw, &schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaPath, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to register schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	v.compiled[schemaPath] = schema
	return schema, nil
}

// describeFailure flattens the validation error tree into one message with
// the instance location of every leaf failure.
func describeFailure(err error) error {
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validation error: %w", err)
	}

	var lines []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		location := "(root)"
		if len(e.InstanceLocation) > 0 {
			location = "/" + strings.Join(e.InstanceLocation, "/")
		}
		if e.ErrorKind != nil {
			if path := e.ErrorKind.KeywordPath(); len(path) > 0 {
				lines = append(lines, fmt.Sprintf("  - at %s: %s validation failed", location, strings.Join(path, ".")))
			} else {
				lines = append(lines, fmt.Sprintf("  - at %s: validation failed", location))
			}
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(verr)

	return fmt.Errorf("schema validation failed:\n%s", strings.Join(lines, "\n"))
}

// resolveAgainstModuleRoot returns schemaPath as-is when it exists from the
// working directory, otherwise walks parent directories until the one holding
// go.mod and resolves against it. Tests run from package directories, so a
// repo-relative path needs this.
func resolveAgainstModuleRoot(schemaPath string) (string, error) {
	if filepath.IsAbs(schemaPath) {
		return schemaPath, nil
	}
	if _, err := os.Stat(schemaPath); err == nil {
		return schemaPath, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, schemaPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return "", fmt.Errorf("schema file not found: %s", schemaPath)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("schema file not found: %s", schemaPath)
		}
		dir = parent
	}
}
