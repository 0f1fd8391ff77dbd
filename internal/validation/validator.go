// Package validation checks raw request payloads against embedded JSON Schemas
// before they are decoded into request types.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names available in the embedded schema folder.
const (
	CreateEventSchema = "create_event"
)

// Error lists every schema violation found in a payload.
type Error struct {
	Problems []string
}

func (e *Error) Error() string {
	return strings.Join(e.Problems, "; ")
}

// Schema is a compiled JSON Schema. It is safe for concurrent use.
type Schema struct {
	name     string
	compiled *jsonschema.Schema
}

// Load compiles the embedded schema with the given name (file name without .json).
func Load(name string) (*Schema, error) {
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", name, err)
	}

	url := "memory://schemas/" + name + ".json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("register schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	return &Schema{name: name, compiled: compiled}, nil
}

// MustLoad is like Load but panics on error. Intended for package-level wiring of embedded schemas.
func MustLoad(name string) *Schema {
	s, err := Load(name)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string {
	return s.name
}

// ValidateJSON checks payload against the schema. It returns an *Error describing every
// violation, or a plain error when the payload is not JSON at all.
func (s *Schema) ValidateJSON(payload []byte) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return &Error{Problems: []string{"request body is required"}}
	}

	var document any
	if err := json.Unmarshal(payload, &document); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	err := s.compiled.Validate(document)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("schema validation: %w", err)
	}
	problems := leafProblems(verr, nil)
	sort.Strings(problems)
	return &Error{Problems: problems}
}

// leafProblems flattens the validation error tree to its most specific causes.
func leafProblems(verr *jsonschema.ValidationError, acc []string) []string {
	if len(verr.Causes) == 0 {
		location := verr.InstanceLocation
		if location == "" {
			location = "body"
		}
		return append(acc, location+": "+verr.Message)
	}
	for _, cause := range verr.Causes {
		acc = leafProblems(cause, acc)
	}
	return acc
}
