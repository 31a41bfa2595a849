// Package schema wraps github.com/santhosh-tekuri/jsonschema/v6 for
// validating a merged document body against a kind's declared JSON Schema,
// the same Compile-then-Validate shape the rest of the example stack uses
// this library for.
package schema

import (
	"bytes"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema is a compiled JSON Schema bound to a fixed resource name, ready to
// validate plain Go values produced by value.ToPlain.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile parses and compiles a JSON Schema document. name is used only as
// the internal resource identifier for $ref resolution within schemaJSON; it
// need not correspond to a real file.
func Compile(name string, schemaJSON []byte) (*Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("configcrunch/schema: parsing schema %q: %w", name, err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("configcrunch/schema: adding schema resource %q: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("configcrunch/schema: compiling schema %q: %w", name, err)
	}
	return &Schema{compiled: compiled}, nil
}

// MustCompile is Compile for kind registrations performed in package init
// functions, where a malformed schema is a programmer error.
func MustCompile(name string, schemaJSON []byte) *Schema {
	s, err := Compile(name, schemaJSON)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a plain Go value (as produced by value.ToPlain) against
// the compiled schema.
func (s *Schema) Validate(instance any) error {
	return s.compiled.Validate(instance)
}
