// Package validator provides interfaces and types for JSON Schema validation.
package validator

import (
	"fmt"
	"strings"
)

// Draft represents a JSON Schema draft version.
type Draft string

const (
	// Draft7 represents JSON Schema Draft 7.
	Draft7 Draft = "http://json-schema.org/draft-07/schema#"
	// Draft2020_12 represents JSON Schema Draft 2020-12.
	Draft2020_12 Draft = "https://json-schema.org/draft/2020-12/schema"
)

// A JSONDocument is a valid parsed JSON Document - i.e. the result of json.Unmarshal().
type JSONDocument interface{}

// A JSONSchema is a valid parsed JSON Document representing a JSON Schema.
// Note that a Compiler must compile the JSONSchema before use which will identify any JSON Schema issues.
type JSONSchema JSONDocument

// Format is a named string format which a schema can reference via the "format" keyword.
// Check is called with the raw instance value and must ignore values of other types.
type Format struct {
	Name  string
	Check func(v any) error
}

// Violation is a single failed assertion of a schema keyword at one location in the instance.
type Violation struct {
	// InstanceLocation holds the JSON pointer tokens of the failing value.
	InstanceLocation []string
	// Keyword is the schema keyword which failed (e.g. "type", "required").
	Keyword string
	// Message is an English description of the failure.
	Message string
	// Got is the offending value, or its JSON type name for "type" failures.
	Got any
	// Want lists the expected types, values or pattern, depending on Keyword.
	Want []string
	// Properties lists missing or unexpected property names.
	Properties []string
	// Format is the format name for "format" failures.
	Format string
	// Err is the error returned by a format check.
	Err error
}

// ValidationError is returned by Validator.Validate when the document violates the schema.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("at '/%s': %s", strings.Join(v.InstanceLocation, "/"), v.Message))
	}
	return fmt.Sprintf("document does not match schema: %s", strings.Join(msgs, "; "))
}

// Validator represents something which can be used to validate a JSON document.
type Validator interface {
	// Validate validates JSON document. Schema violations are reported as a *ValidationError.
	Validate(v JSONDocument) error
}

// Compiler defines a JSON Schema compiler. Formats used by a schema must be registered
// before the schema is compiled.
type Compiler interface {
	// AddSchema registers a JSONSchema with the compiler.
	// An error is produced if the JSONSchema cannot be added.
	AddSchema(id string, data JSONSchema) error

	// RegisterFormat makes a custom format available to schemas compiled afterwards.
	RegisterFormat(f Format)

	// Compile creates a Validator from the JSONSchema previously added with the given ID.
	// An error is produced if the JSONSchema cannot be compiled.
	Compile(id string) (Validator, error)

	// SupportedSchemaVersions returns a slice of Draft representing the supported schema versions.
	SupportedSchemaVersions() []Draft
}
