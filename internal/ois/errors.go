package ois

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDocument is matched by every error describing a document which failed validation.
var ErrInvalidDocument = errors.New("invalid OIS document")

// FormatError is returned when a primitive value does not have the expected shape.
type FormatError struct {
	Value   string
	Message string
	Pattern string
}

func (e *FormatError) Error() string {
	return e.Message
}

// VersionMismatchError is returned when an oisFormat version is not compatible with
// the reference version of the validator.
type VersionMismatchError struct {
	Got       string
	Reference string
}

func (e *VersionMismatchError) Error() string {
	return fmt.Sprintf("oisFormat %q major.minor version must match major.minor version of %q", e.Got, e.Reference)
}

type ReservedParameterNameError struct {
	Name string
}

func (e *ReservedParameterNameError) Error() string {
	return fmt.Sprintf("%q cannot be used because it is a name of a reserved parameter", e.Name)
}

// InvalidReferenceVersionError is returned by New when the reference version is not semver.
type InvalidReferenceVersionError struct {
	Version string
	Wrapped error
}

func (e *InvalidReferenceVersionError) Error() string {
	return fmt.Sprintf("reference version '%s' is invalid: %v", e.Version, e.Wrapped)
}

func (e *InvalidReferenceVersionError) Unwrap() error {
	return e.Wrapped
}

// IssuesError carries every issue found in a document.
type IssuesError struct {
	Issues []Issue
}

func (e *IssuesError) Error() string {
	lines := make([]string, 0, len(e.Issues))
	for _, i := range e.Issues {
		lines = append(lines, i.String())
	}
	return fmt.Sprintf("%v: %d issue(s)\n%s", ErrInvalidDocument, len(e.Issues), strings.Join(lines, "\n"))
}

func (e *IssuesError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// DecodeError is returned by ValidateJSON when the input bytes are not a JSON document.
type DecodeError struct {
	Wrapped error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("document is not valid JSON: %v", e.Wrapped)
}

func (e *DecodeError) Unwrap() error {
	return e.Wrapped
}
