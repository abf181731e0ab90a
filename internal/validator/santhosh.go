package validator

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer renders error kinds. Messages are always produced in English.
var printer = message.NewPrinter(language.English)

// NewSanthoshCompiler returns a concrete implementation of Compiler.
// Using the santhosh-tekuri/jsonschema/v6 package. Schemas without a "$schema"
// keyword are treated as draft 2020-12, and "format" is an assertion.
func NewSanthoshCompiler() Compiler {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft2020)
	c.AssertFormat()
	return &santhoshCompiler{c: c}
}

// ParseJSON decodes a JSON document into the generic form expected by Validate.
// Numbers are kept as json.Number.
func ParseJSON(data []byte) (JSONDocument, error) {
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}

// ParseSchema decodes raw JSON Schema bytes.
func ParseSchema(data []byte) (JSONSchema, error) {
	return ParseJSON(data)
}

// santhoshValidator wraps jsonschema.Schema to implement Validator.
type santhoshValidator struct {
	v *jsonschema.Schema
}

// Validate adapts jsonschema.Schema.Validate to match the Validator interface.
func (sv *santhoshValidator) Validate(doc JSONDocument) error {
	err := sv.v.Validate(doc)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	return &ValidationError{Violations: flatten(verr, nil)}
}

// santhoshCompiler wraps jsonschema.Compiler to implement Compiler.
type santhoshCompiler struct {
	mu sync.Mutex
	c  *jsonschema.Compiler
}

func (s *santhoshCompiler) AddSchema(id string, schemaData JSONSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.AddResource(id, schemaData)
}

func (s *santhoshCompiler) RegisterFormat(f Format) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.RegisterFormat(&jsonschema.Format{Name: f.Name, Validate: f.Check})
}

func (s *santhoshCompiler) Compile(id string) (Validator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, err := s.c.Compile(id)
	if err != nil {
		return nil, err
	}
	return &santhoshValidator{v: v}, nil
}

func (s *santhoshCompiler) SupportedSchemaVersions() []Draft {
	return []Draft{
		Draft7,
		Draft2020_12,
	}
}

// flatten walks the error tree and collects its leaves. Group, allOf and $ref
// errors only carry causes, so they never become violations themselves.
func flatten(e *jsonschema.ValidationError, out []Violation) []Violation {
	if len(e.Causes) > 0 {
		for _, c := range e.Causes {
			out = flatten(c, out)
		}
		return out
	}
	return append(out, toViolation(e))
}

func toViolation(e *jsonschema.ValidationError) Violation {
	v := Violation{
		InstanceLocation: slices.Clone(e.InstanceLocation),
		Keyword:          strings.Join(e.ErrorKind.KeywordPath(), "/"),
		Message:          e.ErrorKind.LocalizedString(printer),
	}

	switch k := e.ErrorKind.(type) {
	case *kind.Type:
		v.Got = k.Got
		v.Want = k.Want
	case *kind.Required:
		v.Properties = k.Missing
	case *kind.AdditionalProperties:
		v.Properties = slices.Sorted(slices.Values(k.Properties))
	case *kind.Pattern:
		v.Got = k.Got
		v.Want = []string{k.Want}
	case *kind.Enum:
		v.Got = k.Got
		for _, w := range k.Want {
			v.Want = append(v.Want, fmt.Sprint(w))
		}
	case *kind.Const:
		v.Got = k.Got
		v.Want = []string{fmt.Sprint(k.Want)}
	case *kind.Format:
		v.Got = k.Got
		v.Format = k.Want
		v.Err = k.Err
	}

	return v
}
