// Package ois validates Oracle Integration Specification documents.
//
// Validation runs in two phases. The structural phase checks the document against the
// embedded JSON Schema and collects every shape problem. Only when it succeeds is the
// document decoded into a Document and checked by the cross-field Rules.
package ois

import (
	"encoding/json"
	"fmt"

	"github.com/api3dao/ois/internal/validator"
)

// Result is the outcome of validating one document.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`

	// Document is set once the document passed the structural checks.
	Document *Document `json:"-"`
}

// Err returns an *IssuesError when the document is invalid.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &IssuesError{Issues: r.Issues}
}

type options struct {
	reference string
	compiler  validator.Compiler
	rules     []Rule
}

type Option func(*options)

// WithReferenceVersion sets the version whose major.minor every oisFormat must match.
func WithReferenceVersion(v string) Option {
	return func(o *options) { o.reference = v }
}

// WithCompiler sets the JSON Schema compiler used for the structural schema.
func WithCompiler(c validator.Compiler) Option {
	return func(o *options) { o.compiler = c }
}

// WithRules replaces the cross-field rules.
func WithRules(rules ...Rule) Option {
	return func(o *options) { o.rules = rules }
}

// Validator checks OIS documents. It is immutable and safe for concurrent use.
type Validator struct {
	reference string
	schema    validator.Validator
	rules     []Rule
}

// New compiles the structural schema and returns a Validator configured by opts.
func New(opts ...Option) (*Validator, error) {
	o := options{reference: Version, rules: Rules}
	for _, opt := range opts {
		opt(&o)
	}
	if err := ValidateSemver(o.reference); err != nil {
		return nil, &InvalidReferenceVersionError{Version: o.reference, Wrapped: err}
	}
	if o.compiler == nil {
		o.compiler = validator.NewSanthoshCompiler()
	}

	schema, err := compileSchema(o.compiler, o.reference)
	if err != nil {
		return nil, err
	}

	return &Validator{reference: o.reference, schema: schema, rules: o.rules}, nil
}

// ReferenceVersion returns the version documents are checked against.
func (v *Validator) ReferenceVersion() string {
	return v.reference
}

// Validate checks a parsed document such as the result of json.Unmarshal into an any.
// Other values are converted through their JSON encoding. Object keys are visited in
// sorted order, so use ValidateJSON when issue paths must follow document order.
func (v *Validator) Validate(doc any) *Result {
	tree, data, err := normalise(doc)
	if err != nil {
		return &Result{Issues: []Issue{{
			Code:    CodeInvalidType,
			Message: err.Error(),
			Path:    Path{},
		}}}
	}
	return v.validate(tree, data)
}

// ValidateJSON checks a JSON document. An error is returned only when data is not JSON.
func (v *Validator) ValidateJSON(data []byte) (*Result, error) {
	tree, err := validator.ParseJSON(data)
	if err != nil {
		return nil, &DecodeError{Wrapped: err}
	}
	return v.validate(tree, data), nil
}

func (v *Validator) validate(tree any, data []byte) *Result {
	issues, err := structuralIssues(v.schema, tree)
	if err != nil {
		return &Result{Issues: []Issue{{Code: CodeInvalidValue, Message: err.Error(), Path: Path{}}}}
	}
	if len(issues) > 0 {
		return &Result{Issues: issues}
	}

	var doc Document
	if err = json.Unmarshal(data, &doc); err != nil {
		return &Result{Issues: []Issue{{Code: CodeInvalidValue, Message: err.Error(), Path: Path{}}}}
	}

	issues = ApplyRules(&doc, v.rules)
	if len(issues) > 0 {
		return &Result{Document: &doc, Issues: issues}
	}
	return &Result{Valid: true, Document: &doc, Issues: []Issue{}}
}

// normalise returns doc as a generic JSON tree together with its JSON encoding.
func normalise(doc any) (any, []byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("document cannot be encoded as JSON: %w", err)
	}
	tree, err := validator.ParseJSON(data)
	if err != nil {
		return nil, nil, err
	}
	return tree, data, nil
}
