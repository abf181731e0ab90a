package ois

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Document is a structurally valid OIS document.
type Document struct {
	OISFormat         string           `json:"oisFormat"`
	Title             string           `json:"title"`
	Version           string           `json:"version"`
	APISpecifications APISpecification `json:"apiSpecifications"`
	Endpoints         []Endpoint       `json:"endpoints"`
}

type APISpecification struct {
	Components Components `json:"components"`
	Paths      Paths      `json:"paths"`
	Servers    []Server   `json:"servers"`
	Security   Security   `json:"security"`
}

type Server struct {
	URL string `json:"url"`
}

type Components struct {
	SecuritySchemes SecuritySchemes `json:"securitySchemes"`
}

// ParameterTarget is the location of an operation parameter in the HTTP request.
type ParameterTarget string

const (
	TargetPath       ParameterTarget = "path"
	TargetQuery      ParameterTarget = "query"
	TargetHeader     ParameterTarget = "header"
	TargetCookie     ParameterTarget = "cookie"
	TargetProcessing ParameterTarget = "processing"
)

type Method string

const (
	MethodGet  Method = "get"
	MethodPost Method = "post"
)

// OperationParameter identifies a parameter of an API operation by location and name.
type OperationParameter struct {
	In   ParameterTarget `json:"in"`
	Name string          `json:"name"`
}

func (p OperationParameter) String() string {
	return fmt.Sprintf("%s:%s", p.In, p.Name)
}

type Operation struct {
	Parameters []OperationParameter `json:"parameters"`
}

// HasParameter reports whether the operation declares p.
func (o Operation) HasParameter(p OperationParameter) bool {
	return slices.Contains(o.Parameters, p)
}

// OperationEntry is one method of a path.
type OperationEntry struct {
	Method    Method
	Operation Operation
}

// PathEntry is one path template of apiSpecifications.paths with its methods in document order.
type PathEntry struct {
	Path       string
	Operations []OperationEntry
}

// Paths keeps the paths of apiSpecifications in the order they were declared.
type Paths []PathEntry

// Lookup returns the operation declared for path and method.
func (p Paths) Lookup(path string, method Method) (Operation, bool) {
	for _, entry := range p {
		if entry.Path != path {
			continue
		}
		for _, op := range entry.Operations {
			if op.Method == method {
				return op.Operation, true
			}
		}
	}
	return Operation{}, false
}

func (p *Paths) UnmarshalJSON(data []byte) error {
	var out Paths
	err := decodeOrderedObject(data, func(path string, raw json.RawMessage) error {
		entry := PathEntry{Path: path}
		err := decodeOrderedObject(raw, func(method string, raw json.RawMessage) error {
			var op Operation
			if err := json.Unmarshal(raw, &op); err != nil {
				return err
			}
			entry.Operations = append(entry.Operations, OperationEntry{Method: Method(method), Operation: op})
			return nil
		})
		out = append(out, entry)
		return err
	})
	if err != nil {
		return err
	}
	*p = out
	return nil
}

func (p Paths) MarshalJSON() ([]byte, error) {
	var b orderedObjectBuilder
	for _, entry := range p {
		var ops orderedObjectBuilder
		for _, op := range entry.Operations {
			if err := ops.add(string(op.Method), op.Operation); err != nil {
				return nil, err
			}
		}
		if err := b.addRaw(entry.Path, ops.bytes()); err != nil {
			return nil, err
		}
	}
	return b.bytes(), nil
}

// Security is the list of enabled security scheme names in document order.
type Security []string

func (s *Security) UnmarshalJSON(data []byte) error {
	out := Security{}
	err := decodeOrderedObject(data, func(name string, _ json.RawMessage) error {
		out = append(out, name)
		return nil
	})
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func (s Security) MarshalJSON() ([]byte, error) {
	var b orderedObjectBuilder
	for _, name := range s {
		if err := b.addRaw(name, []byte("[]")); err != nil {
			return nil, err
		}
	}
	return b.bytes(), nil
}

// SecurityScheme is one of the security scheme variants, selected by its type.
type SecurityScheme interface {
	SchemeType() string
}

type APIKeySecurityScheme struct {
	Type string `json:"type"`
	In   string `json:"in"`
	Name string `json:"name"`
}

func (s *APIKeySecurityScheme) SchemeType() string { return s.Type }

type HTTPSecurityScheme struct {
	Type   string `json:"type"`
	Scheme string `json:"scheme"`
}

func (s *HTTPSecurityScheme) SchemeType() string { return s.Type }

// RelaySecurityScheme forwards request metadata to the API.
type RelaySecurityScheme struct {
	Type string `json:"type"`
	In   string `json:"in"`
	Name string `json:"name"`
}

func (s *RelaySecurityScheme) SchemeType() string { return s.Type }

// RelaySecuritySchemeTypes lists the type tags of RelaySecurityScheme.
var RelaySecuritySchemeTypes = []string{
	"relayChainId",
	"relayChainType",
	"relayRequesterAddress",
	"relaySponsorAddress",
	"relaySponsorWalletAddress",
	"relayRequestId",
}

type UnknownSecuritySchemeTypeError struct {
	Type string
}

func (e *UnknownSecuritySchemeTypeError) Error() string {
	return fmt.Sprintf("unknown security scheme type '%s'", e.Type)
}

// SecuritySchemes maps scheme names to schemes.
type SecuritySchemes map[string]SecurityScheme

func (s *SecuritySchemes) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(SecuritySchemes, len(raw))
	for name, r := range raw {
		scheme, err := decodeSecurityScheme(r)
		if err != nil {
			return fmt.Errorf("security scheme %s: %w", name, err)
		}
		out[name] = scheme
	}
	*s = out
	return nil
}

func decodeSecurityScheme(data []byte) (SecurityScheme, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}

	var scheme SecurityScheme
	switch {
	case tag.Type == "apiKey":
		scheme = &APIKeySecurityScheme{}
	case tag.Type == "http":
		scheme = &HTTPSecurityScheme{}
	case slices.Contains(RelaySecuritySchemeTypes, tag.Type):
		scheme = &RelaySecurityScheme{}
	default:
		return nil, &UnknownSecuritySchemeTypeError{Type: tag.Type}
	}
	if err := json.Unmarshal(data, scheme); err != nil {
		return nil, err
	}
	return scheme, nil
}

type EndpointOperation struct {
	Method Method `json:"method"`
	Path   string `json:"path"`
}

type EndpointParameter struct {
	Name               string              `json:"name"`
	OperationParameter *OperationParameter `json:"operationParameter,omitempty"`
	Description        *string             `json:"description,omitempty"`
	Example            *string             `json:"example,omitempty"`
	Default            *string             `json:"default,omitempty"`
	Required           *bool               `json:"required,omitempty"`
}

// FixedParameter binds a hard-coded value to an operation parameter.
type FixedParameter struct {
	OperationParameter OperationParameter `json:"operationParameter"`
	Value              any                `json:"value,omitempty"`
}

type ReservedParameter struct {
	Name    ReservedParameterName `json:"name"`
	Default *string               `json:"default,omitempty"`
	Fixed   *string               `json:"fixed,omitempty"`
}

// Value returns the default value if set, else the fixed value.
func (p ReservedParameter) Value() (string, bool) {
	if p.Default != nil {
		return *p.Default, true
	}
	if p.Fixed != nil {
		return *p.Fixed, true
	}
	return "", false
}

type ProcessingSpecification struct {
	Environment string       `json:"environment"`
	Value       string       `json:"value"`
	TimeoutMs   Milliseconds `json:"timeoutMs"`
}

// Milliseconds accepts any integral JSON number, including forms like 5.0 and 5e3.
type Milliseconds int64

func (m *Milliseconds) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Milliseconds(f)
	return nil
}

type Endpoint struct {
	Name                          string                    `json:"name"`
	Operation                     *EndpointOperation        `json:"operation,omitempty"`
	FixedOperationParameters      []FixedParameter          `json:"fixedOperationParameters"`
	Parameters                    []EndpointParameter       `json:"parameters"`
	ReservedParameters            []ReservedParameter       `json:"reservedParameters"`
	PreProcessingSpecifications   []ProcessingSpecification `json:"preProcessingSpecifications,omitempty"`
	PostProcessingSpecifications  []ProcessingSpecification `json:"postProcessingSpecifications,omitempty"`
	PreProcessingSpecificationV2  *ProcessingSpecification  `json:"preProcessingSpecificationV2,omitempty"`
	PostProcessingSpecificationV2 *ProcessingSpecification  `json:"postProcessingSpecificationV2,omitempty"`
	Description                   *string                   `json:"description,omitempty"`
	ExternalDocs                  *string                   `json:"externalDocs,omitempty"`
	Summary                       *string                   `json:"summary,omitempty"`
}

// decodeOrderedObject calls fn for each member of a JSON object in document order.
// A repeated key keeps its first position and its last value.
func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: fmt.Sprint(tok), Type: nil, Offset: dec.InputOffset()}
	}
	var keys []string
	values := map[string]json.RawMessage{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err = dec.Token(); err != nil {
		return err
	}
	for _, key := range keys {
		if err = fn(key, values[key]); err != nil {
			return err
		}
	}
	return nil
}

type orderedObjectBuilder struct {
	buf bytes.Buffer
}

func (b *orderedObjectBuilder) add(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.addRaw(key, raw)
}

func (b *orderedObjectBuilder) addRaw(key string, raw []byte) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	if b.buf.Len() == 0 {
		b.buf.WriteByte('{')
	} else {
		b.buf.WriteByte(',')
	}
	b.buf.Write(k)
	b.buf.WriteByte(':')
	b.buf.Write(raw)
	return nil
}

func (b *orderedObjectBuilder) bytes() []byte {
	if b.buf.Len() == 0 {
		return []byte("{}")
	}
	return append(slices.Clone(b.buf.Bytes()), '}')
}
