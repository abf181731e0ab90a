package ois

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/api3dao/ois/internal/validator"
)

// SchemaID is the $id of the embedded structural schema.
const SchemaID = "https://schemas.api3.org/ois.schema.json"

// Schema is the JSON Schema describing the shape of an OIS document.
//
//go:embed ois.schema.json
var Schema []byte

const (
	formatSemver           = "semver"
	formatOIS              = "ois-format"
	formatNonReservedParam = "non-reserved-parameter-name"
)

// requiredTypes is the expected type reported when a required property is missing.
// Properties not listed are strings.
var requiredTypes = map[string]string{
	"apiSpecifications":        "object",
	"components":               "object",
	"securitySchemes":          "object",
	"paths":                    "object",
	"security":                 "object",
	"operationParameter":       "object",
	"endpoints":                "array",
	"servers":                  "array",
	"parameters":               "array",
	"fixedOperationParameters": "array",
	"reservedParameters":       "array",
	"timeoutMs":                "number",
}

func stringFormat(name string, check func(string) error) validator.Format {
	return validator.Format{
		Name: name,
		Check: func(v any) error {
			s, ok := v.(string)
			if !ok {
				return nil
			}
			return check(s)
		},
	}
}

func formats(reference string) []validator.Format {
	return []validator.Format{
		stringFormat(formatSemver, ValidateSemver),
		stringFormat(formatOIS, func(s string) error { return CheckVersionCompatible(s, reference) }),
		stringFormat(formatNonReservedParam, func(s string) error {
			if IsReservedParameterName(s) {
				return &ReservedParameterNameError{Name: s}
			}
			return nil
		}),
	}
}

func compileSchema(c validator.Compiler, reference string) (validator.Validator, error) {
	for _, f := range formats(reference) {
		c.RegisterFormat(f)
	}
	s, err := validator.ParseSchema(Schema)
	if err != nil {
		return nil, fmt.Errorf("cannot parse embedded schema: %w", err)
	}
	if err = c.AddSchema(SchemaID, s); err != nil {
		return nil, fmt.Errorf("cannot add embedded schema: %w", err)
	}
	return c.Compile(SchemaID)
}

// structuralIssues checks the shape of doc. The returned issues are sorted by path.
func structuralIssues(schema validator.Validator, doc any) ([]Issue, error) {
	var issues []Issue

	if err := schema.Validate(doc); err != nil {
		var verr *validator.ValidationError
		if !errors.As(err, &verr) {
			return nil, err
		}
		for _, v := range verr.Violations {
			issues = append(issues, violationIssues(doc, v)...)
		}
	}
	issues = append(issues, pathKeyIssues(doc)...)

	slices.SortStableFunc(issues, func(a, b Issue) int { return ComparePaths(a.Path, b.Path) })
	return issues, nil
}

func violationIssues(doc any, v validator.Violation) []Issue {
	path := toPath(doc, v.InstanceLocation)

	switch v.Keyword {
	case "additionalProperties":
		quoted := make([]string, 0, len(v.Properties))
		for _, p := range v.Properties {
			quoted = append(quoted, "'"+p+"'")
		}
		return []Issue{{
			Code:    CodeUnrecognizedKeys,
			Message: "Unrecognized key(s) in object: " + strings.Join(quoted, ", "),
			Path:    path,
			Keys:    v.Properties,
		}}

	case "required":
		issues := make([]Issue, 0, len(v.Properties))
		for _, p := range v.Properties {
			expected, ok := requiredTypes[p]
			if !ok {
				expected = "string"
			}
			issues = append(issues, Issue{
				Code:     CodeInvalidType,
				Message:  "Required",
				Path:     path.Append(p),
				Expected: expected,
				Received: "undefined",
			})
		}
		return issues

	case "type":
		expected := strings.Join(v.Want, " | ")
		received := fmt.Sprint(v.Got)
		return []Issue{{
			Code:     CodeInvalidType,
			Message:  fmt.Sprintf("Expected %s, received %s", expected, received),
			Path:     path,
			Expected: expected,
			Received: received,
		}}

	case "pattern":
		pattern := ""
		if len(v.Want) > 0 {
			pattern = v.Want[0]
		}
		return []Issue{{Code: CodeInvalidFormat, Message: "Invalid", Path: path, Pattern: pattern}}

	case "format":
		if v.Format == "uri" {
			return []Issue{{Code: CodeInvalidFormat, Message: "Invalid url", Path: path, Format: v.Format}}
		}
		msg := v.Message
		if v.Err != nil {
			msg = v.Err.Error()
		}
		return []Issue{{Code: CodeCustom, Message: msg, Path: path}}

	case "enum", "const":
		options := make([]string, 0, len(v.Want))
		for _, w := range v.Want {
			options = append(options, "'"+w+"'")
		}
		return []Issue{{
			Code:    CodeInvalidEnumValue,
			Message: fmt.Sprintf("Invalid enum value. Expected %s, received '%v'", strings.Join(options, " | "), v.Got),
			Path:    path,
			Options: v.Want,
		}}
	}

	return []Issue{{Code: CodeInvalidValue, Message: v.Message, Path: path}}
}

// pathKeyIssues checks the keys of apiSpecifications.paths, which the schema leaves open.
func pathKeyIssues(doc any) []Issue {
	root, _ := doc.(map[string]any)
	spec, _ := root["apiSpecifications"].(map[string]any)
	paths, _ := spec["paths"].(map[string]any)

	var issues []Issue
	for _, key := range slices.Sorted(maps.Keys(paths)) {
		var ferr *FormatError
		if err := ValidatePathTemplate(key); errors.As(err, &ferr) {
			issues = append(issues, Issue{
				Code:    CodeInvalidFormat,
				Message: ferr.Message,
				Path:    Path{"apiSpecifications", "paths", key},
				Pattern: ferr.Pattern,
			})
		}
	}
	return issues
}

// toPath converts JSON pointer tokens into a Path, turning array positions into ints.
func toPath(doc any, tokens []string) Path {
	path := make(Path, 0, len(tokens))
	node := doc
	for _, tok := range tokens {
		switch n := node.(type) {
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(n) {
				path = append(path, tok)
				node = nil
				continue
			}
			path = append(path, i)
			node = n[i]
		case map[string]any:
			path = append(path, tok)
			node = n[tok]
		default:
			path = append(path, tok)
			node = nil
		}
	}
	return path
}
