package ois

import (
	"fmt"
	"slices"
)

// Rule checks relationships between parts of a structurally valid document.
type Rule struct {
	ID    string
	Apply func(doc *Document) []Issue
}

const (
	RuleSecurityReference         = "security-reference"
	RulePathTemplateParameters    = "path-template-parameters"
	RuleOperationParameterUnique  = "operation-parameter-unique"
	RuleEndpointParameterNames    = "endpoint-parameter-names"
	RuleOperationParameterUsage   = "operation-parameter-usage"
	RuleSkipAPICall               = "skip-api-call"
	RuleProcessingVersion         = "processing-version"
	RuleEndpointSpecificationLink = "endpoint-specification-link"
	RuleReservedParameters        = "reserved-parameters"
)

// Rules lists the cross-field rules in execution order.
var Rules = []Rule{
	{ID: RuleSecurityReference, Apply: checkSecurityReferences},
	{ID: RulePathTemplateParameters, Apply: checkPathTemplateParameters},
	{ID: RuleOperationParameterUnique, Apply: checkOperationParameterUniqueness},
	{ID: RuleEndpointParameterNames, Apply: checkEndpointParameterNames},
	{ID: RuleOperationParameterUsage, Apply: checkOperationParameterUsage},
	{ID: RuleSkipAPICall, Apply: checkSkipAPICall},
	{ID: RuleProcessingVersion, Apply: checkProcessingVersions},
	{ID: RuleEndpointSpecificationLink, Apply: checkEndpointSpecificationLink},
	{ID: RuleReservedParameters, Apply: checkReservedParameters},
}

// ApplyRules runs every rule against doc and concatenates their issues.
// doc must be structurally valid; a nil doc panics.
func ApplyRules(doc *Document, rules []Rule) []Issue {
	if doc == nil {
		panic("ois: rules applied to a nil document")
	}
	var issues []Issue
	for _, r := range rules {
		issues = append(issues, r.Apply(doc)...)
	}
	return issues
}

func checkSecurityReferences(doc *Document) []Issue {
	var issues []Issue
	schemes := doc.APISpecifications.Components.SecuritySchemes
	for i, name := range doc.APISpecifications.Security {
		if _, ok := schemes[name]; !ok {
			issues = append(issues, customIssue(
				Path{"apiSpecifications", "security", i},
				"Security scheme %q is not defined in \"components.securitySchemes\"", name,
			))
		}
	}
	return issues
}

func operationPath(path string, method Method) Path {
	return Path{"apiSpecifications", "paths", path, string(method), "parameters"}
}

func checkPathTemplateParameters(doc *Document) []Issue {
	var issues []Issue
	for _, entry := range doc.APISpecifications.Paths {
		placeholders := PathPlaceholders(entry.Path)
		for _, op := range entry.Operations {
			params := op.Operation.Parameters
			for _, name := range placeholders {
				if !slices.Contains(params, OperationParameter{In: TargetPath, Name: name}) {
					issues = append(issues, customIssue(
						operationPath(entry.Path, op.Method),
						"Path parameter %q is not found in \"parameters\"", name,
					))
				}
			}
			for i, p := range params {
				if p.In == TargetPath && !slices.Contains(placeholders, p.Name) {
					issues = append(issues, customIssue(
						operationPath(entry.Path, op.Method).Append(i),
						"Parameter %q is not found in the URL path", p.Name,
					))
				}
			}
		}
	}
	return issues
}

// duplicateIndices returns the positions of every element whose key occurs more than once.
func duplicateIndices[T any, K comparable](items []T, key func(T) (K, bool)) []int {
	counts := make(map[K]int, len(items))
	for _, it := range items {
		if k, ok := key(it); ok {
			counts[k]++
		}
	}
	var out []int
	for i, it := range items {
		if k, ok := key(it); ok && counts[k] > 1 {
			out = append(out, i)
		}
	}
	return out
}

func usedMultipleTimes(path Path, p OperationParameter) Issue {
	return customIssue(path, "Parameter %q in %q is used multiple times", p.Name, string(p.In))
}

func checkOperationParameterUniqueness(doc *Document) []Issue {
	var issues []Issue
	for _, entry := range doc.APISpecifications.Paths {
		for _, op := range entry.Operations {
			params := op.Operation.Parameters
			dups := duplicateIndices(params, func(p OperationParameter) (OperationParameter, bool) { return p, true })
			for _, i := range dups {
				issues = append(issues, usedMultipleTimes(operationPath(entry.Path, op.Method).Append(i), params[i]))
			}
		}
	}
	return issues
}

func endpointPath(i int, elems ...any) Path {
	return Path{"endpoints", i}.Append(elems...)
}

func checkEndpointParameterNames(doc *Document) []Issue {
	var issues []Issue
	for ei, e := range doc.Endpoints {
		dups := duplicateIndices(e.Parameters, func(p EndpointParameter) (string, bool) { return p.Name, true })
		for _, i := range dups {
			issues = append(issues, customIssue(
				endpointPath(ei, "parameters", i),
				"Parameter names must be unique, but parameter %q is used multiple times", e.Parameters[i].Name,
			))
		}
	}
	return issues
}

func boundParameter(p EndpointParameter) (OperationParameter, bool) {
	if p.OperationParameter == nil {
		return OperationParameter{}, false
	}
	return *p.OperationParameter, true
}

func fixedParameter(p FixedParameter) (OperationParameter, bool) {
	return p.OperationParameter, true
}

func checkOperationParameterUsage(doc *Document) []Issue {
	var issues []Issue
	for ei, e := range doc.Endpoints {
		for _, i := range duplicateIndices(e.Parameters, boundParameter) {
			issues = append(issues, usedMultipleTimes(endpointPath(ei, "parameters", i), *e.Parameters[i].OperationParameter))
		}
		for _, i := range duplicateIndices(e.FixedOperationParameters, fixedParameter) {
			issues = append(issues, usedMultipleTimes(endpointPath(ei, "fixedOperationParameters", i), e.FixedOperationParameters[i].OperationParameter))
		}

		for pi, p := range e.Parameters {
			op, ok := boundParameter(p)
			if !ok {
				continue
			}
			fi := slices.IndexFunc(e.FixedOperationParameters, func(f FixedParameter) bool { return f.OperationParameter == op })
			if fi < 0 {
				continue
			}
			msg := fmt.Sprintf("Parameter %q in %q is used in both \"parameters\" and \"fixedOperationParameters\"", op.Name, string(op.In))
			issues = append(issues,
				Issue{Code: CodeCustom, Message: msg, Path: endpointPath(ei, "parameters", pi)},
				Issue{Code: CodeCustom, Message: msg, Path: endpointPath(ei, "fixedOperationParameters", fi)},
			)
		}
	}
	return issues
}

func hasProcessing(e Endpoint) bool {
	return len(e.PreProcessingSpecifications) > 0 ||
		len(e.PostProcessingSpecifications) > 0 ||
		e.PreProcessingSpecificationV2 != nil ||
		e.PostProcessingSpecificationV2 != nil
}

func checkSkipAPICall(doc *Document) []Issue {
	var issues []Issue
	for ei, e := range doc.Endpoints {
		if e.Operation != nil {
			continue
		}
		if len(e.FixedOperationParameters) == 0 && !hasProcessing(e) {
			issues = append(issues, customIssue(
				endpointPath(ei),
				"At least one processing schema must be defined when \"operation\" is not specified and \"fixedOperationParameters\" is empty array.",
			))
		}
		if len(e.FixedOperationParameters) > 0 {
			issues = append(issues, customIssue(
				endpointPath(ei),
				"\"fixedOperationParameters\" must be empty array when \"operation\" is not specified.",
			))
		}
	}
	return issues
}

func checkProcessingVersions(doc *Document) []Issue {
	var issues []Issue
	for ei, e := range doc.Endpoints {
		if e.PreProcessingSpecificationV2 != nil && e.PreProcessingSpecifications != nil {
			issues = append(issues, customIssue(
				endpointPath(ei),
				"Only one of \"preProcessingSpecificationV2\" and \"preProcessingSpecifications\" can be defined",
			))
		}
		if e.PostProcessingSpecificationV2 != nil && e.PostProcessingSpecifications != nil {
			issues = append(issues, customIssue(
				endpointPath(ei),
				"Only one of \"postProcessingSpecificationV2\" and \"postProcessingSpecifications\" can be defined",
			))
		}
	}
	return issues
}

// binds reports whether the endpoint binds p through parameters or fixedOperationParameters.
func binds(e Endpoint, p OperationParameter) bool {
	for _, ep := range e.Parameters {
		if op, ok := boundParameter(ep); ok && op == p {
			return true
		}
	}
	return slices.ContainsFunc(e.FixedOperationParameters, func(f FixedParameter) bool { return f.OperationParameter == p })
}

func checkEndpointSpecificationLink(doc *Document) []Issue {
	var issues []Issue

	// Operations are only checked once at least one endpoint references them.
	for _, entry := range doc.APISpecifications.Paths {
		for _, op := range entry.Operations {
			for ei, e := range doc.Endpoints {
				if e.Operation == nil || e.Operation.Path != entry.Path || e.Operation.Method != op.Method {
					continue
				}
				for _, p := range op.Operation.Parameters {
					if !binds(e, p) {
						issues = append(issues, customIssue(
							endpointPath(ei),
							"Parameter %q not found in \"fixedOperationParameters\" or \"parameters\"", p.Name,
						))
					}
				}
			}
		}
	}

	for ei, e := range doc.Endpoints {
		if e.Operation == nil {
			continue
		}
		op, ok := doc.APISpecifications.Paths.Lookup(e.Operation.Path, e.Operation.Method)
		if !ok {
			issues = append(issues, customIssue(
				endpointPath(ei),
				"No matching API specification found in \"apiSpecifications\" section",
			))
			continue
		}
		const unresolved = "No matching API specification parameter found in \"apiSpecifications\" section"
		for pi, p := range e.Parameters {
			if bound, ok := boundParameter(p); ok && !op.HasParameter(bound) {
				issues = append(issues, customIssue(endpointPath(ei, "parameters", pi), unresolved))
			}
		}
		for fi, f := range e.FixedOperationParameters {
			if !op.HasParameter(f.OperationParameter) {
				issues = append(issues, customIssue(endpointPath(ei, "fixedOperationParameters", fi), unresolved))
			}
		}
	}

	return issues
}

func checkReservedParameters(doc *Document) []Issue {
	var issues []Issue
	for ei, e := range doc.Endpoints {
		issues = append(issues, reservedParameterIssues(endpointPath(ei, "reservedParameters"), e.ReservedParameters)...)
	}
	return issues
}

func reservedParameterIssues(path Path, params []ReservedParameter) []Issue {
	var issues []Issue
	if !slices.ContainsFunc(params, func(p ReservedParameter) bool { return p.Name == ReservedType }) {
		issues = append(issues, customIssue(path, `Reserved parameters must contain object with { "name": "_type" }`))
	}
	for i, p := range params {
		if p.Default != nil && p.Fixed != nil {
			issues = append(issues, customIssue(
				path.Append(i),
				`Reserved parameter must use at most one of "default" and "fixed" properties`,
			))
		}
		if p.Name != ReservedMinConfirmations && p.Name != ReservedGasPrice {
			continue
		}
		if v, ok := p.Value(); ok && v != "" && ValidateNonNegativeIntegerString(v) != nil {
			issues = append(issues, customIssue(
				path.Append(i),
				"Reserved parameter %s must be a non-negative integer if present", string(p.Name),
			))
		}
	}
	return issues
}
