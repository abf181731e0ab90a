package ois

import (
	"regexp"
	"slices"
	"strings"
)

// Version is the OIS format version implemented by this module. Documents must declare an
// oisFormat with the same major.minor.
const Version = "2.3.2"

// ReservedParameterName is one of the parameter names with oracle specific meaning.
type ReservedParameterName string

const (
	ReservedType             ReservedParameterName = "_type"
	ReservedPath             ReservedParameterName = "_path"
	ReservedTimes            ReservedParameterName = "_times"
	ReservedMinConfirmations ReservedParameterName = "_minConfirmations"
	ReservedGasPrice         ReservedParameterName = "_gasPrice"
)

// ReservedParameterNames lists every reserved parameter name.
var ReservedParameterNames = []ReservedParameterName{
	ReservedType,
	ReservedPath,
	ReservedTimes,
	ReservedMinConfirmations,
	ReservedGasPrice,
}

const (
	// PathTemplatePattern must be matched by every path of apiSpecifications.paths.
	PathTemplatePattern = `^/\S*$`

	semverMessage = `Expected semantic versioning "x.y.z"`
)

var (
	pathTemplateRegexp = regexp.MustCompile(PathTemplatePattern)
	digitsRegexp       = regexp.MustCompile(`^\d+$`)
	placeholderRegexp  = regexp.MustCompile(`{[^}]+}`)
)

// ValidateSemver succeeds when s has exactly three dot separated parts made of digits.
// Leading zeros are allowed.
func ValidateSemver(s string) error {
	parts := strings.Split(s, ".")
	if len(parts) != 3 || slices.ContainsFunc(parts, func(p string) bool { return !digitsRegexp.MatchString(p) }) {
		return &FormatError{Value: s, Message: semverMessage}
	}
	return nil
}

// CheckVersionCompatible succeeds when s is semver and shares major.minor with reference.
func CheckVersionCompatible(s, reference string) error {
	if err := ValidateSemver(s); err != nil {
		return err
	}
	got := strings.Split(s, ".")
	want := strings.Split(reference, ".")
	if len(want) < 2 || got[0] != want[0] || got[1] != want[1] {
		return &VersionMismatchError{Got: s, Reference: reference}
	}
	return nil
}

// ValidatePathTemplate succeeds when s starts with '/' and has no whitespace.
func ValidatePathTemplate(s string) error {
	if !pathTemplateRegexp.MatchString(s) {
		return &FormatError{Value: s, Message: "Invalid", Pattern: PathTemplatePattern}
	}
	return nil
}

// ValidateNonNegativeIntegerString succeeds when s is a base 10 integer without sign.
func ValidateNonNegativeIntegerString(s string) error {
	if !digitsRegexp.MatchString(s) {
		return &FormatError{Value: s, Message: "Expected non-negative integer"}
	}
	return nil
}

// IsReservedParameterName reports whether s is one of ReservedParameterNames.
func IsReservedParameterName(s string) bool {
	return slices.Contains(ReservedParameterNames, ReservedParameterName(s))
}

// PathPlaceholders returns the names of the {placeholders} of a path template, in order.
func PathPlaceholders(path string) []string {
	matches := placeholderRegexp.FindAllString(path, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, strings.TrimRight(strings.TrimLeft(m, "{"), "}"))
	}
	return names
}
