package ois

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// IssueCode classifies an Issue.
type IssueCode string

const (
	CodeCustom           IssueCode = "custom"
	CodeInvalidType      IssueCode = "invalid_type"
	CodeUnrecognizedKeys IssueCode = "unrecognized_keys"
	CodeInvalidFormat    IssueCode = "invalid_format"
	CodeInvalidEnumValue IssueCode = "invalid_enum_value"
	CodeInvalidValue     IssueCode = "invalid_value"
)

// Path locates a value in a document. Elements are object keys (string) or array indices (int).
type Path []any

// Append returns a new Path extended with the given elements.
func (p Path) Append(elems ...any) Path {
	out := make(Path, 0, len(p)+len(elems))
	out = append(out, p...)
	return append(out, elems...)
}

// Pointer renders the path as a JSON pointer.
func (p Path) Pointer() string {
	var b strings.Builder
	for _, e := range p {
		b.WriteByte('/')
		s := fmt.Sprint(e)
		s = strings.ReplaceAll(s, "~", "~0")
		b.WriteString(strings.ReplaceAll(s, "/", "~1"))
	}
	return b.String()
}

// GJSON renders the path in gjson syntax so the offending value can be looked up in the raw document.
func (p Path) GJSON() string {
	parts := make([]string, 0, len(p))
	for _, e := range p {
		switch v := e.(type) {
		case int:
			parts = append(parts, strconv.Itoa(v))
		default:
			parts = append(parts, gjsonEscaper.Replace(fmt.Sprint(v)))
		}
	}
	return strings.Join(parts, ".")
}

var gjsonEscaper = strings.NewReplacer(
	`\`, `\\`, ".", `\.`, "*", `\*`, "?", `\?`, "|", `\|`, "#", `\#`, "@", `\@`, "!", `\!`, "=", `\=`, "<", `\<`, ">", `\>`, "%", `\%`,
)

func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		switch v := e.(type) {
		case int:
			fmt.Fprintf(&b, "[%d]", v)
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(fmt.Sprint(v))
		}
	}
	return b.String()
}

// ComparePaths orders paths element by element. Indices sort before keys.
func ComparePaths(a, b Path) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareElem(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareElem(a, b any) int {
	ai, aIsInt := a.(int)
	bi, bIsInt := b.(int)
	switch {
	case aIsInt && bIsInt:
		return cmp.Compare(ai, bi)
	case aIsInt:
		return -1
	case bIsInt:
		return 1
	}
	return cmp.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Issue is a single problem found in a document.
type Issue struct {
	Code     IssueCode `json:"code"`
	Message  string    `json:"message"`
	Path     Path      `json:"path"`
	Keys     []string  `json:"keys,omitempty"`
	Expected string    `json:"expected,omitempty"`
	Received string    `json:"received,omitempty"`
	Pattern  string    `json:"pattern,omitempty"`
	Format   string    `json:"format,omitempty"`
	Options  []string  `json:"options,omitempty"`
}

func (i Issue) String() string {
	if len(i.Path) == 0 {
		return fmt.Sprintf("✗ %s (%s)", i.Message, i.Code)
	}
	return fmt.Sprintf("✗ %s: %s (%s)", i.Path, i.Message, i.Code)
}

func customIssue(path Path, format string, args ...any) Issue {
	return Issue{Code: CodeCustom, Message: fmt.Sprintf(format, args...), Path: path}
}
