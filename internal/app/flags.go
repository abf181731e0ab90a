package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/api3dao/ois/internal/ois"
	"github.com/api3dao/ois/internal/report"
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if !slices.Contains(report.SupportedFormats(), v) {
		return fmt.Errorf("must be one of '%s'", strings.Join(report.SupportedFormats(), "', '"))
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}

// versionValue implements pflag.Value for a semantic version.
type versionValue string

func (v *versionValue) String() string {
	return string(*v)
}

func (v *versionValue) Set(s string) error {
	if err := ois.ValidateSemver(s); err != nil {
		return err
	}
	*v = versionValue(s)
	return nil
}

func (v *versionValue) Type() string {
	return "<semver>"
}
