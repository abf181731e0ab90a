package ois

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_Rendering(t *testing.T) {
	t.Parallel()

	p := Path{"apiSpecifications", "paths", "/convert", "get", "parameters", 4}
	assert.Equal(t, "apiSpecifications.paths./convert.get.parameters[4]", p.String())
	assert.Equal(t, "/apiSpecifications/paths/~1convert/get/parameters/4", p.Pointer())
	assert.Equal(t, "apiSpecifications.paths./convert.get.parameters.4", p.GJSON())

	assert.Equal(t, `a\.b.c\*`, Path{"a.b", "c*"}.GJSON())
	assert.Empty(t, Path{}.String())
	assert.Empty(t, Path{}.Pointer())
}

func TestPath_Append(t *testing.T) {
	t.Parallel()

	base := Path{"endpoints", 0}
	a := base.Append("parameters", 1)
	b := base.Append("fixedOperationParameters", 2)
	assert.Equal(t, Path{"endpoints", 0, "parameters", 1}, a)
	assert.Equal(t, Path{"endpoints", 0, "fixedOperationParameters", 2}, b)
	assert.Equal(t, Path{"endpoints", 0}, base)
}

func TestComparePaths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b Path
		want int
	}{
		{Path{"endpoints", 0}, Path{"endpoints", 1}, -1},
		{Path{"endpoints", 10}, Path{"endpoints", 9}, 1},
		{Path{"endpoints"}, Path{"endpoints", 0}, -1},
		{Path{"a", 0}, Path{"a", "b"}, -1},
		{Path{"title"}, Path{"apiSpecifications"}, 1},
		{Path{}, Path{}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ComparePaths(tt.a, tt.b), "%v vs %v", tt.a, tt.b)
	}
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		`✗ endpoints[0]: Parameter "to" not found (custom)`,
		custom(`Parameter "to" not found`, "endpoints", 0).String(),
	)
	assert.Equal(t,
		"✗ Unrecognized key(s) in object: 'x' (unrecognized_keys)",
		Issue{Code: CodeUnrecognizedKeys, Message: "Unrecognized key(s) in object: 'x'", Path: Path{}}.String(),
	)
}
