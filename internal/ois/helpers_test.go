package ois

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func fixtureBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "ois.json"))
	require.NoError(t, err)
	return data
}

// loadFixture returns a fresh generic copy of the valid test document.
func loadFixture(t *testing.T) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(fixtureBytes(t), &doc))
	return doc
}

// node walks doc along path and returns the value found there.
func node(t *testing.T, doc any, path ...any) any {
	t.Helper()
	cur := doc
	for _, p := range path {
		switch k := p.(type) {
		case string:
			m, ok := cur.(map[string]any)
			require.True(t, ok, "expected object at %v", p)
			cur = m[k]
		case int:
			a, ok := cur.([]any)
			require.True(t, ok, "expected array at %v", p)
			cur = a[k]
		}
	}
	return cur
}

func object(t *testing.T, doc any, path ...any) map[string]any {
	t.Helper()
	m, ok := node(t, doc, path...).(map[string]any)
	require.True(t, ok)
	return m
}

// push appends v to the array found at path.
func push(t *testing.T, doc any, v any, path ...any) {
	t.Helper()
	parent := object(t, doc, path[:len(path)-1]...)
	key, _ := path[len(path)-1].(string)
	arr, _ := parent[key].([]any)
	parent[key] = append(arr, v)
}

func convertParameters(t *testing.T, doc any) []any {
	t.Helper()
	arr, _ := node(t, doc, "apiSpecifications", "paths", "/convert", "get", "parameters").([]any)
	return arr
}

func firstEndpoint(t *testing.T, doc any) map[string]any {
	t.Helper()
	return object(t, doc, "endpoints", 0)
}

func param(in, name string) map[string]any {
	return map[string]any{"in": in, "name": name}
}

func processing(value string) map[string]any {
	return map[string]any{"environment": "Node", "timeoutMs": 5000, "value": value}
}

func newTestValidator(t *testing.T, opts ...Option) *Validator {
	t.Helper()
	v, err := New(opts...)
	require.NoError(t, err)
	return v
}

func custom(message string, path ...any) Issue {
	return Issue{Code: CodeCustom, Message: message, Path: Path(path)}
}
