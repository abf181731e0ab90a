// Package source loads OIS documents from disk as JSON bytes.
//
// YAML documents are converted to JSON with their key order intact, so that issue
// paths which depend on document order are the same for both formats.
package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is a loaded document. Data is always JSON.
type Document struct {
	Path   string
	Format Format
	Data   []byte
}

type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported document format, expected .json, .yaml or .yml", e.Path)
}

// maxYAMLNodes bounds the number of nodes written after alias expansion.
const maxYAMLNodes = 1 << 20

type InvalidYAMLError struct {
	Path    string
	Wrapped error
}

func (e *InvalidYAMLError) Error() string {
	return fmt.Sprintf("%s is not a valid yaml document: %v", e.Path, e.Wrapped)
}

func (e *InvalidYAMLError) Unwrap() error {
	return e.Wrapped
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", &UnsupportedFormatError{Path: path}
}

// Load reads the document at path.
func Load(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, format, data)
}

// Parse converts raw document bytes of the given format to a Document.
func Parse(path string, format Format, data []byte) (*Document, error) {
	if format == FormatJSON {
		return &Document{Path: path, Format: format, Data: data}, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	if root.Kind == 0 {
		return &Document{Path: path, Format: format, Data: []byte("null")}, nil
	}
	w := jsonWriter{expanding: map[*yaml.Node]bool{}}
	if err := w.write(&root); err != nil {
		return nil, &InvalidYAMLError{Path: path, Wrapped: err}
	}
	return &Document{Path: path, Format: format, Data: w.buf.Bytes()}, nil
}

// jsonWriter encodes a YAML node tree as JSON, keeping mapping keys in document order.
// Aliases are expanded in place.
type jsonWriter struct {
	buf       bytes.Buffer
	expanding map[*yaml.Node]bool
	nodes     int
}

func (w *jsonWriter) write(n *yaml.Node) error {
	w.nodes++
	if w.nodes > maxYAMLNodes {
		return fmt.Errorf("line %d: document expands to more than %d nodes", n.Line, maxYAMLNodes)
	}
	buf := &w.buf
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return w.write(n.Content[0])

	case yaml.AliasNode:
		if n.Alias == nil {
			return fmt.Errorf("line %d: unknown anchor '%s'", n.Line, n.Value)
		}
		if w.expanding[n.Alias] {
			return fmt.Errorf("line %d: anchor '%s' references itself", n.Line, n.Value)
		}
		w.expanding[n.Alias] = true
		err := w.write(n.Alias)
		delete(w.expanding, n.Alias)
		return err

	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err = w.write(n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := w.write(c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	var v any
	if err := n.Decode(&v); err != nil {
		return err
	}
	out, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	buf.Write(out)
	return nil
}
