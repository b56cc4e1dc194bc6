// Package document reads and writes schema documents as JSON or YAML.
//
// A document holds either a single schema object or an array of schemas.
// Every document is checked against an embedded JSON Schema before it is
// decoded so structural mistakes are reported with a JSON pointer instead of
// a bare decode error.
package document

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/tordrt/schemacheck/internal/schema"
)

// Format is a document encoding
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

var (
	// ErrUnsupportedFormat is returned for file extensions or format names
	// other than JSON and YAML.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrInvalidDocument wraps every structural or decode failure.
	ErrInvalidDocument = errors.New("invalid schema document")
)

//go:embed document.schema.json
var documentSchemaJSON string

var documentSchema = jsonschema.MustCompileString("document.schema.json", documentSchemaJSON)

// ParseFormat resolves a format name such as "json", "yaml" or "yml"
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Decode reads every schema in a document
func Decode(r io.Reader, format Format) ([]schema.Schema, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	data, err := toJSON(raw, format)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := documentSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	if _, isArray := doc.([]any); isArray {
		var schemas []schema.Schema
		if err := json.Unmarshal(data, &schemas); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return schemas, nil
	}

	var s schema.Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return []schema.Schema{s}, nil
}

// Encode writes schemas in the given format. A single schema is written as
// an object, anything else as an array, so Decode(Encode(x)) returns x.
func Encode(w io.Writer, schemas []schema.Schema, format Format) error {
	var v any = schemas
	if len(schemas) == 1 {
		v = schemas[0]
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode schemas: %w", err)
	}

	switch format {
	case JSON:
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return nil
	case YAML:
		// JSON is valid YAML; decoding into a node keeps key order
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("failed to encode schemas: %w", err)
		}
		clearStyle(&node)
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(&node); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadFile decodes the document at path, choosing the format by extension
func ReadFile(path string) ([]schema.Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	schemas, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return schemas, nil
}

// WriteFile encodes schemas to path, choosing the format by extension
func WriteFile(path string, schemas []schema.Schema) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, schemas, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}
	return nil
}

func toJSON(raw []byte, format Format) ([]byte, error) {
	switch format {
	case JSON:
		return raw, nil
	case YAML:
		var v any
		if err := yaml.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		data, err := json.Marshal(normalizeYAML(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// normalizeYAML rewrites decoded YAML so encoding/json can marshal it:
// non-string map keys become strings and timestamps become RFC 3339 text.
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			t[k] = normalizeYAML(val)
		}
		return t
	case map[any]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return m
	case []any:
		for i := range t {
			t[i] = normalizeYAML(t[i])
		}
		return t
	case time.Time:
		return t.Format(time.RFC3339Nano)
	default:
		return v
	}
}

// clearStyle drops the flow and quoting styles inherited from JSON input so
// the encoder emits block YAML.
func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}
