package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats understood by Render
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Render writes the document in block-style YAML. Keys appear in the order
// the document was built
func Render(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document as yaml: %w", err)
	}
	return enc.Close()
}

// RenderJSON writes the document as indented JSON with the same key order as Render
func RenderJSON(w io.Writer, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document as json: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Marshal renders the document in the given format
func Marshal(doc *Document, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatYAML, "":
		if err := Render(&buf, doc); err != nil {
			return nil, err
		}
	case FormatJSON:
		if err := RenderJSON(&buf, doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return buf.Bytes(), nil
}
