package backup

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// EncodeYAML writes doc as YAML.
func EncodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeYAML reads a YAML document.
func DecodeYAML(r io.Reader) (*Document, error) {
	var wire wireDocument
	if err := yaml.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return wire.document()
}
