package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
)

// wireDocument distinguishes a missing topics or cards key from an empty one.
type wireDocument struct {
	Version    int             `json:"version"    yaml:"version"`
	ExportDate time.Time       `json:"exportDate" yaml:"exportDate"`
	Topics     *[]domain.Topic `json:"topics"     yaml:"topics"`
	Cards      *[]domain.Card  `json:"cards"      yaml:"cards"`
}

func (w *wireDocument) document() (*Document, error) {
	if w.Topics == nil || w.Cards == nil {
		return nil, fmt.Errorf("%w: topics and cards are required", ErrInvalidFormat)
	}
	return &Document{
		Version:    w.Version,
		ExportDate: w.ExportDate,
		Topics:     *w.Topics,
		Cards:      *w.Cards,
	}, nil
}

// EncodeJSON writes doc as indented JSON.
func EncodeJSON(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(doc)
}

// DecodeJSON reads a JSON document.
func DecodeJSON(r io.Reader) (*Document, error) {
	var wire wireDocument
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return wire.document()
}
