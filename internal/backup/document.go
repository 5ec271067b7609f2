package backup

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/p-devianne/flashmind/internal/domain"
)

// Version is the document version written by this package.
const Version = 1

// ImportedTopicName and ImportedTopicEmoji name the topic that collects CSV
// cards without a topic column.
const (
	ImportedTopicName  = "Imported"
	ImportedTopicEmoji = "📥"
)

var (
	// ErrInvalidFormat is returned when a document lacks its topics or cards
	// or cannot be parsed.
	ErrInvalidFormat = errors.New("invalid backup file format")

	// ErrEmptyCSV is returned for a CSV file without data rows.
	ErrEmptyCSV = errors.New("CSV file is empty or has no data rows")

	// ErrUnrecognizedCSV is returned when the CSV header matches neither the
	// cards nor the topics layout.
	ErrUnrecognizedCSV = errors.New("Unrecognized CSV format. Expected columns: question,answer or name,emoji") //nolint:staticcheck // user-facing message

	// ErrUnsupportedFormat is returned for an unknown format name.
	ErrUnsupportedFormat = errors.New("unsupported backup format")
)

// Document is a full snapshot of the store.
type Document struct {
	Version    int            `json:"version"    yaml:"version"`
	ExportDate time.Time      `json:"exportDate" yaml:"exportDate"`
	Topics     []domain.Topic `json:"topics"     yaml:"topics"`
	Cards      []domain.Card  `json:"cards"      yaml:"cards"`
}

// NewDocument builds a Document dated now.
func NewDocument(topics []domain.Topic, cards []domain.Card, now time.Time) *Document {
	if topics == nil {
		topics = []domain.Topic{}
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	return &Document{
		Version:    Version,
		ExportDate: now.UTC(),
		Topics:     topics,
		Cards:      cards,
	}
}

// Format is a serialisation of a Document.
type Format string

// Supported formats
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat converts a format name; "yml" is accepted for YAML and an
// empty name means JSON.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromFilename picks a format from a file extension, falling back to
// JSON.
func FormatFromFilename(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// FileName returns the conventional file name for a backup taken at now,
// e.g. flashmind-backup-2026-01-31.json.
func FileName(now time.Time, format Format) string {
	ext := string(format)
	if format == "" {
		ext = string(FormatJSON)
	}
	return fmt.Sprintf("flashmind-backup-%s.%s", now.UTC().Format(time.DateOnly), ext)
}

// Encode writes doc in the given format. CSV is an import-only format.
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatJSON, "":
		return EncodeJSON(w, doc)
	case FormatYAML:
		return EncodeYAML(w, doc)
	default:
		return fmt.Errorf("%w for export: %q", ErrUnsupportedFormat, format)
	}
}

// Decode reads a document in the given format. CSV input yields a Document
// with generated ids and zero scores, using now as the creation time.
func Decode(r io.Reader, format Format, now time.Time) (*Document, error) {
	switch format {
	case FormatJSON, "":
		return DecodeJSON(r)
	case FormatYAML:
		return DecodeYAML(r)
	case FormatCSV:
		return DecodeCSV(r, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// DecodeFile is Decode with the format taken from the file name.
func DecodeFile(name string, r io.Reader, now time.Time) (*Document, error) {
	return Decode(r, FormatFromFilename(name), now)
}
