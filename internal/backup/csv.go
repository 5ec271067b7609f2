package backup

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/p-devianne/flashmind/internal/domain"
)

// DecodeCSV reads cards or topics from CSV. The header row decides which:
//
//   - question and answer columns give cards, with optional topic and
//     topicid columns. Cards without a topicid are grouped into new topics
//     by topic name (ImportedTopicName when there is no topic column).
//   - a name or topic column gives topics, with an optional emoji or icon
//     column.
//
// Header names are case-insensitive. Rows missing a required value are
// skipped.
func DecodeCSV(r io.Reader, now time.Time) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrEmptyCSV
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	now = now.UTC()
	switch {
	case slices.Contains(headers, "question") && slices.Contains(headers, "answer"):
		return decodeCardRows(headers, records[1:], now), nil
	case slices.Contains(headers, "name") || slices.Contains(headers, "topic"):
		return decodeTopicRows(headers, records[1:], now), nil
	default:
		return nil, ErrUnrecognizedCSV
	}
}

func decodeCardRows(headers []string, rows [][]string, now time.Time) *Document {
	var (
		questionIdx = slices.Index(headers, "question")
		answerIdx   = slices.Index(headers, "answer")
		topicIdx    = slices.Index(headers, "topic")
		topicIDIdx  = slices.Index(headers, "topicid")
	)

	doc := NewDocument(nil, nil, now)
	topicsByName := map[string]string{}

	for _, row := range rows {
		question := field(row, questionIdx)
		answer := field(row, answerIdx)
		if question == "" || answer == "" {
			continue
		}

		topicID := field(row, topicIDIdx)
		if topicID == "" {
			name := field(row, topicIdx)
			if name == "" {
				name = ImportedTopicName
			}

			id, ok := topicsByName[name]
			if !ok {
				id = uuid.NewString()
				topicsByName[name] = id
				doc.Topics = append(doc.Topics, domain.Topic{
					ID:        id,
					Name:      name,
					Emoji:     ImportedTopicEmoji,
					CreatedAt: now,
					UpdatedAt: now,
				})
			}
			topicID = id
		}

		doc.Cards = append(doc.Cards, domain.Card{
			ID:        uuid.NewString(),
			TopicID:   topicID,
			Question:  question,
			Answer:    answer,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return doc
}

func decodeTopicRows(headers []string, rows [][]string, now time.Time) *Document {
	nameIdx := slices.Index(headers, "name")
	if nameIdx < 0 {
		nameIdx = slices.Index(headers, "topic")
	}
	emojiIdx := slices.Index(headers, "emoji")
	if emojiIdx < 0 {
		emojiIdx = slices.Index(headers, "icon")
	}

	doc := NewDocument(nil, nil, now)
	for _, row := range rows {
		name := field(row, nameIdx)
		if name == "" {
			continue
		}

		emoji := field(row, emojiIdx)
		if emoji == "" {
			emoji = domain.DefaultTopicEmoji
		}

		doc.Topics = append(doc.Topics, domain.Topic{
			ID:        uuid.NewString(),
			Name:      name,
			Emoji:     emoji,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return doc
}

// field returns the trimmed value at idx, or "" when the column is absent
// or the row is short.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
