package catalog

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/therealutkarshpriyadarshi/vidmarks/pkg/models"
)

var (
	// ErrUnknownFormat is returned for formats other than json, csv and auto
	ErrUnknownFormat = errors.New("unknown catalog format")
	// ErrMissingHeader is returned for CSV input without a usable header row
	ErrMissingHeader = errors.New("csv header row missing id column")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DetectFormat guesses the payload format: a leading JSON array or object
// means json, anything else is treated as csv.
func DetectFormat(data []byte) string {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, utf8BOM), " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return models.SourceFormatJSON
	}
	return models.SourceFormatCSV
}

// Parse decodes a raw catalog payload into videos in source order
func Parse(format string, data []byte) ([]models.Video, error) {
	if format == "" || format == models.SourceFormatAuto {
		format = DetectFormat(data)
	}

	switch format {
	case models.SourceFormatJSON:
		return parseJSON(data)
	case models.SourceFormatCSV:
		return parseCSV(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// jsonVideo accepts ids written either as strings or as numbers
type jsonVideo struct {
	ID         json.RawMessage    `json:"id"`
	URL        string             `json:"url"`
	Title      string             `json:"title"`
	Timestamps []models.Timestamp `json:"timestamps"`
}

func parseJSON(data []byte) ([]models.Video, error) {
	var raw []jsonVideo
	if err := json.Unmarshal(bytes.TrimPrefix(data, utf8BOM), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog json: %w", err)
	}

	videos := make([]models.Video, 0, len(raw))
	for i, v := range raw {
		id, err := decodeID(v.ID)
		if err != nil {
			return nil, fmt.Errorf("video %d: %w", i, err)
		}
		if v.Timestamps == nil {
			v.Timestamps = []models.Timestamp{}
		}
		videos = append(videos, models.Video{
			ID:         id,
			URL:        v.URL,
			Title:      v.Title,
			Timestamps: v.Timestamps,
		})
	}

	return videos, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id must be a string or number: %w", err)
	}
	return n.String(), nil
}

// parseCSV groups rows by id. The first row for an id supplies url and
// title; every row contributes one timestamp in file order.
func parseCSV(data []byte) ([]models.Video, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, ErrMissingHeader
		}
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := columns[key]; !dup {
			columns[key] = i
		}
	}
	if _, ok := columns["id"]; !ok {
		return nil, ErrMissingHeader
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	videos := []models.Video{}
	index := make(map[string]int)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}

		id := field(record, "id")
		pos, seen := index[id]
		if !seen {
			pos = len(videos)
			index[id] = pos
			videos = append(videos, models.Video{
				ID:         id,
				URL:        field(record, "url"),
				Title:      field(record, "title"),
				Timestamps: []models.Timestamp{},
			})
		}

		videos[pos].Timestamps = append(videos[pos].Timestamps, models.Timestamp{
			Label:     field(record, "label"),
			Timestamp: field(record, "timestamp"),
		})
	}

	return videos, nil
}
