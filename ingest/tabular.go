package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/planweave/recall/core"
	"github.com/planweave/recall/redact"
)

// TabularPayload is CSV-shaped source material: a raw CSV string, a
// pre-parsed list of row objects, or a reference to a CSV file on disk.
// Exactly one of the three is expected; Rows wins over CSV, CSV over File.
type TabularPayload struct {
	CSV  string              `json:"csv,omitempty"`
	Rows []map[string]string `json:"rows,omitempty"`
	File string              `json:"file,omitempty"`
}

// tabularRow is one extracted row with its columns in a stable order.
type tabularRow struct {
	keys   []string
	values map[string]string
}

// IngestTabular ingests tabular data. Each row becomes one record serialized
// as "key: value" lines (empty values skipped). A payload yielding no rows
// returns zero stats with a no-rows warning.
func (p *Pipeline) IngestTabular(ctx context.Context, projectID string, payload TabularPayload, policy redact.Policy) (core.IngestStats, error) {
	rows, fileLabel, err := resolveRows(payload)
	if err != nil {
		return core.IngestStats{PIITags: map[string]int{}}, err
	}

	items := make([]core.IngestItem, 0, len(rows))
	for i, row := range rows {
		text := serializeRow(row)
		if text == "" {
			continue
		}

		items = append(items, core.IngestItem{
			ProjectID: projectID,
			Source:    core.SourceTabular,
			SourceID:  fmt.Sprintf("%s:%d", fileLabel, i),
			Text:      text,
			Meta: map[string]any{
				"file": fileLabel,
				"row":  i,
			},
		})
	}

	if len(items) == 0 {
		return core.IngestStats{
			PIITags:  map[string]int{},
			Warnings: []string{WarnNoRows},
		}, nil
	}

	return p.run(ctx, projectID, core.SourceTabular, items, policy)
}

// resolveRows extracts row objects from whichever payload form was supplied,
// along with the file label used for lineage.
func resolveRows(payload TabularPayload) ([]tabularRow, string, error) {
	label := payload.File
	if label == "" {
		label = "csv"
	}

	if len(payload.Rows) > 0 {
		rows := make([]tabularRow, len(payload.Rows))
		for i, m := range payload.Rows {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			rows[i] = tabularRow{keys: keys, values: m}
		}
		return rows, label, nil
	}

	raw := payload.CSV
	if raw == "" && payload.File != "" {
		data, err := os.ReadFile(payload.File)
		if err != nil {
			return nil, label, fmt.Errorf("reading CSV file: %w", err)
		}
		raw = string(data)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, label, nil
	}

	return parseCSV(raw, label)
}

// parseCSV turns raw CSV into row objects. The first record is the header
// row; ragged records are tolerated, extra cells dropped.
func parseCSV(raw, label string) ([]tabularRow, string, error) {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, label, nil
		}
		return nil, label, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}

	var rows []tabularRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, label, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		values := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(record) {
				values[header] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, tabularRow{keys: headers, values: values})
	}

	return rows, label, nil
}

// serializeRow renders a row as "key: value" lines, skipping empty values.
func serializeRow(row tabularRow) string {
	var lines []string
	for _, key := range row.keys {
		if key == "" {
			continue
		}
		if value := row.values[key]; value != "" {
			lines = append(lines, key+": "+value)
		}
	}
	return strings.Join(lines, "\n")
}
