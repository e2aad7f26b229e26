package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Dataset is tabular export content. Every row has one cell per header.
type Dataset struct {
	Headers []string
	Rows    [][]string
}

// CSVExporter renders a Dataset as CSV.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// ContentType is the MIME type of rendered output.
func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Render produces CSV bytes for the dataset.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	for i, row := range data.Rows {
		if len(row) != len(data.Headers) {
			return nil, fmt.Errorf("csv row %d has %d cells, want %d", i, len(row), len(data.Headers))
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
