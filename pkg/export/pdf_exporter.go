package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfUsableWidth = 277.0
	pdfMaxCellRune = 40
)

// PDFExporter renders a Dataset as a landscape A4 table, e.g. a shelf manifest.
type PDFExporter struct {
	now func() time.Time
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{now: time.Now}
}

// ContentType is the MIME type of rendered output.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Render creates a PDF with a title line, a generation timestamp and the
// table. Column widths follow the longest cell in each column.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
	}
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 5, fmt.Sprintf("Generated %s - %d rows", e.now().UTC().Format("2006-01-02 15:04 MST"), len(data.Rows)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	widths := columnWidths(data)
	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range data.Headers {
			pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	for _, row := range data.Rows {
		if pdf.GetY()+6 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		for i := range data.Headers {
			cell := ""
			if i < len(row) {
				cell = truncate(row[i], pdfMaxCellRune)
			}
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(data Dataset) []float64 {
	weights := make([]float64, len(data.Headers))
	var total float64
	for i, h := range data.Headers {
		longest := len([]rune(h))
		for _, row := range data.Rows {
			if i < len(row) {
				if n := len([]rune(row[i])); n > longest {
					longest = n
				}
			}
		}
		if longest > pdfMaxCellRune {
			longest = pdfMaxCellRune
		}
		if longest < 4 {
			longest = 4
		}
		weights[i] = float64(longest)
		total += weights[i]
	}
	for i := range weights {
		weights[i] = weights[i] / total * pdfUsableWidth
	}
	return weights
}

func truncate(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}
