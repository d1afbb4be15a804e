package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a Timetable grid into a landscape A4 document.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF with the weekly grid, one column per weekday.
func (e *PDFExporter) Render(t Timetable) ([]byte, error) {
	if len(t.Days) == 0 {
		return nil, fmt.Errorf("pdf requires at least one day column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if t.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(t.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	timeWidth := 28.0
	colWidth := (277.0 - timeWidth) / float64(len(t.Days))

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(timeWidth, 8, "Time", "1", 0, "C", false, 0, "")
	for _, day := range t.Days {
		pdf.CellFormat(colWidth, 8, day, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range t.Rows {
		pdf.CellFormat(timeWidth, 9, row.Time, "1", 0, "C", false, 0, "")
		for i := 0; i < len(t.Days); i++ {
			var cell string
			if i < len(row.Cells) {
				cell = row.Cells[i]
			}
			pdf.CellFormat(colWidth, 9, cell, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
