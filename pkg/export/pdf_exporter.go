package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth  = 277.0 // A4 landscape minus 10mm margins
	lineHeight = 5.0
)

// PDFExporter renders tables as a landscape grid whose cells may span
// several lines. The first column is kept narrow for row labels.
type PDFExporter struct {
	LabelWidth float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{LabelWidth: 28}
}

// Render creates a PDF document with the table title and body.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(table.Title), "", 1, "C", false, 0, "")
		pdf.Ln(3)
	}

	widths := e.columnWidths(len(table.Headers))

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, header := range table.Headers {
		pdf.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		height := lineHeight
		for i := range table.Headers {
			if i >= len(row) {
				break
			}
			lines := pdf.SplitLines([]byte(tr(row[i])), widths[i]-2)
			if h := float64(len(lines)) * lineHeight; h > height {
				height = h
			}
		}
		_, pageHeight := pdf.GetPageSize()
		_, _, _, bottom := pdf.GetMargins()
		if pdf.GetY()+height > pageHeight-bottom {
			pdf.AddPage()
		}
		for i := range table.Headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			x, y := pdf.GetXY()
			pdf.Rect(x, y, widths[i], height, "D")
			pdf.MultiCell(widths[i], lineHeight, tr(value), "", "L", false)
			pdf.SetXY(x+widths[i], y)
		}
		pdf.Ln(height)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) columnWidths(columns int) []float64 {
	widths := make([]float64, columns)
	if columns == 1 {
		widths[0] = pageWidth
		return widths
	}
	label := e.LabelWidth
	if label <= 0 || label >= pageWidth {
		label = pageWidth / float64(columns)
	}
	widths[0] = label
	rest := (pageWidth - label) / float64(columns-1)
	for i := 1; i < columns; i++ {
		widths[i] = rest
	}
	return widths
}
