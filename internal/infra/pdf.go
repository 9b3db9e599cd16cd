package infra

// pdf.go — report rendering with go-pdf/fpdf.
// Produces A4 landscape tabular reports (inventory, sales) with a title
// header, generation timestamp, column headings and zebra-striped rows.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
)

// ReportTable is a rendered-agnostic description of a tabular report.
// Widths are relative; they are scaled to the printable page width.
type ReportTable struct {
	Title   string
	Headers []string
	Widths  []float64
	Rows    [][]string
}

// GenerateReportPDF writes the table as a PDF under storagePath and returns
// the absolute file path. fileName must not contain path separators.
func GenerateReportPDF(table ReportTable, storagePath, fileName string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "InterColor Pinturas", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, table.Title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generado: "+time.Now().Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// Scale relative widths to the printable width
	var totalW float64
	for _, w := range table.Widths {
		totalW += w
	}
	widths := make([]float64, len(table.Widths))
	for i, w := range table.Widths {
		widths[i] = w / totalW * contentW
	}

	// ── Column headings ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range table.Headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	// ── Rows ──────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	fill := false
	for _, row := range table.Rows {
		pdf.SetFillColor(245, 245, 245)
		for i, cell := range row {
			align := "L"
			if i > 0 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
