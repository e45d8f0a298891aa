package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"wagesheet/internal/domain/wages"
)

const (
	ContentTypePDF = "application/pdf"
	FileNamePDF    = wages.ExportBaseName + ".pdf"
)

var pdfColumnWidths = []float64{55, 28, 24, 28, 26, 22, 22, 26, 30}

// WritePDF renders the wage sheet as a landscape A4 table with a totals row.
// The core PDF fonts have no rupee glyph, so amounts are written without a symbol.
func WritePDF(w io.Writer, records []wages.Record, generatedAt time.Time) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(wages.SheetName, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, wages.SheetName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", generatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(242, 242, 242)
	for i, column := range wages.Columns {
		pdf.CellFormat(pdfColumnWidths[i], 8, column, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(records) == 0 {
		pdf.CellFormat(sumWidths(), 8, "No records available", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, r := range records {
		cells := []string{
			tr(r.Name),
			amount(r.GrossPay),
			r.DaysWorked.StringFixed(2),
			amount(r.Payable),
			amount(r.EPF),
			amount(r.ESI),
			amount(r.Welfare),
			amount(r.Advance),
			amount(r.NetPay),
		}
		for i, value := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnWidths[i], 7, value, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(records) > 0 {
		totals := wages.Sum(records)
		pdf.SetFont("Helvetica", "B", 10)
		cells := []string{
			fmt.Sprintf("Total (%d)", totals.Count),
			amount(totals.GrossPay),
			"",
			amount(totals.Payable),
			amount(totals.EPF),
			amount(totals.ESI),
			amount(totals.Welfare),
			amount(totals.Advance),
			amount(totals.NetPay),
		}
		for i, value := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnWidths[i], 7, value, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func sumWidths() float64 {
	total := 0.0
	for _, width := range pdfColumnWidths {
		total += width
	}
	return total
}
