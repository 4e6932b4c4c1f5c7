package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/vsinha/freightpay/pkg/application/dto"
)

// WritePDF renders one A4 page per truckload statement
func WritePDF(run *dto.PayrollRun, w io.Writer) error {
	pdf := buildPDF(run)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF: %w", err)
	}
	return nil
}

func buildPDF(run *dto.PayrollRun) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payroll Statements", false)

	if len(run.Statements) == 0 {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.Cell(0, 8, "No truckloads in this run.")
		return pdf
	}

	for _, statement := range run.Statements {
		writeStatementPage(pdf, statement)
	}
	return pdf
}

func writeStatementPage(pdf *gofpdf.Fpdf, s *dto.PayrollStatement) {
	b := s.Breakdown

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Payroll Statement: Truckload %s", s.TruckloadID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Driver: %s (%s)", s.DriverName, s.DriverID))
	pdf.Ln(6)
	if !s.StartDate.IsZero() {
		pdf.Cell(0, 7, fmt.Sprintf("Period: %s to %s", formatDate(s.StartDate), formatDate(s.EndDate)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if len(b.Contributions) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		headers := []string{"Order", "Leg", "Transfer", "Quote", "Counted", "Rule"}
		widths := []float64{35, 25, 20, 30, 30, 30}
		for i, h := range headers {
			pdf.CellFormat(widths[i], 7, h, "B", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		for _, c := range b.Contributions {
			transfer := ""
			if c.Transfer {
				transfer = "yes"
			}
			pdf.CellFormat(widths[0], 6, string(c.OrderID), "", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, c.Representative.String(), "", 0, "L", false, 0, "")
			pdf.CellFormat(widths[2], 6, transfer, "", 0, "L", false, 0, "")
			pdf.CellFormat(widths[3], 6, c.Quote.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(widths[4], 6, c.Counted.StringFixed(2), "", 0, "R", false, 0, "")
			pdf.CellFormat(widths[5], 6, string(c.Rule), "", 0, "L", false, 0, "")
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	for _, e := range b.Excluded {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.Cell(0, 5, fmt.Sprintf("Excluded %s \"%s\" (%s)", e.OrderID, e.RawValue, e.Reason))
		pdf.Ln(5)
	}

	pdf.Ln(2)
	for _, line := range breakdownLines(b) {
		style := ""
		border := ""
		if line.Subtotal {
			style = "B"
			border = "T"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(110, 7, line.Label, border, 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, line.Amount, border, 1, "R", false, 0, "")
	}

	if len(b.Advisories) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 9)
		for _, a := range b.Advisories {
			pdf.MultiCell(0, 5, fmt.Sprintf("%s: %s", a.Kind, a.Message), "", "L", false)
		}
	}
}

// generatePDFOutput writes the statements PDF into the output directory
func generatePDFOutput(run *dto.PayrollRun, config Config) error {
	if err := requireOutputDir(config); err != nil {
		return err
	}

	filename := filepath.Join(config.OutputDir, pdfFilename)
	if err := buildPDF(run).OutputFileAndClose(filename); err != nil {
		return fmt.Errorf("failed to write PDF file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.out(), "📄 PDF statements saved to: %s\n", filename)
	}
	return nil
}
