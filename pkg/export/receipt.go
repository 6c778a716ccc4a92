package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Receipt holds the fields printed on a payment receipt.
type Receipt struct {
	Number      string
	Institution string
	StudentName string
	StudentDNI  string
	Concept     string
	Installment int
	Amount      float64
	PaidAt      time.Time
	GeneratedAt time.Time
}

// RenderReceipt produces a single-page A5 receipt PDF.
func RenderReceipt(r Receipt) ([]byte, error) {
	if r.Number == "" {
		return nil, fmt.Errorf("receipt number required")
	}
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now()
	}
	pdf := gofpdf.New("P", "mm", "A5", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(12, 12, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 8, tr(r.Institution), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, tr("Payment receipt No. "+r.Number), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	line := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(40, 7, tr(label), "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 7, tr(value), "", 1, "", false, 0, "")
	}
	line("Student", r.StudentName)
	line("DNI", r.StudentDNI)
	line("Concept", r.Concept)
	line("Installment", fmt.Sprintf("%d", r.Installment))
	line("Paid at", r.PaidAt.Format("2006-01-02 15:04"))
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(40, 9, "Amount", "1", 0, "", false, 0, "")
	pdf.CellFormat(0, 9, fmt.Sprintf("%.2f", r.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 5, "Generated "+r.GeneratedAt.Format(time.RFC3339), "", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
