package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Invoice holds the fields rendered onto a purchase invoice.
type Invoice struct {
	Number      string
	ParentName  string
	ParentEmail string
	PlanName    string
	Credits     int
	AmountCents int64
	IssuedAt    time.Time
}

// InvoiceRenderer renders purchase invoices as PDF documents.
type InvoiceRenderer struct {
	academyName string
}

// NewInvoiceRenderer constructs a renderer branded with the academy name.
func NewInvoiceRenderer(academyName string) *InvoiceRenderer {
	if academyName == "" {
		academyName = "ChampCode Academy"
	}
	return &InvoiceRenderer{academyName: academyName}
}

// Render produces the PDF bytes for a single invoice.
func (r *InvoiceRenderer) Render(inv Invoice) ([]byte, error) {
	if inv.Number == "" {
		return nil, fmt.Errorf("invoice requires a number")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(0, 10, r.academyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Invoice %s", inv.Number), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, inv.IssuedAt.Format("2 Jan 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 7, "Billed to", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, inv.ParentName, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, inv.ParentEmail, "", 1, "L", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, "Credits", "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(90, 8, inv.PlanName, "1", 0, "L", false, 0, "")
	pdf.CellFormat(45, 8, fmt.Sprintf("%d", inv.Credits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 8, formatCents(inv.AmountCents), "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(135, 8, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(45, 8, formatCents(inv.AmountCents), "1", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "Lesson credits are applied to your account immediately after payment.", "", 1, "L", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
