package documents

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin   = 20.0
	headerFill   = 0x10
	contractLine = 6.0
)

type clause struct {
	title string
	text  string
}

func contractClauses(c Customer, cfg ContractConfig) []clause {
	vehicle := c.Interest
	if vehicle == "" {
		vehicle = "vehicle"
	}
	return []clause{
		{"Scope of Purchase", fmt.Sprintf("The Buyer agrees to purchase the %s including approved customizations as per final order form.", vehicle)},
		{"Price and Taxes", "All prices are in INR and inclusive of applicable taxes. GST applicable to luxury vehicles shall be itemized in the tax invoice."},
		{"Payments", cfg.PaymentTerms + ". Payments are to be made via bank transfer or other approved modes."},
		{"Delivery", fmt.Sprintf("Delivery will be made at %s subject to availability, regulatory compliance, and receipt of due payments.", cfg.DeliveryLocation)},
		{"Inspection & Acceptance", "Buyer may inspect the vehicle upon delivery. Acceptance occurs upon signing the delivery note or registration completion."},
		{"Registration & Compliance", "All RTO registration, insurance, and statutory compliances will be coordinated by the dealership with Buyer cooperation."},
		{"Warranty", "Manufacturer warranty terms apply as per official documentation. Any extended warranties will be listed separately."},
		{"Cancellation & Refunds", "If the Buyer cancels prior to delivery, cancellation fees may apply to cover actual losses incurred."},
		{"Confidentiality", "Both parties shall keep this agreement, pricing, and specifications confidential, except as required by law."},
		{"Limitation of Liability", "In no event shall the dealership be liable for indirect or consequential losses. Liability is limited to the amounts paid."},
		{"Governing Law & Jurisdiction", fmt.Sprintf("This contract is governed by the laws of India. Courts in %s shall have exclusive jurisdiction.", cfg.Jurisdiction)},
		{"Arbitration", "Any dispute shall be referred to a sole arbitrator appointed mutually, under the Arbitration and Conciliation Act, 1996."},
		{"Force Majeure", "Neither party shall be liable for delays due to events beyond reasonable control, including natural calamities or government actions."},
		{"Entire Agreement", "This document with its annexures constitutes the entire agreement and supersedes prior communications on the subject."},
	}
}

func newDocument(company, title string, at time.Time) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, 15, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetCreationDate(at)
	pdf.SetModificationDate(at)
	pdf.SetTitle(title, true)
	pdf.SetAuthor(company, true)
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func writeHeader(pdf *fpdf.Fpdf, tr func(string) string, company, title string, c Customer) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(company), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	meta := fmt.Sprintf("Client: %s | Email: %s | Phone: %s", c.Name, c.Email, c.Phone)
	pdf.CellFormat(0, 6, tr(meta), "", 1, "L", false, 0, "")
	pdf.Ln(4)
}

func tableRow(pdf *fpdf.Fpdf, tr func(string) string, widths []float64, cells []string, header bool) {
	if header {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(headerFill, headerFill+2, headerFill+8)
		pdf.SetTextColor(245, 245, 245)
	}
	for i, cell := range cells {
		align := "L"
		if i > 0 && !header {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, tr(cell), "1", 0, align, header, 0, "")
	}
	pdf.Ln(-1)
	if header {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
	}
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRenderFailed, err)
	}
	return buf.Bytes(), nil
}

func renderQuotation(company string, c Customer, q QuotationConfig, at time.Time) ([]byte, error) {
	pdf, tr := newDocument(company, "Quotation", at)
	pdf.AddPage()
	writeHeader(pdf, tr, company, "Quotation", c)

	totals := q.Price(c)
	widths := []float64{120, 50}

	tableRow(pdf, tr, widths, []string{"Item", "Price (excl. GST)"}, true)
	for _, it := range totals.Items {
		tableRow(pdf, tr, widths, []string{it.Name, FormatINR(it.Price)}, false)
	}
	pdf.Ln(4)

	tableRow(pdf, tr, widths, []string{"Subtotal", FormatINR(totals.Subtotal)}, false)
	tableRow(pdf, tr, widths, []string{fmt.Sprintf("GST (%.0f%%)", q.GSTRate*100), FormatINR(totals.GST)}, false)
	pdf.SetFont("Helvetica", "B", 10)
	tableRow(pdf, tr, widths, []string{"Total", FormatINR(totals.Total)}, false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "All amounts are in INR. Prices include GST as applicable.", "", "L", false)
	pdf.MultiCell(0, 5, "Quotation date: "+at.Format("2006-01-02"), "", "L", false)

	return output(pdf)
}

func renderContract(company string, c Customer, cfg ContractConfig, at time.Time) ([]byte, error) {
	pdf, tr := newDocument(company, "Purchase Contract", at)

	pdf.SetHeaderFunc(func() {
		w, h := pdf.GetPageSize()
		pdf.SetDrawColor(0x22, 0x26, 0x2e)
		pdf.SetLineWidth(0.7)
		pdf.Rect(12, 12, w-24, h-24, "D")
		pdf.SetDrawColor(0x3a, 0x40, 0x4a)
		pdf.SetLineWidth(0.25)
		pdf.Rect(16, 16, w-32, h-32, "D")
		pdf.SetY(22)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0x44, 0x4b, 0x57)
		pdf.CellFormat(0, 4, "Confidential - For the intended recipient only", "", 0, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})
	pdf.SetMargins(pageMargin+2, 22, pageMargin+2)
	pdf.SetAutoPageBreak(true, 22)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, tr(company), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, "Purchase Contract", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 10)
	parties := [][2]string{
		{"Buyer Name", c.Name},
		{"Buyer Email", c.Email},
		{"Buyer Phone", c.Phone},
		{"Vehicle", c.Interest},
		{"Delivery Location", cfg.DeliveryLocation},
		{"Payment Terms", cfg.PaymentTerms},
	}
	for _, p := range parties {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 7, p[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 7, tr(p[1]), "1", 1, "L", false, 0, "")
	}
	pdf.Ln(3)
	pdf.MultiCell(0, contractLine, tr("Customizations: "+customizationList(cfg.Customizations)), "", "L", false)
	pdf.Ln(2)

	for i, cl := range contractClauses(c, cfg) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("%d. %s", i+1, cl.title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(cl.text), "", "L", false)
		pdf.Ln(1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, "Signatures", "", 1, "L", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	date := at.Format("2006-01-02")
	for _, row := range [][2]string{
		{"__________________________", "__________________________"},
		{"Buyer Signature", "Authorized Signatory (Dealership)"},
		{c.Name, "For " + company},
		{date, date},
	} {
		pdf.CellFormat(80, 6, tr(row[0]), "", 0, "C", false, 0, "")
		pdf.CellFormat(80, 6, tr(row[1]), "", 1, "C", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, "Note: Please review all details carefully. For queries, contact your Relationship Manager.", "", "L", false)

	return output(pdf)
}
