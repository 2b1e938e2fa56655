// Package documents renders the quotation and purchase contract PDFs sent to
// qualified leads, validates them, and archives them to blob storage.
package documents

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Kind names a generated document. It is also the archived file stem.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindContract  Kind = "contract"
)

// Kinds lists every document the generator can produce.
var Kinds = []Kind{KindQuotation, KindContract}

// Filename returns the attachment name for the kind.
func (k Kind) Filename() string {
	return string(k) + ".pdf"
}

// Customer is the buyer printed on every document.
type Customer struct {
	Name     string
	Email    string
	Phone    string
	Interest string
}

// LineItem is a priced quotation row, excluding GST.
type LineItem struct {
	Name  string  `toml:"name"`
	Price float64 `toml:"price"`
}

// QuotationConfig prices a quotation. With no items, a single row for the
// customer's vehicle of interest at BasePrice is quoted.
type QuotationConfig struct {
	BasePrice float64
	GSTRate   float64
	Items     []LineItem
}

// ContractConfig holds the commercial terms of a purchase contract.
type ContractConfig struct {
	DeliveryLocation string
	PaymentTerms     string
	Customizations   []string
	Jurisdiction     string
}

// Totals is the priced summary of a quotation.
type Totals struct {
	Items    []LineItem
	Subtotal float64
	GST      float64
	Total    float64
}

// Price computes quotation totals for the customer.
func (q QuotationConfig) Price(c Customer) Totals {
	items := q.Items
	if len(items) == 0 {
		name := c.Interest
		if name == "" {
			name = "Vehicle"
		}
		items = []LineItem{{Name: name, Price: q.BasePrice}}
	}

	var subtotal float64
	for _, it := range items {
		subtotal += it.Price
	}
	gst := subtotal * q.GSTRate

	return Totals{
		Items:    items,
		Subtotal: subtotal,
		GST:      gst,
		Total:    subtotal + gst,
	}
}

// FormatINR renders an amount with thousands separators and two decimals.
// The rupee sign is spelled out because the core PDF fonts lack the glyph.
func FormatINR(v float64) string {
	return message.NewPrinter(language.English).Sprintf("INR %.2f", v)
}

// customizationList joins snake_case customizations for display, or "None".
func customizationList(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = strings.ReplaceAll(it, "_", " ")
	}
	return strings.Join(out, ", ")
}
