package models

import "time"

// InvoiceKind distinguishes the document types sharing the invoice shape.
type InvoiceKind string

const (
	KindSale      InvoiceKind = "sale"
	KindPurchase  InvoiceKind = "purchase"
	KindQuotation InvoiceKind = "quotation"
	KindChallan   InvoiceKind = "challan"
)

// Invoice represents a sales invoice, purchase bill, quotation or challan.
// TotalAmount is signed; advance-type documents may carry a negative total.
type Invoice struct {
	ID            int           `json:"id"`
	Kind          InvoiceKind   `json:"kind"`
	Number        string        `json:"number"`
	PartyID       int           `json:"party_id"`
	Date          time.Time     `json:"date"`
	TaxableAmount float64       `json:"taxable_amount"`
	TotalCGST     float64       `json:"total_cgst"`
	TotalSGST     float64       `json:"total_sgst"`
	TotalIGST     float64       `json:"total_igst"`
	TotalDiscount float64       `json:"total_discount"`
	TotalAmount   float64       `json:"total_amount"`
	Notes         string        `json:"notes"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Lines         []InvoiceLine `json:"lines,omitempty"`
}

// InvoiceLine is one item row. Quantity may come from a product
// expression ("5x3x2"); QtyExpr keeps the normalized display form and
// Qty the numeric product. All money fields are computed at save time.
type InvoiceLine struct {
	ID            int          `json:"id"`
	InvoiceID     int          `json:"invoice_id"`
	ItemName      string       `json:"item_name"`
	QtyExpr       string       `json:"qty_expr,omitempty"`
	Qty           float64      `json:"qty"`
	Rate          float64      `json:"rate"`
	RawAmount     float64      `json:"raw_amount"`
	DiscountType  string       `json:"discount_type,omitempty"`
	DiscountValue float64      `json:"discount_value"`
	Discount      float64      `json:"discount"`
	NetAmount     float64      `json:"net_amount"`
	GSTPercent    float64      `json:"gst_percent"`
	CGSTAmount    float64      `json:"cgst_amount"`
	SGSTAmount    float64      `json:"sgst_amount"`
	IGSTAmount    float64      `json:"igst_amount"`
	LineTotal     float64      `json:"line_total"`
}

// CreateInvoiceLineRequest is one line as entered on the form; amounts
// are computed server-side.
type CreateInvoiceLineRequest struct {
	ItemName      string  `json:"item_name"`
	QtyExpr       string  `json:"qty_expr"`
	Qty           float64 `json:"qty"`
	Rate          float64 `json:"rate"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
	GSTPercent    float64 `json:"gst_percent"`
}

// CreateInvoiceRequest represents the request to create an invoice.
// Saving an edit is a full overwrite of the same shape.
type CreateInvoiceRequest struct {
	Kind    InvoiceKind                `json:"kind"`
	PartyID int                        `json:"party_id"`
	Date    string                     `json:"date"` // "2006-01-02", interpreted in IST
	Notes   string                     `json:"notes"`
	Lines   []CreateInvoiceLineRequest `json:"lines"`
}

// InvoiceWithDetails includes the party and the advance applied on save.
type InvoiceWithDetails struct {
	Invoice
	PartyName      string  `json:"party_name"`
	AdvanceApplied float64 `json:"advance_applied,omitempty"`
}
