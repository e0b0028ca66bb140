package models

import "time"

// PaymentDirection is the business meaning of a payment record. The
// receipt-number prefix (RCP/PAY/ADV) is derived from it for display,
// never parsed back.
type PaymentDirection string

const (
	DirectionSalesReceipt      PaymentDirection = "sales_receipt"
	DirectionPurchasePayment   PaymentDirection = "purchase_payment"
	DirectionAdvanceAllocation PaymentDirection = "advance_allocation"
	DirectionOther             PaymentDirection = "other"
)

// Payment represents money received from (or paid to) a party.
type Payment struct {
	ID                int                 `json:"id"`
	ReceiptNumber     string              `json:"receipt_number"`
	PartyID           int                 `json:"party_id"`
	Direction         PaymentDirection    `json:"direction"`
	Amount            float64             `json:"amount"`
	PaymentDate       time.Time           `json:"payment_date"`
	Mode              string              `json:"mode"` // cash, upi, bank, cheque, online
	Reference         string              `json:"reference"`
	Notes             string              `json:"notes"`
	CreatedByUserID   int                 `json:"created_by_user_id"`
	CreatedAt         time.Time           `json:"created_at"`
	Allocations       []PaymentAllocation `json:"allocations,omitempty"`
}

// PaymentAllocation links part of a payment to a specific bill. The
// allocation list only ever grows as advance gets consumed by new bills.
type PaymentAllocation struct {
	ID              int     `json:"id"`
	PaymentID       int     `json:"payment_id"`
	BillKind        string  `json:"bill_kind"`
	BillID          int     `json:"bill_id"`
	BillNumber      string  `json:"bill_number"`
	Amount          float64 `json:"amount"`
	BillOutstanding float64 `json:"bill_outstanding"` // outstanding at allocation time
	SettlesBill     bool    `json:"settles_bill"`
}

// CreatePaymentRequest records a payment, optionally against a bill.
// BillID nil means the full amount goes to the party's advance.
type CreatePaymentRequest struct {
	PartyID   int              `json:"party_id"`
	Direction PaymentDirection `json:"direction"`
	Amount    float64          `json:"amount"`
	Date      string           `json:"date"` // "2006-01-02", interpreted in IST
	Mode      string           `json:"mode"`
	Reference string           `json:"reference"`
	Notes     string           `json:"notes"`
	BillID    *int             `json:"bill_id"`
}
