// Package reconcile computes how a party's payments settle their invoices:
// FIFO allocation of payments to bills in date order, the unallocated
// "advance" balance carried per party, and chronological ledger statements
// with running balances.
//
// Everything here is pure computation over slices the caller has already
// loaded. Inputs are never mutated, so the same lists can be fed through
// any number of report views, and re-running with identical inputs always
// yields identical outputs.
package reconcile

import "time"

// Direction tags what a payment record means for the ledger. It replaces
// receipt-number prefix sniffing: the prefix is display formatting, the
// direction is the business meaning, and they are assigned together at
// ingestion time.
type Direction string

const (
	SalesReceipt      Direction = "sales_receipt"      // money received from the party
	PurchasePayment   Direction = "purchase_payment"   // money paid to the party
	AdvanceAllocation Direction = "advance_allocation" // advance applied to a new bill
	OtherPayment      Direction = "other"
)

// Invoice is the canonical bill shape the engine works on. Repos and
// services adapt their rows into this once, at the read boundary.
// TotalAmount is signed: advance-type documents may carry a negative total.
type Invoice struct {
	ID          string
	Number      string
	Date        time.Time
	PartyID     string
	TotalAmount float64
	// PaidAmount is any previously recorded paid portion the walk
	// starts from; usually zero.
	PaidAmount float64
}

// Allocation is one slice of a payment applied to a specific bill.
type Allocation struct {
	BillType        string  `json:"bill_type"`
	BillID          string  `json:"bill_id"`
	BillNumber      string  `json:"bill_number"`
	Amount          float64 `json:"amount"`
	BillOutstanding float64 `json:"bill_outstanding"` // outstanding at allocation time
	SettlesBill     bool    `json:"settles_bill"`
}

// Payment is the canonical payment/receipt shape.
type Payment struct {
	ID            string
	ReceiptNumber string
	Date          time.Time
	PartyID       string
	Direction     Direction
	TotalAmount   float64
	Mode          string
	Reference     string
	Allocations   []Allocation
	// UsedAmount is any previously consumed portion the walk starts
	// from; usually zero.
	UsedAmount float64
}

// ReceiptRef is one entry of an invoice's allocation trail: which receipt
// paid it, how much, and when.
type ReceiptRef struct {
	ReceiptNumber string    `json:"receipt_number"`
	Amount        float64   `json:"amount"`
	Date          time.Time `json:"date"`
}

// Allocated returns the sum of a payment's allocation amounts.
func (p Payment) Allocated() float64 {
	var sum float64
	for _, a := range p.Allocations {
		sum += a.Amount
	}
	return sum
}

// Unallocated returns the payment's contribution to the party's advance
// balance. May be negative if allocations exceed the total (upstream data
// corruption); callers deciding available credit must clamp.
func (p Payment) Unallocated() float64 {
	return p.TotalAmount - p.Allocated()
}
