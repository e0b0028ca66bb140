package reconcile

import (
	"sort"
	"time"
)

// TxnType is the kind of a statement row.
type TxnType string

const (
	TxnSale            TxnType = "sale"
	TxnPurchase        TxnType = "purchase"
	TxnPaymentReceived TxnType = "payment_received"
	TxnPaymentMade     TxnType = "payment_made"
)

// StatementRow is one line of a party's ledger. Sign convention: a
// positive balance is receivable (the party owes the business), negative
// is payable.
type StatementRow struct {
	Date        time.Time `json:"date"`
	Type        TxnType   `json:"type"`
	RefNo       string    `json:"ref_no"`
	Description string    `json:"description"`
	Debit       float64   `json:"debit"`
	Credit      float64   `json:"credit"`
	Balance     float64   `json:"balance"` // running balance after this row
}

// Statement is a party's ledger over a date range.
type Statement struct {
	PartyID        string         `json:"party_id"`
	From           time.Time      `json:"from"`
	To             time.Time      `json:"to"`
	OpeningBalance float64        `json:"opening_balance"`
	Rows           []StatementRow `json:"rows"`
	ClosingBalance float64        `json:"closing_balance"`
	TotalDebit     float64        `json:"total_debit"`
	TotalCredit    float64        `json:"total_credit"`
	// Outstanding equals the closing balance; positive = receivable,
	// negative = payable.
	Outstanding float64 `json:"outstanding"`
}

type txn struct {
	date   time.Time
	typ    TxnType
	refNo  string
	desc   string
	amount float64
}

// delta is the transaction's effect on the running balance: sales and
// payments made to the party push the balance up (they owe us more /
// we paid money out), purchases and payments received push it down.
func (t txn) delta() float64 {
	switch t.typ {
	case TxnSale, TxnPaymentMade:
		return t.amount
	case TxnPurchase, TxnPaymentReceived:
		return -t.amount
	}
	return 0
}

// BuildStatement combines a party's sales invoices, purchase bills and
// payments into one chronological stream, splits it at the range start to
// compute the opening balance, then folds the in-range transactions into
// rows with a running balance. Ties on date keep input order (sales,
// then purchases, then payments, each in given order).
//
// A party with no transactions in range yields an empty row list with
// opening == closing.
func BuildStatement(partyID string, sales, purchases []Invoice, payments []Payment, from, to time.Time) Statement {
	txns := make([]txn, 0, len(sales)+len(purchases)+len(payments))

	for _, inv := range sales {
		txns = append(txns, txn{inv.Date, TxnSale, inv.Number, "Sales invoice " + inv.Number, inv.TotalAmount})
	}
	for _, bill := range purchases {
		txns = append(txns, txn{bill.Date, TxnPurchase, bill.Number, "Purchase bill " + bill.Number, bill.TotalAmount})
	}
	for _, p := range payments {
		switch p.Direction {
		case PurchasePayment:
			txns = append(txns, txn{p.Date, TxnPaymentMade, p.ReceiptNumber, "Payment made " + p.ReceiptNumber, p.TotalAmount})
		default:
			// Sales receipts and advance allocations are money
			// received from the party.
			txns = append(txns, txn{p.Date, TxnPaymentReceived, p.ReceiptNumber, "Payment received " + p.ReceiptNumber, p.TotalAmount})
		}
	}

	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].date.Before(txns[j].date)
	})

	st := Statement{PartyID: partyID, From: from, To: to}

	for _, t := range txns {
		if t.date.Before(from) {
			st.OpeningBalance += t.delta()
		}
	}

	balance := st.OpeningBalance
	for _, t := range txns {
		if t.date.Before(from) || t.date.After(to) {
			continue
		}

		row := StatementRow{
			Date:        t.date,
			Type:        t.typ,
			RefNo:       t.refNo,
			Description: t.desc,
		}
		// Sales and payments made post to the credit column; purchases
		// and payments received to debit. The running balance moves by
		// credit minus debit.
		if t.delta() >= 0 {
			row.Credit = t.amount
		} else {
			row.Debit = t.amount
		}
		balance += t.delta()
		row.Balance = balance

		st.TotalDebit += row.Debit
		st.TotalCredit += row.Credit
		st.Rows = append(st.Rows, row)
	}

	st.ClosingBalance = balance
	st.Outstanding = balance
	return st
}
