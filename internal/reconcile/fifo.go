package reconcile

import "sort"

// InvoiceStatus is one invoice annotated with what the FIFO walk paid
// onto it and from which receipts.
type InvoiceStatus struct {
	Invoice
	Paid            float64      `json:"paid_amount"`
	Outstanding     float64      `json:"outstanding"`
	PaymentReceipts []ReceiptRef `json:"payment_receipts"`
}

// PartySummary aggregates one party's position after allocation.
type PartySummary struct {
	PartyID          string  `json:"party_id"`
	TotalInvoices    int     `json:"total_invoices"`
	TotalAmount      float64 `json:"total_amount"`
	TotalPaid        float64 `json:"total_paid"`
	TotalOutstanding float64 `json:"total_outstanding"`
	Advance          float64 `json:"advance"`
}

// FIFOResult is the full output of one allocation walk.
type FIFOResult struct {
	Invoices []InvoiceStatus `json:"invoices"`
	Summary  PartySummary    `json:"summary"`
}

// AllocateFIFO distributes payments across invoices strictly by date:
// oldest invoice drains the oldest payment first. A single payment may
// cover several invoices and a single invoice may draw from several
// payments. Invoices left with outstanding > 0 stay unpaid; payment money
// left over is (or remains) advance.
//
// Both lists are sorted by date with a stable sort, so records sharing a
// date keep their input order — no secondary key is imposed.
// Inputs are not mutated.
func AllocateFIFO(invoices []Invoice, payments []Payment) FIFOResult {
	statuses := make([]InvoiceStatus, len(invoices))
	for i, inv := range invoices {
		statuses[i] = InvoiceStatus{Invoice: inv, Paid: inv.PaidAmount}
	}
	sort.SliceStable(statuses, func(i, j int) bool {
		return statuses[i].Date.Before(statuses[j].Date)
	})

	remaining := make([]float64, len(payments))
	order := make([]int, len(payments))
	for i, p := range payments {
		remaining[i] = p.TotalAmount - p.UsedAmount
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return payments[order[i]].Date.Before(payments[order[j]].Date)
	})

	var totalPaid float64
	ii, pi := 0, 0
	for ii < len(statuses) && pi < len(order) {
		outstanding := statuses[ii].TotalAmount - statuses[ii].Paid
		if outstanding <= 0 {
			ii++
			continue
		}

		pay := order[pi]
		if remaining[pay] <= 0 {
			pi++
			continue
		}

		apply := outstanding
		if remaining[pay] < apply {
			apply = remaining[pay]
		}

		statuses[ii].Paid += apply
		remaining[pay] -= apply
		totalPaid += apply
		statuses[ii].PaymentReceipts = append(statuses[ii].PaymentReceipts, ReceiptRef{
			ReceiptNumber: payments[pay].ReceiptNumber,
			Amount:        apply,
			Date:          payments[pay].Date,
		})
		// Neither pointer advances here: the next iteration re-checks
		// both sides, letting one payment span invoices and vice versa.
	}

	var totalAmount float64
	partyID := ""
	for i := range statuses {
		out := statuses[i].TotalAmount - statuses[i].Paid
		if out < 0 {
			out = 0
		}
		statuses[i].Outstanding = out
		totalAmount += statuses[i].TotalAmount
		if partyID == "" {
			partyID = statuses[i].PartyID
		}
	}
	if partyID == "" && len(payments) > 0 {
		partyID = payments[0].PartyID
	}

	summary := PartySummary{
		PartyID:       partyID,
		TotalInvoices: len(statuses),
		TotalAmount:   totalAmount,
		TotalPaid:     totalPaid,
	}
	if totalAmount > totalPaid {
		summary.TotalOutstanding = totalAmount - totalPaid
	}

	// Money left on payments after the walk is advance.
	for _, pay := range order {
		if remaining[pay] > 0 {
			summary.Advance += remaining[pay]
		}
	}

	return FIFOResult{Invoices: statuses, Summary: summary}
}
