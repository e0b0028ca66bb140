package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2026, 4, n, 0, 0, 0, 0, time.UTC)
}

func TestAllocateFIFOPartialCoverage(t *testing.T) {
	invoices := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(1), PartyID: "p1", TotalAmount: 100},
		{ID: "i2", Number: "INV-002", Date: day(2), PartyID: "p1", TotalAmount: 200},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(3), PartyID: "p1", Direction: SalesReceipt, TotalAmount: 150},
	}

	res := AllocateFIFO(invoices, payments)

	require.Len(t, res.Invoices, 2)
	assert.Equal(t, 100.0, res.Invoices[0].Paid, "earliest invoice settles first")
	assert.Equal(t, 0.0, res.Invoices[0].Outstanding)
	assert.Equal(t, 50.0, res.Invoices[1].Paid)
	assert.Equal(t, 150.0, res.Invoices[1].Outstanding)

	assert.Equal(t, 150.0, res.Summary.TotalPaid)
	assert.Equal(t, 150.0, res.Summary.TotalOutstanding)
	assert.Equal(t, 0.0, res.Summary.Advance)

	// One payment covered two invoices: both carry a receipt reference.
	require.Len(t, res.Invoices[0].PaymentReceipts, 1)
	assert.Equal(t, "RCP-001", res.Invoices[0].PaymentReceipts[0].ReceiptNumber)
	require.Len(t, res.Invoices[1].PaymentReceipts, 1)
	assert.Equal(t, 50.0, res.Invoices[1].PaymentReceipts[0].Amount)
}

func TestAllocateFIFOOneInvoiceManyPayments(t *testing.T) {
	invoices := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(1), PartyID: "p1", TotalAmount: 500},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(2), PartyID: "p1", TotalAmount: 200},
		{ID: "r2", ReceiptNumber: "RCP-002", Date: day(5), PartyID: "p1", TotalAmount: 200},
	}

	res := AllocateFIFO(invoices, payments)

	require.Len(t, res.Invoices, 1)
	assert.Equal(t, 400.0, res.Invoices[0].Paid)
	assert.Equal(t, 100.0, res.Invoices[0].Outstanding)
	require.Len(t, res.Invoices[0].PaymentReceipts, 2)
	assert.Equal(t, "RCP-001", res.Invoices[0].PaymentReceipts[0].ReceiptNumber)
	assert.Equal(t, "RCP-002", res.Invoices[0].PaymentReceipts[1].ReceiptNumber)
}

func TestAllocateFIFOOverpaymentBecomesAdvance(t *testing.T) {
	invoices := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(1), PartyID: "p1", TotalAmount: 300},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(2), PartyID: "p1", TotalAmount: 450},
	}

	res := AllocateFIFO(invoices, payments)

	assert.Equal(t, 300.0, res.Summary.TotalPaid)
	assert.Equal(t, 0.0, res.Summary.TotalOutstanding)
	assert.Equal(t, 150.0, res.Summary.Advance)
}

func TestAllocateFIFOConservation(t *testing.T) {
	invoices := []Invoice{
		{ID: "i1", Date: day(1), PartyID: "p1", TotalAmount: 120.50},
		{ID: "i2", Date: day(3), PartyID: "p1", TotalAmount: 79.50},
		{ID: "i3", Date: day(7), PartyID: "p1", TotalAmount: 310},
	}
	payments := []Payment{
		{ID: "r1", Date: day(2), PartyID: "p1", TotalAmount: 100},
		{ID: "r2", Date: day(8), PartyID: "p1", TotalAmount: 60},
	}

	res := AllocateFIFO(invoices, payments)

	// Payments fall short, so every rupee paid comes from a payment.
	assert.InDelta(t, 160.0, res.Summary.TotalPaid, 0.001)

	var outstanding float64
	for _, inv := range res.Invoices {
		outstanding += inv.Outstanding
	}
	assert.InDelta(t, res.Summary.TotalAmount, res.Summary.TotalPaid+outstanding, 0.001,
		"paid + outstanding must equal total invoiced")
}

func TestAllocateFIFOSameDateKeepsInputOrder(t *testing.T) {
	invoices := []Invoice{
		{ID: "first", Number: "INV-001", Date: day(1), PartyID: "p1", TotalAmount: 100},
		{ID: "second", Number: "INV-002", Date: day(1), PartyID: "p1", TotalAmount: 100},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(2), PartyID: "p1", TotalAmount: 100},
	}

	res := AllocateFIFO(invoices, payments)

	assert.Equal(t, "first", res.Invoices[0].ID)
	assert.Equal(t, 100.0, res.Invoices[0].Paid)
	assert.Equal(t, 0.0, res.Invoices[1].Paid)
}

func TestAllocateFIFOSkipsSettledAndSpentRecords(t *testing.T) {
	invoices := []Invoice{
		{ID: "i1", Date: day(1), PartyID: "p1", TotalAmount: 100, PaidAmount: 100},
		{ID: "i2", Date: day(2), PartyID: "p1", TotalAmount: 50},
	}
	payments := []Payment{
		{ID: "r1", Date: day(3), PartyID: "p1", TotalAmount: 80, UsedAmount: 80},
		{ID: "r2", Date: day(4), PartyID: "p1", TotalAmount: 50},
	}

	res := AllocateFIFO(invoices, payments)

	assert.Equal(t, 50.0, res.Summary.TotalPaid)
	assert.Equal(t, 0.0, res.Invoices[1].Outstanding)
	require.Len(t, res.Invoices[1].PaymentReceipts, 1)
}

func TestAllocateFIFOEmptyInputs(t *testing.T) {
	res := AllocateFIFO(nil, nil)
	assert.Empty(t, res.Invoices)
	assert.Equal(t, PartySummary{}, res.Summary)

	res = AllocateFIFO(nil, []Payment{{ID: "r1", PartyID: "p1", Date: day(1), TotalAmount: 75}})
	assert.Equal(t, 75.0, res.Summary.Advance)
	assert.Equal(t, "p1", res.Summary.PartyID)
}

func TestAllocateFIFOIdempotent(t *testing.T) {
	invoices := []Invoice{
		{ID: "i1", Date: day(1), PartyID: "p1", TotalAmount: 100},
		{ID: "i2", Date: day(2), PartyID: "p1", TotalAmount: 250},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(3), PartyID: "p1", TotalAmount: 180},
	}

	first := AllocateFIFO(invoices, payments)
	second := AllocateFIFO(invoices, payments)

	assert.Equal(t, first, second)
	// The source lists themselves stay untouched.
	assert.Equal(t, 0.0, invoices[0].PaidAmount)
	assert.Equal(t, 0.0, payments[0].UsedAmount)
}
