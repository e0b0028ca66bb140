package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatementRunningBalance(t *testing.T) {
	sales := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(2), PartyID: "p1", TotalAmount: 1000},
		{ID: "i2", Number: "INV-002", Date: day(10), PartyID: "p1", TotalAmount: 500},
	}
	purchases := []Invoice{
		{ID: "b1", Number: "PUR-001", Date: day(5), PartyID: "p1", TotalAmount: 200},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(7), PartyID: "p1", Direction: SalesReceipt, TotalAmount: 600},
		{ID: "r2", ReceiptNumber: "PAY-001", Date: day(12), PartyID: "p1", Direction: PurchasePayment, TotalAmount: 150},
	}

	st := BuildStatement("p1", sales, purchases, payments, day(1), day(30))

	assert.Equal(t, 0.0, st.OpeningBalance)
	require.Len(t, st.Rows, 5)

	// sale +1000, purchase -200, receipt -600, sale +500, payment +150
	wantBalances := []float64{1000, 800, 200, 700, 850}
	for i, row := range st.Rows {
		assert.Equal(t, wantBalances[i], row.Balance, "row %d (%s)", i, row.RefNo)
	}

	assert.Equal(t, 850.0, st.ClosingBalance)
	assert.Equal(t, st.ClosingBalance, st.Outstanding)
	assert.Equal(t, 1650.0, st.TotalCredit) // sales 1000 + 500, payment made 150
	assert.Equal(t, 800.0, st.TotalDebit)   // purchase 200, receipt 600
}

func TestBuildStatementColumnPlacement(t *testing.T) {
	sales := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(2), PartyID: "p1", TotalAmount: 1000},
	}
	purchases := []Invoice{
		{ID: "b1", Number: "PUR-001", Date: day(5), PartyID: "p1", TotalAmount: 200},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(7), PartyID: "p1", Direction: SalesReceipt, TotalAmount: 600},
		{ID: "r2", ReceiptNumber: "PAY-001", Date: day(12), PartyID: "p1", Direction: PurchasePayment, TotalAmount: 150},
	}

	st := BuildStatement("p1", sales, purchases, payments, day(1), day(30))
	require.Len(t, st.Rows, 4)

	// Sales invoices are credit entries, purchase bills debit entries;
	// payments received land in debit, payments made in credit.
	assert.Equal(t, 1000.0, st.Rows[0].Credit)
	assert.Equal(t, 0.0, st.Rows[0].Debit)
	assert.Equal(t, 200.0, st.Rows[1].Debit)
	assert.Equal(t, 0.0, st.Rows[1].Credit)
	assert.Equal(t, 600.0, st.Rows[2].Debit)
	assert.Equal(t, 0.0, st.Rows[2].Credit)
	assert.Equal(t, 150.0, st.Rows[3].Credit)
	assert.Equal(t, 0.0, st.Rows[3].Debit)
}

func TestBuildStatementOpeningBalanceFromPriorTransactions(t *testing.T) {
	sales := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(1), PartyID: "p1", TotalAmount: 400},
		{ID: "i2", Number: "INV-002", Date: day(15), PartyID: "p1", TotalAmount: 300},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(3), PartyID: "p1", Direction: SalesReceipt, TotalAmount: 100},
	}

	st := BuildStatement("p1", sales, nil, payments, day(10), day(30))

	assert.Equal(t, 300.0, st.OpeningBalance) // 400 - 100 before the range
	require.Len(t, st.Rows, 1)
	assert.Equal(t, 600.0, st.ClosingBalance)
}

func TestBuildStatementBalancesComposeAcrossPeriods(t *testing.T) {
	sales := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(2), PartyID: "p1", TotalAmount: 250},
		{ID: "i2", Number: "INV-002", Date: day(12), PartyID: "p1", TotalAmount: 400},
		{ID: "i3", Number: "INV-003", Date: day(22), PartyID: "p1", TotalAmount: 100},
	}
	payments := []Payment{
		{ID: "r1", ReceiptNumber: "RCP-001", Date: day(8), PartyID: "p1", Direction: SalesReceipt, TotalAmount: 250},
		{ID: "r2", ReceiptNumber: "RCP-002", Date: day(18), PartyID: "p1", Direction: SalesReceipt, TotalAmount: 300},
	}

	// Adjoining periods split at day 15: closing of the first must be
	// the opening of the second, with no gap or double count.
	boundary := day(15)
	first := BuildStatement("p1", sales, nil, payments, day(1), boundary.Add(-time.Nanosecond))
	second := BuildStatement("p1", sales, nil, payments, boundary, day(30))

	assert.Equal(t, first.ClosingBalance, second.OpeningBalance)

	full := BuildStatement("p1", sales, nil, payments, day(1), day(30))
	assert.Equal(t, full.ClosingBalance, second.ClosingBalance)
	assert.Len(t, full.Rows, len(first.Rows)+len(second.Rows))
}

func TestBuildStatementEmptyRange(t *testing.T) {
	sales := []Invoice{
		{ID: "i1", Number: "INV-001", Date: day(1), PartyID: "p1", TotalAmount: 400},
	}

	st := BuildStatement("p1", sales, nil, nil, day(10), day(20))

	assert.Empty(t, st.Rows)
	assert.Equal(t, 400.0, st.OpeningBalance)
	assert.Equal(t, st.OpeningBalance, st.ClosingBalance)
	assert.Equal(t, 0.0, st.TotalDebit)
	assert.Equal(t, 0.0, st.TotalCredit)
}

func TestBuildStatementNoTransactions(t *testing.T) {
	st := BuildStatement("p1", nil, nil, nil, day(1), day(30))
	assert.Empty(t, st.Rows)
	assert.Equal(t, 0.0, st.OpeningBalance)
	assert.Equal(t, 0.0, st.ClosingBalance)
}
