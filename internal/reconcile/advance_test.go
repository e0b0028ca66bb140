package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyAdvance(t *testing.T) {
	payments := []Payment{
		{ID: "r1", PartyID: "p1", Date: day(1), TotalAmount: 500,
			Allocations: []Allocation{{BillID: "i1", Amount: 300}}},
		{ID: "r2", PartyID: "p1", Date: day(2), TotalAmount: 200},
		{ID: "r3", PartyID: "p2", Date: day(3), TotalAmount: 1000},
	}

	assert.Equal(t, 400.0, PartyAdvance("p1", payments))
	assert.Equal(t, 1000.0, PartyAdvance("p2", payments))
	assert.Equal(t, 0.0, PartyAdvance("p3", payments))
}

func TestAvailableAdvanceClampsCorruptData(t *testing.T) {
	// Allocations exceeding the payment total indicate upstream
	// corruption; the raw value stays visible, the usable credit is zero.
	payments := []Payment{
		{ID: "r1", PartyID: "p1", Date: day(1), TotalAmount: 100,
			Allocations: []Allocation{{BillID: "i1", Amount: 150}}},
	}

	assert.Equal(t, -50.0, PartyAdvance("p1", payments))
	assert.Equal(t, 0.0, AvailableAdvance("p1", payments))
}

func TestAllocateAdvanceOldestLeftoverFirst(t *testing.T) {
	payments := []Payment{
		{ID: "r2", ReceiptNumber: "RCP-002", PartyID: "p1", Date: day(5), TotalAmount: 100},
		{ID: "r1", ReceiptNumber: "RCP-001", PartyID: "p1", Date: day(1), TotalAmount: 80,
			Allocations: []Allocation{{BillID: "i0", Amount: 50}}},
	}

	res := AllocateAdvance("p1", 90, payments)

	assert.Equal(t, 90.0, res.Allocated)
	assert.Equal(t, 0.0, res.Outstanding)
	require.Len(t, res.Uses, 2)
	// r1 is older: its 30 leftover drains before r2 is touched.
	assert.Equal(t, "r1", res.Uses[0].PaymentID)
	assert.Equal(t, 30.0, res.Uses[0].Amount)
	assert.Equal(t, "r2", res.Uses[1].PaymentID)
	assert.Equal(t, 60.0, res.Uses[1].Amount)
}

func TestAllocateAdvanceNeverExceedsBounds(t *testing.T) {
	payments := []Payment{
		{ID: "r1", PartyID: "p1", Date: day(1), TotalAmount: 120},
	}

	// Bill smaller than the advance: allocation capped by the bill.
	res := AllocateAdvance("p1", 40, payments)
	assert.Equal(t, 40.0, res.Allocated)
	assert.Equal(t, 0.0, res.Outstanding)

	// Bill larger than the advance: allocation capped by the advance.
	res = AllocateAdvance("p1", 500, payments)
	assert.Equal(t, 120.0, res.Allocated)
	assert.Equal(t, 380.0, res.Outstanding)

	for _, out := range []float64{0, 40, 120, 500, -10} {
		res := AllocateAdvance("p1", out, payments)
		bound := AvailableAdvance("p1", payments)
		if out >= 0 && out < bound {
			bound = out
		}
		if out < 0 {
			bound = 0
		}
		assert.LessOrEqual(t, res.Allocated, bound)
	}
}

func TestAllocateAdvanceNoCredit(t *testing.T) {
	res := AllocateAdvance("p1", 200, nil)
	assert.Equal(t, 0.0, res.Allocated)
	assert.Empty(t, res.Uses)
	assert.Equal(t, 200.0, res.Outstanding)

	// Fully allocated payments contribute nothing.
	payments := []Payment{
		{ID: "r1", PartyID: "p1", Date: day(1), TotalAmount: 100,
			Allocations: []Allocation{{BillID: "i1", Amount: 100}}},
	}
	res = AllocateAdvance("p1", 200, payments)
	assert.Equal(t, 0.0, res.Allocated)
	assert.Equal(t, 200.0, res.Outstanding)
}
