package services

import (
	"testing"

	"vyapar-backend/internal/config"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/reconcile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serviceWithGSTIN(gstin string) *InvoiceService {
	cfg := &config.Config{}
	cfg.Business.GSTIN = gstin
	return NewInvoiceService(cfg, nil, nil, nil, nil)
}

func TestBuildLinesIntraState(t *testing.T) {
	s := serviceWithGSTIN("27AAAAA0000A1Z5")

	lines, header, err := s.buildLines([]models.CreateInvoiceLineRequest{
		{ItemName: "Cement", Qty: 10, Rate: 350, GSTPercent: 18},
	}, "27BBBBB0000B1Z4")
	require.NoError(t, err)
	require.Len(t, lines, 1)

	// 10 x 350 = 3500 taxable, 18% split 9/9
	assert.Equal(t, 3500.0, lines[0].NetAmount)
	assert.Equal(t, 315.0, lines[0].CGSTAmount)
	assert.Equal(t, 315.0, lines[0].SGSTAmount)
	assert.Equal(t, 0.0, lines[0].IGSTAmount)
	assert.Equal(t, 4130.0, lines[0].LineTotal)

	assert.Equal(t, 3500.0, header.TaxableAmount)
	assert.Equal(t, 4130.0, header.TotalAmount)
}

func TestBuildLinesInterState(t *testing.T) {
	s := serviceWithGSTIN("27AAAAA0000A1Z5")

	lines, header, err := s.buildLines([]models.CreateInvoiceLineRequest{
		{ItemName: "Steel", Qty: 2, Rate: 1000, GSTPercent: 18},
	}, "29CCCCC0000C1Z3")
	require.NoError(t, err)

	assert.Equal(t, 0.0, lines[0].CGSTAmount)
	assert.Equal(t, 0.0, lines[0].SGSTAmount)
	assert.Equal(t, 360.0, lines[0].IGSTAmount)
	assert.Equal(t, 2360.0, header.TotalAmount)
}

func TestBuildLinesMissingGSTINDefaultsIntraState(t *testing.T) {
	s := serviceWithGSTIN("27AAAAA0000A1Z5")

	lines, _, err := s.buildLines([]models.CreateInvoiceLineRequest{
		{ItemName: "Bricks", Qty: 100, Rate: 8, GSTPercent: 5},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, 20.0, lines[0].CGSTAmount)
	assert.Equal(t, 20.0, lines[0].SGSTAmount)
	assert.Equal(t, 0.0, lines[0].IGSTAmount)
}

func TestBuildLinesQtyExpression(t *testing.T) {
	s := serviceWithGSTIN("27AAAAA0000A1Z5")

	lines, _, err := s.buildLines([]models.CreateInvoiceLineRequest{
		{ItemName: "Tiles", QtyExpr: "5x3x2", Rate: 10, GSTPercent: 0},
	}, "27BBBBB0000B1Z4")
	require.NoError(t, err)

	assert.Equal(t, 30.0, lines[0].Qty)
	assert.Equal(t, "5×3×2", lines[0].QtyExpr)
	assert.Equal(t, 300.0, lines[0].RawAmount)
}

func TestBuildLinesBadQtyExpression(t *testing.T) {
	s := serviceWithGSTIN("27AAAAA0000A1Z5")

	_, _, err := s.buildLines([]models.CreateInvoiceLineRequest{
		{ItemName: "Tiles", QtyExpr: "5xx2", Rate: 10},
	}, "")
	assert.ErrorIs(t, err, ErrBadQty)
}

func TestBuildLinesDiscount(t *testing.T) {
	s := serviceWithGSTIN("27AAAAA0000A1Z5")

	lines, header, err := s.buildLines([]models.CreateInvoiceLineRequest{
		{ItemName: "Paint", Qty: 4, Rate: 500, DiscountType: "percent", DiscountValue: 10, GSTPercent: 18},
		{ItemName: "Brush", Qty: 10, Rate: 50, DiscountType: "amount", DiscountValue: 100, GSTPercent: 18},
	}, "27BBBBB0000B1Z4")
	require.NoError(t, err)

	// 2000 - 10% = 1800; 500 - 100 = 400
	assert.Equal(t, 1800.0, lines[0].NetAmount)
	assert.Equal(t, 200.0, lines[0].Discount)
	assert.Equal(t, 400.0, lines[1].NetAmount)
	assert.Equal(t, 100.0, lines[1].Discount)

	assert.Equal(t, 2200.0, header.TaxableAmount)
	assert.Equal(t, 300.0, header.TotalDiscount)
	// Totals are sums of rounded line totals
	assert.Equal(t, 2596.0, header.TotalAmount)
}

func TestAdvanceAllocationsRunningOutstanding(t *testing.T) {
	inv := &models.Invoice{ID: 7, Number: "INV-000007", TotalAmount: 500}
	result := reconcile.AdvanceResult{
		Allocated: 500,
		Uses: []reconcile.AdvanceUse{
			{PaymentID: "11", ReceiptNumber: "RCP-000011", Amount: 300},
			{PaymentID: "12", ReceiptNumber: "RCP-000012", Amount: 200},
		},
		Outstanding: 0,
	}

	allocs, err := advanceAllocations(inv, result)
	require.NoError(t, err)
	require.Len(t, allocs, 2)

	// Outstanding steps down per use; only the clearing use settles.
	assert.Equal(t, 200.0, allocs[0].BillOutstanding)
	assert.False(t, allocs[0].SettlesBill)
	assert.Equal(t, 0.0, allocs[1].BillOutstanding)
	assert.True(t, allocs[1].SettlesBill)

	assert.Equal(t, 11, allocs[0].PaymentID)
	assert.Equal(t, 12, allocs[1].PaymentID)
	assert.Equal(t, "INV-000007", allocs[0].BillNumber)
}

func TestAdvanceAllocationsPartialCoverage(t *testing.T) {
	inv := &models.Invoice{ID: 8, Number: "INV-000008", TotalAmount: 500}
	result := reconcile.AdvanceResult{
		Allocated: 150,
		Uses: []reconcile.AdvanceUse{
			{PaymentID: "11", ReceiptNumber: "RCP-000011", Amount: 150},
		},
		Outstanding: 350,
	}

	allocs, err := advanceAllocations(inv, result)
	require.NoError(t, err)
	require.Len(t, allocs, 1)

	assert.Equal(t, 350.0, allocs[0].BillOutstanding)
	assert.False(t, allocs[0].SettlesBill)
}

func TestBuildLinesNaNCoercion(t *testing.T) {
	s := serviceWithGSTIN("27AAAAA0000A1Z5")

	bad := 0.0
	lines, _, err := s.buildLines([]models.CreateInvoiceLineRequest{
		{ItemName: "Misc", Qty: 1 / bad, Rate: 100, GSTPercent: 18},
	}, "")
	require.NoError(t, err)

	// Inf quantity is coerced to zero instead of poisoning the totals
	assert.Equal(t, 0.0, lines[0].Qty)
	assert.Equal(t, 0.0, lines[0].RawAmount)
}
