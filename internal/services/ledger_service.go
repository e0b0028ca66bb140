package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"vyapar-backend/internal/cache"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/reconcile"
	"vyapar-backend/internal/repositories"
)

const summaryCacheTTL = 5 * time.Minute

// LedgerService answers ledger questions — statements, receivables,
// advance balances — by loading a party's documents and feeding them
// through the pure reconcile package. Database rows use int ids; the
// reconcile types use strings, converted here and nowhere else.
type LedgerService struct {
	partyRepo   *repositories.PartyRepository
	invoiceRepo *repositories.InvoiceRepository
	paymentRepo *repositories.PaymentRepository
}

func NewLedgerService(
	partyRepo *repositories.PartyRepository,
	invoiceRepo *repositories.InvoiceRepository,
	paymentRepo *repositories.PaymentRepository,
) *LedgerService {
	return &LedgerService{partyRepo: partyRepo, invoiceRepo: invoiceRepo, paymentRepo: paymentRepo}
}

func toReconInvoice(inv models.Invoice, paid float64) reconcile.Invoice {
	return reconcile.Invoice{
		ID:          strconv.Itoa(inv.ID),
		Number:      inv.Number,
		Date:        inv.Date,
		PartyID:     strconv.Itoa(inv.PartyID),
		TotalAmount: inv.TotalAmount,
		PaidAmount:  paid,
	}
}

func toReconPayment(p models.Payment) reconcile.Payment {
	rp := reconcile.Payment{
		ID:            strconv.Itoa(p.ID),
		ReceiptNumber: p.ReceiptNumber,
		Date:          p.PaymentDate,
		PartyID:       strconv.Itoa(p.PartyID),
		Direction:     reconcile.Direction(p.Direction),
		TotalAmount:   p.Amount,
		Mode:          p.Mode,
		Reference:     p.Reference,
	}
	for _, a := range p.Allocations {
		rp.Allocations = append(rp.Allocations, reconcile.Allocation{
			BillType:        a.BillKind,
			BillID:          strconv.Itoa(a.BillID),
			BillNumber:      a.BillNumber,
			Amount:          a.Amount,
			BillOutstanding: a.BillOutstanding,
			SettlesBill:     a.SettlesBill,
		})
	}
	rp.UsedAmount = rp.Allocated()
	return rp
}

// salesSidePayments keeps payments that count toward sales invoices:
// receipts and advance deposits, not money we paid out.
func salesSidePayments(payments []models.Payment) []reconcile.Payment {
	var out []reconcile.Payment
	for _, p := range payments {
		if p.Direction == models.DirectionPurchasePayment {
			continue
		}
		out = append(out, toReconPayment(p))
	}
	return out
}

// loadParty pulls everything needed to reconcile one party.
func (s *LedgerService) loadParty(ctx context.Context, partyID int, from, to time.Time) (sales, purchases []models.Invoice, payments []models.Payment, err error) {
	sales, err = s.invoiceRepo.List(ctx, repositories.ListFilter{Kind: models.KindSale, PartyID: partyID, From: from, To: to})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load sales: %w", err)
	}
	purchases, err = s.invoiceRepo.List(ctx, repositories.ListFilter{Kind: models.KindPurchase, PartyID: partyID, From: from, To: to})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load purchases: %w", err)
	}
	payments, err = s.paymentRepo.ListByParty(ctx, partyID, from, to)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load payments: %w", err)
	}
	return sales, purchases, payments, nil
}

// Statement builds a party's running-balance ledger for a date range.
// All of the party's history is loaded so the opening balance reflects
// transactions before the range.
func (s *LedgerService) Statement(ctx context.Context, partyID int, from, to time.Time) (*reconcile.Statement, error) {
	sales, purchases, payments, err := s.loadParty(ctx, partyID, time.Time{}, time.Time{})
	if err != nil {
		return nil, err
	}

	rSales := make([]reconcile.Invoice, 0, len(sales))
	for _, inv := range sales {
		rSales = append(rSales, toReconInvoice(inv, 0))
	}
	rPurchases := make([]reconcile.Invoice, 0, len(purchases))
	for _, inv := range purchases {
		rPurchases = append(rPurchases, toReconInvoice(inv, 0))
	}
	rPayments := make([]reconcile.Payment, 0, len(payments))
	for _, p := range payments {
		rPayments = append(rPayments, toReconPayment(p))
	}

	st := reconcile.BuildStatement(strconv.Itoa(partyID), rSales, rPurchases, rPayments, from, to)
	return &st, nil
}

// Receivables runs the FIFO allocation over a party's sales invoices and
// incoming payments, showing which receipts cover which invoices.
func (s *LedgerService) Receivables(ctx context.Context, partyID int) (*reconcile.FIFOResult, error) {
	sales, err := s.invoiceRepo.List(ctx, repositories.ListFilter{Kind: models.KindSale, PartyID: partyID})
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	payments, err := s.paymentRepo.ListByParty(ctx, partyID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}

	rSales := make([]reconcile.Invoice, 0, len(sales))
	for _, inv := range sales {
		rSales = append(rSales, toReconInvoice(inv, 0))
	}

	// The FIFO view recomputes the whole allocation from scratch;
	// persisted allocation rows are the audit trail, not an input.
	rPayments := salesSidePayments(payments)
	for i := range rPayments {
		rPayments[i].UsedAmount = 0
	}

	result := reconcile.AllocateFIFO(rSales, rPayments)
	result.Summary.PartyID = strconv.Itoa(partyID)
	return &result, nil
}

// AvailableAdvance is the party's spendable credit: unallocated incoming
// payment money, clamped at zero.
func (s *LedgerService) AvailableAdvance(ctx context.Context, partyID int) (float64, error) {
	payments, err := s.paymentRepo.ListByParty(ctx, partyID, time.Time{}, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("load payments: %w", err)
	}
	return reconcile.AvailableAdvance(strconv.Itoa(partyID), salesSidePayments(payments)), nil
}

// Summary returns the party's aggregated position, cached for a few
// minutes. Writes that touch the party invalidate the cache entry.
func (s *LedgerService) Summary(ctx context.Context, partyID int) (*models.PartySummaryResponse, error) {
	key := fmt.Sprintf("party_summary:%d", partyID)
	if cached := cache.Get(ctx, key); cached != "" {
		var resp models.PartySummaryResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	party, err := s.partyRepo.GetByID(ctx, partyID)
	if err != nil {
		return nil, err
	}

	result, err := s.Receivables(ctx, partyID)
	if err != nil {
		return nil, err
	}

	resp := &models.PartySummaryResponse{
		PartyID:          partyID,
		PartyName:        party.Name,
		TotalInvoices:    result.Summary.TotalInvoices,
		TotalAmount:      result.Summary.TotalAmount,
		TotalPaid:        result.Summary.TotalPaid,
		TotalOutstanding: result.Summary.TotalOutstanding,
		Advance:          result.Summary.Advance,
	}

	if data, err := json.Marshal(resp); err == nil {
		cache.Set(ctx, key, string(data), summaryCacheTTL)
	}
	return resp, nil
}

// InvalidateSummary drops the party's cached summary after a write.
func (s *LedgerService) InvalidateSummary(ctx context.Context, partyID int) {
	cache.Invalidate(ctx, fmt.Sprintf("party_summary:%d", partyID))
}
