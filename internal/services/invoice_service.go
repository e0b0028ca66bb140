package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"vyapar-backend/internal/calc"
	"vyapar-backend/internal/config"
	"vyapar-backend/internal/metrics"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/reconcile"
	"vyapar-backend/internal/repositories"
	"vyapar-backend/internal/timeutil"
)

var (
	ErrNoLines      = errors.New("invoice needs at least one line")
	ErrBadDate      = errors.New("invalid date, expected YYYY-MM-DD")
	ErrBadQty       = errors.New("invalid quantity expression")
	ErrUnknownParty = errors.New("unknown party")
)

type InvoiceService struct {
	cfg         *config.Config
	invoiceRepo *repositories.InvoiceRepository
	paymentRepo *repositories.PaymentRepository
	partyRepo   *repositories.PartyRepository
	ledger      *LedgerService
}

func NewInvoiceService(
	cfg *config.Config,
	invoiceRepo *repositories.InvoiceRepository,
	paymentRepo *repositories.PaymentRepository,
	partyRepo *repositories.PartyRepository,
	ledger *LedgerService,
) *InvoiceService {
	return &InvoiceService{
		cfg:         cfg,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		partyRepo:   partyRepo,
		ledger:      ledger,
	}
}

// buildLines computes every money field of the document from the raw
// line requests. Totals are the sum of already-rounded line values so
// the document always adds up to the paise.
func (s *InvoiceService) buildLines(reqLines []models.CreateInvoiceLineRequest, partyGSTIN string) ([]models.InvoiceLine, models.Invoice, error) {
	var header models.Invoice
	lines := make([]models.InvoiceLine, 0, len(reqLines))

	for _, lr := range reqLines {
		line := models.InvoiceLine{
			ItemName:      lr.ItemName,
			Rate:          calc.Num(lr.Rate),
			DiscountType:  lr.DiscountType,
			DiscountValue: calc.Num(lr.DiscountValue),
			GSTPercent:    calc.Num(lr.GSTPercent),
		}

		// Quantity: expression wins over the plain number when present.
		if lr.QtyExpr != "" {
			expr, ok := calc.ParseQtyExpression(lr.QtyExpr)
			if !ok {
				return nil, header, fmt.Errorf("%w: %q", ErrBadQty, lr.QtyExpr)
			}
			line.Qty = expr.Value
			line.QtyExpr = expr.Display
		} else {
			line.Qty = calc.Num(lr.Qty)
		}

		line.RawAmount = calc.Round2(line.Qty * line.Rate)

		net, discount := calc.ApplyLineDiscount(line.RawAmount, calc.DiscountType(lr.DiscountType), line.DiscountValue)
		line.NetAmount = net
		line.Discount = discount

		gstSplit := calc.SplitGST(s.cfg.Business.GSTIN, partyGSTIN, line.GSTPercent)
		amounts := calc.SplitGSTAmount(gstSplit, line.NetAmount)
		line.CGSTAmount = amounts.CGST
		line.SGSTAmount = amounts.SGST
		line.IGSTAmount = amounts.IGST
		line.LineTotal = calc.Round2(line.NetAmount + amounts.CGST + amounts.SGST + amounts.IGST)

		header.TaxableAmount = calc.Round2(header.TaxableAmount + line.NetAmount)
		header.TotalCGST = calc.Round2(header.TotalCGST + line.CGSTAmount)
		header.TotalSGST = calc.Round2(header.TotalSGST + line.SGSTAmount)
		header.TotalIGST = calc.Round2(header.TotalIGST + line.IGSTAmount)
		header.TotalDiscount = calc.Round2(header.TotalDiscount + line.Discount)
		header.TotalAmount = calc.Round2(header.TotalAmount + line.LineTotal)

		lines = append(lines, line)
	}

	return lines, header, nil
}

// Create computes the document, assigns a number from the kind's
// sequence, saves it, and for sales invoices applies any available
// advance credit oldest-leftover-first.
func (s *InvoiceService) Create(ctx context.Context, req models.CreateInvoiceRequest) (*models.InvoiceWithDetails, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoLines
	}

	party, err := s.partyRepo.GetByID(ctx, req.PartyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownParty
		}
		return nil, err
	}

	date, err := timeutil.ParseInIST(timeutil.DateLayout, req.Date)
	if err != nil {
		return nil, ErrBadDate
	}

	lines, header, err := s.buildLines(req.Lines, party.GSTIN)
	if err != nil {
		return nil, err
	}

	inv := models.Invoice{
		Kind:          req.Kind,
		PartyID:       req.PartyID,
		Date:          date,
		TaxableAmount: header.TaxableAmount,
		TotalCGST:     header.TotalCGST,
		TotalSGST:     header.TotalSGST,
		TotalIGST:     header.TotalIGST,
		TotalDiscount: header.TotalDiscount,
		TotalAmount:   header.TotalAmount,
		Notes:         req.Notes,
		Lines:         lines,
	}

	inv.Number, err = s.invoiceRepo.NextNumber(ctx, req.Kind)
	if err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, &inv); err != nil {
		return nil, err
	}
	metrics.InvoicesCreatedTotal.WithLabelValues(string(req.Kind)).Inc()

	result := &models.InvoiceWithDetails{Invoice: inv, PartyName: party.Name}

	// Only real sales invoices draw down advance; quotations and
	// challans carry no money.
	if req.Kind == models.KindSale {
		applied, err := s.applyAdvance(ctx, &inv)
		if err != nil {
			return nil, err
		}
		result.AdvanceApplied = applied
	}

	s.ledger.InvalidateSummary(ctx, req.PartyID)
	return result, nil
}

// applyAdvance consumes the party's unallocated payment credit against a
// freshly saved invoice, persisting one allocation row per source
// payment.
func (s *InvoiceService) applyAdvance(ctx context.Context, inv *models.Invoice) (float64, error) {
	payments, err := s.paymentRepo.ListByParty(ctx, inv.PartyID, time.Time{}, time.Time{})
	if err != nil {
		return 0, fmt.Errorf("load payments for advance: %w", err)
	}

	result := reconcile.AllocateAdvance(strconv.Itoa(inv.PartyID), inv.TotalAmount, salesSidePayments(payments))
	if result.Allocated <= 0 {
		return 0, nil
	}

	allocs, err := advanceAllocations(inv, result)
	if err != nil {
		return 0, err
	}
	for i := range allocs {
		if err := s.paymentRepo.AddAllocation(ctx, &allocs[i]); err != nil {
			return 0, err
		}
	}

	metrics.AdvanceAppliedTotal.Add(result.Allocated)
	return result.Allocated, nil
}

// advanceAllocations turns advance uses into allocation rows. Each row
// records the bill's outstanding as of that use, stepping down as the
// uses land; only the use that clears the bill is marked as settling it.
func advanceAllocations(inv *models.Invoice, result reconcile.AdvanceResult) ([]models.PaymentAllocation, error) {
	allocs := make([]models.PaymentAllocation, 0, len(result.Uses))
	outstanding := inv.TotalAmount
	for _, use := range result.Uses {
		paymentID, err := strconv.Atoi(use.PaymentID)
		if err != nil {
			return nil, fmt.Errorf("bad payment id %q: %w", use.PaymentID, err)
		}
		outstanding = calc.Round2(outstanding - use.Amount)
		allocs = append(allocs, models.PaymentAllocation{
			PaymentID:       paymentID,
			BillKind:        string(models.KindSale),
			BillID:          inv.ID,
			BillNumber:      inv.Number,
			Amount:          use.Amount,
			BillOutstanding: outstanding,
			SettlesBill:     outstanding == 0,
		})
	}
	return allocs, nil
}

// Update overwrites an invoice in place; the number and kind never
// change on edit.
func (s *InvoiceService) Update(ctx context.Context, id int, req models.CreateInvoiceRequest) (*models.InvoiceWithDetails, error) {
	if len(req.Lines) == 0 {
		return nil, ErrNoLines
	}

	existing, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	party, err := s.partyRepo.GetByID(ctx, req.PartyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownParty
		}
		return nil, err
	}

	date, err := timeutil.ParseInIST(timeutil.DateLayout, req.Date)
	if err != nil {
		return nil, ErrBadDate
	}

	lines, header, err := s.buildLines(req.Lines, party.GSTIN)
	if err != nil {
		return nil, err
	}

	inv := models.Invoice{
		ID:            existing.ID,
		Kind:          existing.Kind,
		Number:        existing.Number,
		PartyID:       req.PartyID,
		Date:          date,
		TaxableAmount: header.TaxableAmount,
		TotalCGST:     header.TotalCGST,
		TotalSGST:     header.TotalSGST,
		TotalIGST:     header.TotalIGST,
		TotalDiscount: header.TotalDiscount,
		TotalAmount:   header.TotalAmount,
		Notes:         req.Notes,
		Lines:         lines,
	}

	if err := s.invoiceRepo.Update(ctx, &inv); err != nil {
		return nil, err
	}

	s.ledger.InvalidateSummary(ctx, req.PartyID)
	if existing.PartyID != req.PartyID {
		s.ledger.InvalidateSummary(ctx, existing.PartyID)
	}
	return &models.InvoiceWithDetails{Invoice: inv, PartyName: party.Name}, nil
}

func (s *InvoiceService) Get(ctx context.Context, id int) (*models.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, id)
}

func (s *InvoiceService) List(ctx context.Context, f repositories.ListFilter) ([]models.Invoice, error) {
	return s.invoiceRepo.List(ctx, f)
}

func (s *InvoiceService) Delete(ctx context.Context, id int) error {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ledger.InvalidateSummary(ctx, inv.PartyID)
	return nil
}
