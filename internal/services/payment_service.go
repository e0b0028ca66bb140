package services

import (
	"context"
	"errors"
	"time"

	"vyapar-backend/internal/calc"
	"vyapar-backend/internal/metrics"
	"vyapar-backend/internal/models"
	"vyapar-backend/internal/repositories"
	"vyapar-backend/internal/timeutil"
)

var (
	ErrBadAmount   = errors.New("payment amount must be positive")
	ErrUnknownBill = errors.New("unknown bill")
)

type PaymentService struct {
	paymentRepo *repositories.PaymentRepository
	invoiceRepo *repositories.InvoiceRepository
	partyRepo   *repositories.PartyRepository
	ledger      *LedgerService
}

func NewPaymentService(
	paymentRepo *repositories.PaymentRepository,
	invoiceRepo *repositories.InvoiceRepository,
	partyRepo *repositories.PartyRepository,
	ledger *LedgerService,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		invoiceRepo: invoiceRepo,
		partyRepo:   partyRepo,
		ledger:      ledger,
	}
}

// Create records a payment. With a bill id, the payment is allocated to
// that bill up to its outstanding; any remainder stays as the party's
// advance. Without one, the whole amount goes to advance.
func (s *PaymentService) Create(ctx context.Context, req models.CreatePaymentRequest, createdBy int) (*models.Payment, error) {
	amount := calc.Round2(calc.Num(req.Amount))
	if amount <= 0 {
		return nil, ErrBadAmount
	}

	if _, err := s.partyRepo.GetByID(ctx, req.PartyID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownParty
		}
		return nil, err
	}

	date, err := timeutil.ParseInIST(timeutil.DateLayout, req.Date)
	if err != nil {
		return nil, ErrBadDate
	}

	direction := req.Direction
	if direction == "" {
		direction = models.DirectionSalesReceipt
	}
	mode := req.Mode
	if mode == "" {
		mode = "cash"
	}

	p := models.Payment{
		PartyID:         req.PartyID,
		Direction:       direction,
		Amount:          amount,
		PaymentDate:     date,
		Mode:            mode,
		Reference:       req.Reference,
		Notes:           req.Notes,
		CreatedByUserID: createdBy,
	}

	p.ReceiptNumber, err = s.paymentRepo.NextReceiptNumber(ctx, direction)
	if err != nil {
		return nil, err
	}

	if req.BillID != nil {
		alloc, err := s.allocationFor(ctx, *req.BillID, amount)
		if err != nil {
			return nil, err
		}
		if alloc != nil {
			p.Allocations = append(p.Allocations, *alloc)
		}
	}

	if err := s.paymentRepo.Create(ctx, &p); err != nil {
		return nil, err
	}

	metrics.PaymentsRecordedTotal.WithLabelValues(string(direction)).Inc()
	s.ledger.InvalidateSummary(ctx, req.PartyID)
	return &p, nil
}

// allocationFor builds the allocation row for an explicit bill target.
// The allocation is capped at the bill's current outstanding; overpay
// becomes advance instead of driving the bill negative.
func (s *PaymentService) allocationFor(ctx context.Context, billID int, amount float64) (*models.PaymentAllocation, error) {
	bill, err := s.invoiceRepo.GetByID(ctx, billID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnknownBill
		}
		return nil, err
	}

	paid, err := s.billPaid(ctx, bill)
	if err != nil {
		return nil, err
	}

	outstanding := calc.Round2(bill.TotalAmount - paid)
	if outstanding <= 0 {
		return nil, nil
	}

	apply := amount
	if outstanding < apply {
		apply = outstanding
	}
	after := calc.Round2(outstanding - apply)

	return &models.PaymentAllocation{
		BillKind:        string(bill.Kind),
		BillID:          bill.ID,
		BillNumber:      bill.Number,
		Amount:          apply,
		BillOutstanding: after,
		SettlesBill:     after == 0,
	}, nil
}

// billPaid sums existing allocations against a bill.
func (s *PaymentService) billPaid(ctx context.Context, bill *models.Invoice) (float64, error) {
	payments, err := s.paymentRepo.ListByParty(ctx, bill.PartyID, time.Time{}, time.Time{})
	if err != nil {
		return 0, err
	}

	var paid float64
	for _, p := range payments {
		for _, a := range p.Allocations {
			if a.BillID == bill.ID && a.BillKind == string(bill.Kind) {
				paid += a.Amount
			}
		}
	}
	return calc.Round2(paid), nil
}

func (s *PaymentService) Get(ctx context.Context, id int) (*models.Payment, error) {
	return s.paymentRepo.GetByID(ctx, id)
}

func (s *PaymentService) ListByParty(ctx context.Context, partyID int, from, to time.Time) ([]models.Payment, error) {
	return s.paymentRepo.ListByParty(ctx, partyID, from, to)
}

func (s *PaymentService) Delete(ctx context.Context, id int) error {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.ledger.InvalidateSummary(ctx, p.PartyID)
	return nil
}
