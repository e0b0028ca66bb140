package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vyapar-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// NextReceiptNumber draws the next receipt number for a direction,
// e.g. "RCP-000017". The prefix is display-only; direction is stored
// as its own column.
func (r *PaymentRepository) NextReceiptNumber(ctx context.Context, direction models.PaymentDirection) (string, error) {
	var seq, prefix string
	switch direction {
	case models.DirectionSalesReceipt:
		seq, prefix = "receipt_number_seq", "RCP"
	case models.DirectionPurchasePayment:
		seq, prefix = "payment_number_seq", "PAY"
	case models.DirectionAdvanceAllocation:
		seq, prefix = "advance_number_seq", "ADV"
	default:
		seq, prefix = "receipt_number_seq", "RCP"
	}

	var n int64
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT nextval('%s')", seq)).Scan(&n); err != nil {
		return "", fmt.Errorf("next %s: %w", seq, err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}

// Create inserts the payment and any allocations in one transaction.
func (r *PaymentRepository) Create(ctx context.Context, p *models.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create payment: %w", err)
	}
	defer tx.Rollback(ctx)

	var createdBy interface{}
	if p.CreatedByUserID != 0 {
		createdBy = p.CreatedByUserID
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payments (receipt_number, party_id, direction, amount,
			payment_date, mode, reference, notes, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		p.ReceiptNumber, p.PartyID, p.Direction, p.Amount,
		p.PaymentDate, p.Mode, p.Reference, p.Notes, createdBy,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	for i := range p.Allocations {
		a := &p.Allocations[i]
		a.PaymentID = p.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO payment_allocations (payment_id, bill_kind, bill_id,
				bill_number, amount, bill_outstanding, settles_bill)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			a.PaymentID, a.BillKind, a.BillID, a.BillNumber, a.Amount, a.BillOutstanding, a.SettlesBill,
		).Scan(&a.ID)
		if err != nil {
			return fmt.Errorf("insert payment allocation: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// AddAllocation appends one allocation to an existing payment. Used when
// advance credit from an old payment is consumed by a new bill.
func (r *PaymentRepository) AddAllocation(ctx context.Context, a *models.PaymentAllocation) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO payment_allocations (payment_id, bill_kind, bill_id,
			bill_number, amount, bill_outstanding, settles_bill)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		a.PaymentID, a.BillKind, a.BillID, a.BillNumber, a.Amount, a.BillOutstanding, a.SettlesBill,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("add payment allocation: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id int) (*models.Payment, error) {
	var p models.Payment
	var createdBy *int
	err := r.pool.QueryRow(ctx, `
		SELECT id, receipt_number, party_id, direction, amount, payment_date,
			mode, reference, notes, created_by_user_id, created_at
		FROM payments WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.ReceiptNumber, &p.PartyID, &p.Direction, &p.Amount, &p.PaymentDate,
		&p.Mode, &p.Reference, &p.Notes, &createdBy, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	if createdBy != nil {
		p.CreatedByUserID = *createdBy
	}

	allocs, err := r.allocationsFor(ctx, []int{p.ID})
	if err != nil {
		return nil, err
	}
	p.Allocations = allocs[p.ID]
	return &p, nil
}

// ListByParty returns a party's payments in date order, allocations
// included.
func (r *PaymentRepository) ListByParty(ctx context.Context, partyID int, from, to time.Time) ([]models.Payment, error) {
	query := `
		SELECT id, receipt_number, party_id, direction, amount, payment_date,
			mode, reference, notes, created_by_user_id, created_at
		FROM payments WHERE party_id = $1`
	args := []interface{}{partyID}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND payment_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND payment_date <= $%d", len(args))
	}
	query += ` ORDER BY payment_date, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	var ids []int
	for rows.Next() {
		var p models.Payment
		var createdBy *int
		if err := rows.Scan(&p.ID, &p.ReceiptNumber, &p.PartyID, &p.Direction, &p.Amount,
			&p.PaymentDate, &p.Mode, &p.Reference, &p.Notes, &createdBy, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		if createdBy != nil {
			p.CreatedByUserID = *createdBy
		}
		payments = append(payments, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	allocs, err := r.allocationsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range payments {
		payments[i].Allocations = allocs[payments[i].ID]
	}
	return payments, nil
}

func (r *PaymentRepository) allocationsFor(ctx context.Context, paymentIDs []int) (map[int][]models.PaymentAllocation, error) {
	result := make(map[int][]models.PaymentAllocation)
	if len(paymentIDs) == 0 {
		return result, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, payment_id, bill_kind, bill_id, bill_number, amount,
			bill_outstanding, settles_bill
		FROM payment_allocations WHERE payment_id = ANY($1) ORDER BY id`,
		paymentIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.PaymentAllocation
		if err := rows.Scan(&a.ID, &a.PaymentID, &a.BillKind, &a.BillID, &a.BillNumber,
			&a.Amount, &a.BillOutstanding, &a.SettlesBill); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		result[a.PaymentID] = append(result[a.PaymentID], a)
	}
	return result, rows.Err()
}

func (r *PaymentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
