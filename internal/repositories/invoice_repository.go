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

type InvoiceRepository struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{pool: pool}
}

// NextNumber draws the next document number for a kind, e.g. "INV-000042".
func (r *InvoiceRepository) NextNumber(ctx context.Context, kind models.InvoiceKind) (string, error) {
	var seq, prefix string
	switch kind {
	case models.KindSale:
		seq, prefix = "invoice_number_seq", "INV"
	case models.KindPurchase:
		seq, prefix = "purchase_number_seq", "PUR"
	case models.KindQuotation:
		seq, prefix = "quotation_number_seq", "QTN"
	case models.KindChallan:
		seq, prefix = "challan_number_seq", "CHL"
	default:
		return "", fmt.Errorf("unknown invoice kind %q", kind)
	}

	var n int64
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT nextval('%s')", seq)).Scan(&n); err != nil {
		return "", fmt.Errorf("next %s: %w", seq, err)
	}
	return fmt.Sprintf("%s-%06d", prefix, n), nil
}

// Create inserts the invoice and its lines in one transaction.
func (r *InvoiceRepository) Create(ctx context.Context, inv *models.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create invoice: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (kind, number, party_id, date, taxable_amount,
			total_cgst, total_sgst, total_igst, total_discount, total_amount, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		inv.Kind, inv.Number, inv.PartyID, inv.Date, inv.TaxableAmount,
		inv.TotalCGST, inv.TotalSGST, inv.TotalIGST, inv.TotalDiscount, inv.TotalAmount, inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}

	if err := r.insertLines(ctx, tx, inv); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Update overwrites the invoice header and replaces all lines. Edits are
// full overwrites; there is no per-line patching.
func (r *InvoiceRepository) Update(ctx context.Context, inv *models.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin update invoice: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE invoices
		SET party_id = $2, date = $3, taxable_amount = $4, total_cgst = $5,
			total_sgst = $6, total_igst = $7, total_discount = $8,
			total_amount = $9, notes = $10, updated_at = now()
		WHERE id = $1`,
		inv.ID, inv.PartyID, inv.Date, inv.TaxableAmount, inv.TotalCGST,
		inv.TotalSGST, inv.TotalIGST, inv.TotalDiscount, inv.TotalAmount, inv.Notes,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, inv.ID); err != nil {
		return fmt.Errorf("clear invoice lines: %w", err)
	}
	if err := r.insertLines(ctx, tx, inv); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *InvoiceRepository) insertLines(ctx context.Context, tx pgx.Tx, inv *models.Invoice) error {
	for i := range inv.Lines {
		line := &inv.Lines[i]
		line.InvoiceID = inv.ID
		err := tx.QueryRow(ctx, `
			INSERT INTO invoice_lines (invoice_id, item_name, qty_expr, qty, rate,
				raw_amount, discount_type, discount_value, discount, net_amount,
				gst_percent, cgst_amount, sgst_amount, igst_amount, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
			RETURNING id`,
			line.InvoiceID, line.ItemName, line.QtyExpr, line.Qty, line.Rate,
			line.RawAmount, line.DiscountType, line.DiscountValue, line.Discount, line.NetAmount,
			line.GSTPercent, line.CGSTAmount, line.SGSTAmount, line.IGSTAmount, line.LineTotal,
		).Scan(&line.ID)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.pool.QueryRow(ctx, `
		SELECT id, kind, number, party_id, date, taxable_amount, total_cgst,
			total_sgst, total_igst, total_discount, total_amount, notes,
			created_at, updated_at
		FROM invoices WHERE id = $1`,
		id,
	).Scan(&inv.ID, &inv.Kind, &inv.Number, &inv.PartyID, &inv.Date, &inv.TaxableAmount,
		&inv.TotalCGST, &inv.TotalSGST, &inv.TotalIGST, &inv.TotalDiscount,
		&inv.TotalAmount, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}

	lines, err := r.linesFor(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Lines = lines
	return &inv, nil
}

func (r *InvoiceRepository) linesFor(ctx context.Context, invoiceID int) ([]models.InvoiceLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, item_name, qty_expr, qty, rate, raw_amount,
			discount_type, discount_value, discount, net_amount, gst_percent,
			cgst_amount, sgst_amount, igst_amount, line_total
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY id`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	var lines []models.InvoiceLine
	for rows.Next() {
		var l models.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ItemName, &l.QtyExpr, &l.Qty, &l.Rate,
			&l.RawAmount, &l.DiscountType, &l.DiscountValue, &l.Discount, &l.NetAmount,
			&l.GSTPercent, &l.CGSTAmount, &l.SGSTAmount, &l.IGSTAmount, &l.LineTotal); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ListFilter narrows List; zero values mean "no filter".
type ListFilter struct {
	Kind    models.InvoiceKind
	PartyID int
	From    time.Time
	To      time.Time
}

func (r *InvoiceRepository) List(ctx context.Context, f ListFilter) ([]models.Invoice, error) {
	query := `
		SELECT id, kind, number, party_id, date, taxable_amount, total_cgst,
			total_sgst, total_igst, total_discount, total_amount, notes,
			created_at, updated_at
		FROM invoices WHERE 1=1`
	args := []interface{}{}
	n := 0
	add := func(clause string, val interface{}) {
		n++
		query += fmt.Sprintf(" AND %s $%d", clause, n)
		args = append(args, val)
	}

	if f.Kind != "" {
		add("kind =", string(f.Kind))
	}
	if f.PartyID != 0 {
		add("party_id =", f.PartyID)
	}
	if !f.From.IsZero() {
		add("date >=", f.From)
	}
	if !f.To.IsZero() {
		add("date <=", f.To)
	}
	query += ` ORDER BY date, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(&inv.ID, &inv.Kind, &inv.Number, &inv.PartyID, &inv.Date,
			&inv.TaxableAmount, &inv.TotalCGST, &inv.TotalSGST, &inv.TotalIGST,
			&inv.TotalDiscount, &inv.TotalAmount, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (r *InvoiceRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
