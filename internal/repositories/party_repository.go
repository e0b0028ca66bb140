package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vyapar-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PartyRepository struct {
	pool *pgxpool.Pool
}

func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{pool: pool}
}

func (r *PartyRepository) Create(ctx context.Context, party *models.Party) error {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO parties (name, phone, email, gstin, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		party.Name, party.Phone, party.Email, party.GSTIN, party.Address,
	).Scan(&party.ID, &party.CreatedAt, &party.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert party: %w", err)
	}
	return nil
}

func (r *PartyRepository) Update(ctx context.Context, party *models.Party) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE parties
		SET name = $2, phone = $3, email = $4, gstin = $5, address = $6, updated_at = now()
		WHERE id = $1`,
		party.ID, party.Name, party.Phone, party.Email, party.GSTIN, party.Address,
	)
	if err != nil {
		return fmt.Errorf("update party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PartyRepository) GetByID(ctx context.Context, id int) (*models.Party, error) {
	var p models.Party
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, phone, email, gstin, address, created_at, updated_at
		FROM parties WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.GSTIN, &p.Address, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get party: %w", err)
	}
	return &p, nil
}

// List returns parties, optionally filtered by a case-insensitive name
// or phone search.
func (r *PartyRepository) List(ctx context.Context, search string) ([]models.Party, error) {
	query := `
		SELECT id, name, phone, email, gstin, address, created_at, updated_at
		FROM parties`
	args := []interface{}{}
	if search != "" {
		query += ` WHERE lower(name) LIKE $1 OR phone LIKE $1`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parties: %w", err)
	}
	defer rows.Close()

	var parties []models.Party
	for rows.Next() {
		var p models.Party
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Email, &p.GSTIN, &p.Address, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan party: %w", err)
		}
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (r *PartyRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM parties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete party: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
