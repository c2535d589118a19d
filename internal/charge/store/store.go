// Package store persists charges through database/sql, in SQL that runs
// unchanged on Postgres (pgx) and SQLite (modernc).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fiado/internal/charge"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanCharge reads a charge row.
// Expected column order: id, client_id, amount, amount_paid, description, date, status, created_at
func scanCharge(s scanner) (*charge.Charge, error) {
	var (
		c         charge.Charge
		id        string
		clientID  string
		statusStr string
		date      string
		createdAt string
	)

	if err := s.Scan(&id, &clientID, &c.Amount, &c.AmountPaid, &c.Description, &date, &statusStr, &createdAt); err != nil {
		return nil, err
	}

	var err error

	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parsing charge id: %w", err)
	}

	if c.ClientID, err = uuid.Parse(clientID); err != nil {
		return nil, fmt.Errorf("parsing charge client_id: %w", err)
	}

	if c.Date, err = time.Parse(time.DateOnly, date); err != nil {
		return nil, fmt.Errorf("parsing charge date: %w", err)
	}

	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parsing charge created_at: %w", err)
	}

	c.Status = charge.Status(statusStr)

	return &c, nil
}

const selectChargeColumns = `id, client_id, amount, amount_paid, description, date, status, created_at`

const insertChargeQuery = `
	INSERT INTO charges (id, client_id, amount, amount_paid, description, date, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

func insertArgs(c *charge.Charge) []any {
	return []any{
		c.ID.String(),
		c.ClientID.String(),
		c.Amount,
		c.AmountPaid,
		c.Description,
		c.Date.Format(time.DateOnly),
		string(c.Status),
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *Store) CreateCharge(ctx context.Context, c *charge.Charge) error {
	if _, err := s.db.ExecContext(ctx, insertChargeQuery, insertArgs(c)...); err != nil {
		return fmt.Errorf("creating charge: %w", err)
	}

	return nil
}

func (s *Store) GetCharge(ctx context.Context, id uuid.UUID) (*charge.Charge, error) {
	query := `SELECT ` + selectChargeColumns + ` FROM charges WHERE id = $1`

	c, err := scanCharge(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, charge.ErrNotFound
		}

		return nil, fmt.Errorf("getting charge: %w", err)
	}

	return c, nil
}

func (s *Store) ListCharges(ctx context.Context, filter charge.ListFilter) ([]*charge.Charge, error) {
	query := `SELECT ` + selectChargeColumns + ` FROM charges WHERE 1 = 1`

	var args []any

	argIdx := 1

	if filter.ClientID != nil {
		query += fmt.Sprintf(" AND client_id = $%d", argIdx)

		args = append(args, filter.ClientID.String())
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, string(*filter.Status))
		argIdx++
	}

	query += " ORDER BY date ASC, created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing charges: %w", err)
	}
	defer rows.Close()

	var charges []*charge.Charge

	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning charge: %w", err)
		}

		charges = append(charges, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating charge rows: %w", err)
	}

	return charges, nil
}

const updateChargeQuery = `
	UPDATE charges
	SET amount_paid = $1, status = $2, description = $3
	WHERE id = $4
`

func (s *Store) UpdateCharge(ctx context.Context, c *charge.Charge) error {
	res, err := s.db.ExecContext(ctx, updateChargeQuery, c.AmountPaid, string(c.Status), c.Description, c.ID.String())
	if err != nil {
		return fmt.Errorf("updating charge: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating charge: %w", err)
	}

	if n == 0 {
		return charge.ErrNotFound
	}

	return nil
}

// UpdateCharges writes a batch of charges in a single transaction, so a
// multi-charge settlement is either fully persisted or not at all.
func (s *Store) UpdateCharges(ctx context.Context, charges []*charge.Charge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning batch update: %w", err)
	}
	defer tx.Rollback()

	for _, c := range charges {
		if _, err := tx.ExecContext(ctx, updateChargeQuery, c.AmountPaid, string(c.Status), c.Description, c.ID.String()); err != nil {
			return fmt.Errorf("updating charge: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch update: %w", err)
	}

	return nil
}

func (s *Store) DeleteCharge(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM charges WHERE id = $1`, id.String()); err != nil {
		return fmt.Errorf("deleting charge: %w", err)
	}

	return nil
}

func (s *Store) DeleteChargesByClient(ctx context.Context, clientID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM charges WHERE client_id = $1`, clientID.String()); err != nil {
		return fmt.Errorf("deleting client charges: %w", err)
	}

	return nil
}
