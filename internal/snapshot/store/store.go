// Package store backs snapshot import with a single transaction across the
// clients and charges tables.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fiado/internal/charge"
	"fiado/internal/client"
	"fiado/internal/snapshot"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) BeginImport(ctx context.Context) (snapshot.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

type importTx struct {
	tx *sql.Tx
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) ReplaceClients(ctx context.Context, clients []*client.Client) error {
	if _, err := itx.tx.ExecContext(ctx, `DELETE FROM clients`); err != nil {
		return fmt.Errorf("clearing clients: %w", err)
	}

	query := `
		INSERT INTO clients (id, last_name, first_name, phone, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, c := range clients {
		_, err := itx.tx.ExecContext(ctx, query,
			c.ID.String(),
			c.LastName,
			c.FirstName,
			c.Phone,
			c.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting client: %w", err)
		}
	}

	return nil
}

func (itx *importTx) ReplaceCharges(ctx context.Context, charges []*charge.Charge) error {
	if _, err := itx.tx.ExecContext(ctx, `DELETE FROM charges`); err != nil {
		return fmt.Errorf("clearing charges: %w", err)
	}

	query := `
		INSERT INTO charges (id, client_id, amount, amount_paid, description, date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, c := range charges {
		_, err := itx.tx.ExecContext(ctx, query,
			c.ID.String(),
			c.ClientID.String(),
			c.Amount,
			c.AmountPaid,
			c.Description,
			c.Date.Format(time.DateOnly),
			string(c.Status),
			c.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting charge: %w", err)
		}
	}

	return nil
}
