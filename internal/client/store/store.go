// Package store persists clients through database/sql, in SQL that runs
// unchanged on Postgres (pgx) and SQLite (modernc).
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fiado/internal/client"
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

// scanClient reads a client row.
// Expected column order: id, last_name, first_name, phone, created_at
func scanClient(s scanner) (*client.Client, error) {
	var (
		c         client.Client
		id        string
		createdAt string
	)

	if err := s.Scan(&id, &c.LastName, &c.FirstName, &c.Phone, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parsing client id: %w", err)
	}

	c.ID = parsed

	c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing client created_at: %w", err)
	}

	return &c, nil
}

const insertClientQuery = `
	INSERT INTO clients (id, last_name, first_name, phone, created_at)
	VALUES ($1, $2, $3, $4, $5)
`

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	_, err := s.db.ExecContext(ctx, insertClientQuery,
		c.ID.String(),
		c.LastName,
		c.FirstName,
		c.Phone,
		c.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `
		SELECT id, last_name, first_name, phone, created_at
		FROM clients
		WHERE id = $1
	`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]*client.Client, error) {
	query := `
		SELECT id, last_name, first_name, phone, created_at
		FROM clients
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating client rows: %w", err)
	}

	return clients, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients
		SET last_name = $1, first_name = $2, phone = $3
		WHERE id = $4
	`

	res, err := s.db.ExecContext(ctx, query, c.LastName, c.FirstName, c.Phone, c.ID.String())
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating client: %w", err)
	}

	if n == 0 {
		return client.ErrNotFound
	}

	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id.String()); err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	return nil
}
