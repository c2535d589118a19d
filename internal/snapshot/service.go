package snapshot

import (
	"context"
	"fmt"
	"io"

	"fiado/internal/charge"
	"fiado/internal/client"
	"fiado/internal/encoding"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=snapshot
type Repository interface {
	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx replaces both collections inside one transaction, so a failed
// import never leaves new clients next to old charges.
type ImportTx interface {
	ReplaceClients(ctx context.Context, clients []*client.Client) error
	ReplaceCharges(ctx context.Context, charges []*charge.Charge) error
	Commit() error
	Rollback() error
}

type Service struct {
	clients *client.Service
	charges *charge.Service
	repo    Repository
}

func NewService(clients *client.Service, charges *charge.Service, repo Repository) *Service {
	return &Service{clients: clients, charges: charges, repo: repo}
}

// Export captures the full persisted state as a snapshot.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	charges, err := s.charges.List(ctx, charge.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing charges: %w", err)
	}

	snap := &Snapshot{
		Clientes:      make([]Cliente, 0, len(clients)),
		Transacciones: make([]Transaccion, 0, len(charges)),
	}

	for _, c := range clients {
		snap.Clientes = append(snap.Clientes, fromClient(c))
	}

	for _, c := range charges {
		snap.Transacciones = append(snap.Transacciones, fromCharge(c))
	}

	return snap, nil
}

// Import validates the whole snapshot first and only then replaces both
// collections wholesale, in a single transaction. A malformed snapshot or a
// persistence failure leaves state untouched.
// Returns the number of imported clients and charges.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, int, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return 0, 0, fmt.Errorf("reading snapshot: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return 0, 0, fmt.Errorf("reading snapshot: %w", err)
	}

	snap, err := Decode(data)
	if err != nil {
		return 0, 0, err
	}

	clients := make([]*client.Client, 0, len(snap.Clientes))

	for _, c := range snap.Clientes {
		dc, err := c.toDomain()
		if err != nil {
			return 0, 0, err
		}

		clients = append(clients, dc)
	}

	charges := make([]*charge.Charge, 0, len(snap.Transacciones))

	for _, t := range snap.Transacciones {
		ch, err := t.toDomain()
		if err != nil {
			return 0, 0, err
		}

		charges = append(charges, ch)
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("beginning import: %w", err)
	}
	defer itx.Rollback()

	if err := itx.ReplaceClients(ctx, clients); err != nil {
		return 0, 0, fmt.Errorf("replacing clients: %w", err)
	}

	if err := itx.ReplaceCharges(ctx, charges); err != nil {
		return 0, 0, fmt.Errorf("replacing charges: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("committing import: %w", err)
	}

	return len(clients), len(charges), nil
}
