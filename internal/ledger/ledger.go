// Package ledger implements the reconciliation engine for running-balance
// credit accounts: payment application, oldest-first settlement, debt
// computation and lifecycle state derivation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/search"

	"fiado/internal/charge"
	"fiado/internal/client"
)

var ErrValidation = errors.New("invalid payment")

//go:generate mockgen -source=ledger.go -destination=repository_mock.go -package=ledger
type ClientRepository interface {
	GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error)
	ListClients(ctx context.Context) ([]*client.Client, error)
}

type ChargeRepository interface {
	GetCharge(ctx context.Context, id uuid.UUID) (*charge.Charge, error)
	ListCharges(ctx context.Context, filter charge.ListFilter) ([]*charge.Charge, error)
	UpdateCharge(ctx context.Context, c *charge.Charge) error
	UpdateCharges(ctx context.Context, charges []*charge.Charge) error
}

// Service coordinates all ledger mutations. Payment application and
// reconciliation share one mutex: they are mutually exclusive critical
// sections over the charge store.
type Service struct {
	mu      sync.Mutex
	clients ClientRepository
	charges ChargeRepository
}

func NewService(clients ClientRepository, charges ChargeRepository) *Service {
	return &Service{clients: clients, charges: charges}
}

// ApplyPayment applies a single payment against one charge and returns the
// updated charge. The payment is clamped to the remaining balance, so an
// overpayment is never recorded.
func (s *Service) ApplyPayment(ctx context.Context, chargeID uuid.UUID, amount int64) (*charge.Charge, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment must be positive", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.charges.GetCharge(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	apply(ch, amount)

	if err := s.charges.UpdateCharge(ctx, ch); err != nil {
		return nil, fmt.Errorf("saving payment: %w", err)
	}

	return ch, nil
}

// PayOff settles the exact remaining balance of one charge. A charge that
// already has zero remaining is forced to paid without recording a payment.
func (s *Service) PayOff(ctx context.Context, chargeID uuid.UUID) (*charge.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, err := s.charges.GetCharge(ctx, chargeID)
	if err != nil {
		return nil, err
	}

	apply(ch, ch.Remaining())

	if err := s.charges.UpdateCharge(ctx, ch); err != nil {
		return nil, fmt.Errorf("saving payoff: %w", err)
	}

	return ch, nil
}

// Settle distributes a payment across the client's outstanding charges,
// oldest first. Surplus beyond the total outstanding debt is discarded, and
// all touched charges are persisted in one batch so callers never observe a
// partially-applied settlement.
func (s *Service) Settle(ctx context.Context, clientID uuid.UUID, amount int64) ([]*charge.Charge, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: payment must be positive", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.clients.GetClient(ctx, clientID); err != nil {
		return nil, err
	}

	list, err := s.charges.ListCharges(ctx, charge.ListFilter{ClientID: &clientID})
	if err != nil {
		return nil, fmt.Errorf("listing charges: %w", err)
	}

	outstanding := list[:0:0]
	for _, ch := range list {
		if ch.Status != charge.StatusPaid {
			outstanding = append(outstanding, ch)
		}
	}

	// Oldest first; ties keep insertion order.
	sort.SliceStable(outstanding, func(i, j int) bool {
		return outstanding[i].Date.Before(outstanding[j].Date)
	})

	remaining := amount

	var touched []*charge.Charge

	for _, ch := range outstanding {
		if remaining <= 0 {
			break
		}

		pay := min(remaining, ch.Remaining())
		apply(ch, pay)
		remaining -= pay
		touched = append(touched, ch)
	}

	if len(touched) == 0 {
		return nil, nil
	}

	if err := s.charges.UpdateCharges(ctx, touched); err != nil {
		return nil, fmt.Errorf("saving settlement: %w", err)
	}

	return touched, nil
}

// apply mutates the charge for a payment and re-derives its status. The
// clamp keeps 0 <= AmountPaid <= Amount even against a misbehaving caller.
func apply(ch *charge.Charge, amount int64) {
	ch.AmountPaid += amount

	switch {
	case ch.AmountPaid >= ch.Amount:
		ch.AmountPaid = ch.Amount
		ch.Status = charge.StatusPaid
	case ch.AmountPaid > 0:
		ch.Status = charge.StatusPartiallyPaid
	default:
		ch.AmountPaid = 0
		if ch.Status != charge.StatusOverdue {
			ch.Status = charge.StatusActive
		}
	}
}

// Debt returns the client's total outstanding debt. A client with no
// charges owes zero.
func (s *Service) Debt(ctx context.Context, clientID uuid.UUID) (int64, error) {
	list, err := s.charges.ListCharges(ctx, charge.ListFilter{ClientID: &clientID})
	if err != nil {
		return 0, fmt.Errorf("listing charges: %w", err)
	}

	return DebtOf(clientID, list), nil
}

// DebtOf sums the remaining balances of the client's non-paid charges.
func DebtOf(clientID uuid.UUID, charges []*charge.Charge) int64 {
	var total int64

	for _, ch := range charges {
		if ch.ClientID == clientID && ch.Status != charge.StatusPaid {
			total += ch.Remaining()
		}
	}

	return total
}

// SortOrder selects how ListClients orders its result.
type SortOrder string

const (
	SortByName SortOrder = "name"
	SortByDebt SortOrder = "debt"
)

type ListParams struct {
	Search string
	Sort   SortOrder
}

// ClientDebt pairs a client with its computed outstanding debt.
type ClientDebt struct {
	Client *client.Client
	Debt   int64
}

// ListClients joins clients with their computed debt, filtered by a
// case- and accent-insensitive name search and ordered by name or by
// descending debt.
func (s *Service) ListClients(ctx context.Context, params ListParams) ([]ClientDebt, error) {
	clients, err := s.clients.ListClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}

	charges, err := s.charges.ListCharges(ctx, charge.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing charges: %w", err)
	}

	debts := make(map[uuid.UUID]int64, len(clients))

	for _, ch := range charges {
		if ch.Status != charge.StatusPaid {
			debts[ch.ClientID] += ch.Remaining()
		}
	}

	matcher := search.New(language.Spanish, search.IgnoreCase, search.IgnoreDiacritics)

	var out []ClientDebt

	for _, c := range clients {
		if !matchesName(matcher, c, params.Search) {
			continue
		}

		out = append(out, ClientDebt{Client: c, Debt: debts[c.ID]})
	}

	switch params.Sort {
	case SortByDebt:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Debt > out[j].Debt
		})
	default:
		collator := collate.New(language.Spanish, collate.IgnoreCase)
		sort.SliceStable(out, func(i, j int) bool {
			return collator.CompareString(out[i].Client.DisplayName(), out[j].Client.DisplayName()) < 0
		})
	}

	return out, nil
}

// matchesName checks the query against both "last first" and "first last",
// the way the original search box behaves.
func matchesName(m *search.Matcher, c *client.Client, query string) bool {
	if query == "" {
		return true
	}

	if start, _ := m.IndexString(c.LastName+" "+c.FirstName, query); start >= 0 {
		return true
	}

	start, _ := m.IndexString(c.FirstName+" "+c.LastName, query)

	return start >= 0
}
