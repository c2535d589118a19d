package charge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=charge
type Repository interface {
	CreateCharge(ctx context.Context, c *Charge) error
	GetCharge(ctx context.Context, id uuid.UUID) (*Charge, error)
	ListCharges(ctx context.Context, filter ListFilter) ([]*Charge, error)
	DeleteCharge(ctx context.Context, id uuid.UUID) error
	DeleteChargesByClient(ctx context.Context, clientID uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ClientID    uuid.UUID
	Amount      int64
	Description string
	Date        time.Time
}

type ListFilter struct {
	ClientID *uuid.UUID
	Status   *Status
}

// Create records a new debt entry. Charges always start unpaid and active.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Charge, error) {
	if params.ClientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client id is required", ErrValidation)
	}

	if params.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	if params.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrValidation)
	}

	c := &Charge{
		ID:          uuid.New(),
		ClientID:    params.ClientID,
		Amount:      params.Amount,
		AmountPaid:  0,
		Description: strings.TrimSpace(params.Description),
		Date:        normalizeDate(params.Date),
		Status:      StatusActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.repo.CreateCharge(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Charge, error) {
	return s.repo.GetCharge(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Charge, error) {
	return s.repo.ListCharges(ctx, filter)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCharge(ctx, id)
}

// DeleteByClient removes every charge owned by the client. Called by the
// HTTP layer when a client is deleted; the engine never cascades on its own.
func (s *Service) DeleteByClient(ctx context.Context, clientID uuid.UUID) error {
	return s.repo.DeleteChargesByClient(ctx, clientID)
}

// Validate checks the record-level invariants of a charge.
func Validate(c *Charge) error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("%w: id is required", ErrValidation)
	}

	if c.ClientID == uuid.Nil {
		return fmt.Errorf("%w: client id is required", ErrValidation)
	}

	if c.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	if c.AmountPaid < 0 || c.AmountPaid > c.Amount {
		return fmt.Errorf("%w: amount paid must be between 0 and the amount", ErrValidation)
	}

	if c.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}

	if !ValidStatus(c.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, c.Status)
	}

	return nil
}

func normalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
