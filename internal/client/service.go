package client

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	ListClients(ctx context.Context) ([]*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	LastName  string
	FirstName string
	Phone     string
}

var phoneRE = regexp.MustCompile(`^[0-9]{10}$`)

// ValidatePhone checks the optional phone field: empty is fine, anything
// else must be exactly 10 ASCII digits.
func ValidatePhone(phone string) error {
	if phone != "" && !phoneRE.MatchString(phone) {
		return fmt.Errorf("%w: phone must be exactly 10 digits", ErrValidation)
	}

	return nil
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Client, error) {
	c := &Client{
		ID:        uuid.New(),
		LastName:  strings.TrimSpace(params.LastName),
		FirstName: strings.TrimSpace(params.FirstName),
		Phone:     strings.TrimSpace(params.Phone),
		CreatedAt: time.Now().UTC(),
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) Update(ctx context.Context, c *Client) error {
	c.LastName = strings.TrimSpace(c.LastName)
	c.FirstName = strings.TrimSpace(c.FirstName)
	c.Phone = strings.TrimSpace(c.Phone)

	if err := validate(c); err != nil {
		return err
	}

	return s.repo.UpdateClient(ctx, c)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteClient(ctx, id)
}

func validate(c *Client) error {
	if c.LastName == "" {
		return fmt.Errorf("%w: last name is required", ErrValidation)
	}

	if c.FirstName == "" {
		return fmt.Errorf("%w: first name is required", ErrValidation)
	}

	return ValidatePhone(c.Phone)
}
