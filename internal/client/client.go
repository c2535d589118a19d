package client

import (
	"time"

	"github.com/google/uuid"
)

// Client is a credit account holder.
type Client struct {
	ID        uuid.UUID
	LastName  string
	FirstName string
	Phone     string // optional; exactly 10 digits when present
	CreatedAt time.Time
}

// DisplayName is the "last first" form used in listings and reports.
func (c *Client) DisplayName() string {
	return c.LastName + " " + c.FirstName
}
