package charge

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a charge. The values are the
// Spanish wire names the original front end stores and expects.
type Status string

const (
	StatusActive        Status = "activo"
	StatusPartiallyPaid Status = "parcialmente_pagado"
	StatusPaid          Status = "pagado"
	StatusOverdue       Status = "vencido"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusPartiallyPaid, StatusPaid, StatusOverdue:
		return true
	}

	return false
}

// Charge is a dated debt entry owed by a client ("transacción").
type Charge struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	Amount      int64 // original amount in centavos, fixed at creation
	AmountPaid  int64 // 0 <= AmountPaid <= Amount
	Description string
	Date        time.Time // calendar day the debt was incurred, UTC midnight
	Status      Status
	CreatedAt   time.Time
}

// Remaining returns the unpaid balance of the charge.
func (c *Charge) Remaining() int64 {
	return c.Amount - c.AmountPaid
}
