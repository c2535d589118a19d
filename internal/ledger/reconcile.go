package ledger

import (
	"context"
	"fmt"
	"time"

	"fiado/internal/charge"
)

// StatusAt derives the lifecycle state of a charge from its payment facts
// and the calendar at the given instant. A charge from a month before the
// current one that still carries unpaid balance is overdue.
func StatusAt(ch *charge.Charge, now time.Time) charge.Status {
	if ch.AmountPaid >= ch.Amount {
		return charge.StatusPaid
	}

	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	if ch.Date.Before(firstOfMonth) {
		return charge.StatusOverdue
	}

	if ch.AmountPaid > 0 {
		return charge.StatusPartiallyPaid
	}

	return charge.StatusActive
}

// ReconcileAll re-derives every charge's state against now and persists the
// ones that changed. It is idempotent: a second run with no intervening
// payment changes nothing. Returns the number of corrected charges.
func (s *Service) ReconcileAll(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.charges.ListCharges(ctx, charge.ListFilter{})
	if err != nil {
		return 0, fmt.Errorf("listing charges: %w", err)
	}

	var changed []*charge.Charge

	for _, ch := range list {
		if status := StatusAt(ch, now); status != ch.Status {
			ch.Status = status
			changed = append(changed, ch)
		}
	}

	if len(changed) == 0 {
		return 0, nil
	}

	if err := s.charges.UpdateCharges(ctx, changed); err != nil {
		return 0, fmt.Errorf("saving reconciled charges: %w", err)
	}

	return len(changed), nil
}
