package ledger

import (
	"context"
	"log/slog"
	"time"
)

// Scheduler runs lifecycle reconciliation on a fixed cycle. It reconciles
// once immediately, then on every tick until the context is cancelled.
type Scheduler struct {
	svc      *Service
	interval time.Duration
}

func NewScheduler(svc *Service, interval time.Duration) *Scheduler {
	return &Scheduler{svc: svc, interval: interval}
}

func (s *Scheduler) Run(ctx context.Context) error {
	s.reconcile(ctx, time.Now())

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			s.reconcile(ctx, now)
		}
	}
}

func (s *Scheduler) reconcile(ctx context.Context, now time.Time) {
	n, err := s.svc.ReconcileAll(ctx, now)
	if err != nil {
		slog.Error("scheduled reconciliation failed", "error", err)
		return
	}

	if n > 0 {
		slog.Info("reconciled charge states", "updated", n)
	}
}
