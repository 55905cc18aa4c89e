package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/initcore/callcenter-backend-go/internal/domain/breaks"
)

// RegisterBreakSweep schedules the stale-break sweeper. Disabled deployments
// rely on breaks being closed at logout instead.
func RegisterBreakSweep(s *Scheduler, breakService breaks.Service, interval time.Duration) {
	s.AddJob("stale-break-sweep", interval, func(ctx context.Context) error {
		closed, err := breakService.SweepStale(ctx)
		if err != nil {
			return err
		}
		if closed > 0 {
			slog.Info("Stale break sweep closed breaks", "count", closed)
		}
		return nil
	})
}
