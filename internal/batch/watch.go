package batch

import (
	"context"
	"time"

	"vocabscan/internal/logging"
)

// Watch repeats directory passes on a fixed tick until the context is
// cancelled. The process is idle between ticks; cancellation is honored at
// tick and image boundaries, and the final pass's ledger state is already
// persisted by the time Watch returns.
func (r *Runner) Watch(ctx context.Context, interval time.Duration) error {
	r.logger.Info("watch mode started", logging.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		summary, err := r.RunDirectory(ctx)
		if err != nil && ctx.Err() == nil {
			return err
		}
		if summary != nil && summary.Processed > 0 {
			r.logger.Info("watch pass complete", logging.String("summary", summary.String()))
		}
		if ctx.Err() != nil {
			r.logger.Info("watch mode stopping")
			return nil
		}

		select {
		case <-ctx.Done():
			r.logger.Info("watch mode stopping")
			return nil
		case <-ticker.C:
		}
	}
}
