package fleet

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// maintenanceLoop periodically prunes status history older than the
// configured retention window.
func (m *Module) maintenanceLoop(ctx context.Context) {
	defer close(m.maintDone)

	ticker := time.NewTicker(m.cfg.MaintenanceInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cutoff := now.Add(-m.cfg.HistoryRetention)
			pruned, err := m.store.PruneHistory(ctx, cutoff)
			if err != nil {
				m.logger.Warn("history prune failed", zap.Error(err))
				continue
			}
			if pruned > 0 {
				m.logger.Info("pruned status history",
					zap.Int64("rows", pruned),
					zap.Time("cutoff", cutoff))
			}
		}
	}
}
