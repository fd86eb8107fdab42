package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/scribe/internal/logger"
)

// journal is the subset of the Redis store the collector needs.
type journal interface {
	PruneDangling(ctx context.Context) (int, error)
}

// JournalGC periodically removes dangling IDs from the publish journal:
// entries expire via TTL, but their IDs linger in the recent list until
// pruned.
type JournalGC struct {
	journal  journal
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewJournalGC creates a new journal garbage collector
func NewJournalGC(j journal, log logger.Logger, interval time.Duration) *JournalGC {
	return &JournalGC{
		journal:  j,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins periodic collection
func (gc *JournalGC) Start(ctx context.Context) error {
	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gc.Collect(ctx); err != nil {
					gc.logger.Error("journal gc failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector
func (gc *JournalGC) Stop() {
	close(gc.stopCh)
}

// Collect runs one pruning pass
func (gc *JournalGC) Collect(ctx context.Context) error {
	if gc.journal == nil {
		return nil
	}

	removed, err := gc.journal.PruneDangling(ctx)
	if err != nil {
		return err
	}

	if removed > 0 {
		gc.logger.Info("pruned dangling journal ids",
			logger.Int("removed", removed))
	}
	return nil
}
