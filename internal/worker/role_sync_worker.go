package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// RoleSyncWorker periodically polls unlock rows still pending
// downstream sync, announces them on the event bus for the role-sync
// consumer, and marks them synced.
type RoleSyncWorker struct {
	achievements repository.Achievement
	bus          event.Bus
	ticker       *time.Ticker
	shutdown     chan struct{}
	wg           sync.WaitGroup
	pollInterval time.Duration
	batchSize    int
}

// NewRoleSyncWorker creates a role sync worker
func NewRoleSyncWorker(achievements repository.Achievement, bus event.Bus, pollInterval time.Duration) *RoleSyncWorker {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	return &RoleSyncWorker{
		achievements: achievements,
		bus:          bus,
		shutdown:     make(chan struct{}),
		pollInterval: pollInterval,
		batchSize:    DefaultBatchSize,
	}
}

// Start starts the worker's poll loop
func (w *RoleSyncWorker) Start() {
	slog.Info(LogMsgStarting, "poll_interval", w.pollInterval)

	w.ticker = time.NewTicker(w.pollInterval)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Run once immediately to catch rows left pending by a restart
		w.syncPending()

		for {
			select {
			case <-w.ticker.C:
				w.syncPending()
			case <-w.shutdown:
				slog.Info(LogMsgShutdownSignal)
				return
			}
		}
	}()
}

// syncPending processes one bounded batch of pending unlock rows.
// A row that fails to publish or mark stays pending and is retried on
// the next tick; one row's failure never blocks the rest.
func (w *RoleSyncWorker) syncPending() {
	ctx := context.Background()

	pending, err := w.achievements.GetPendingSync(ctx, w.batchSize)
	if err != nil {
		slog.Error(LogMsgPollFailed, "error", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	slog.Info(LogMsgBatchFound, "count", len(pending))

	for _, row := range pending {
		select {
		case <-w.shutdown:
			return
		default:
		}

		evt := event.NewAchievementUnlockedEvent(
			row.Unlock.UserID, row.Unlock.AchievementID, row.Slug, row.Title)
		if err := w.bus.Publish(ctx, evt); err != nil {
			slog.Warn(LogMsgPublishFailed,
				"user_id", row.Unlock.UserID,
				"achievement_id", row.Unlock.AchievementID,
				"error", err)
			continue
		}

		if err := w.achievements.MarkSynced(ctx, row.Unlock.UserID, row.Unlock.AchievementID); err != nil {
			slog.Error(LogMsgMarkFailed,
				"user_id", row.Unlock.UserID,
				"achievement_id", row.Unlock.AchievementID,
				"error", err)
		}
	}
}

// Shutdown gracefully stops the worker
func (w *RoleSyncWorker) Shutdown(ctx context.Context) error {
	slog.Info(LogMsgShuttingDown)

	if w.ticker != nil {
		w.ticker.Stop()
	}
	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info(LogMsgShutdownComplete)
		return nil
	case <-ctx.Done():
		slog.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
