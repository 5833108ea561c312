// Package scheduler drives the two periodic background jobs: the due-alarm
// sweep and the expired-trash purge. Both run on one goroutine, so they never
// overlap each other; they talk to the rest of the system only through the
// services they are handed.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/memoboard/internal/service"
)

const (
	defaultSweepInterval = 30 * time.Second
	defaultPurgeInterval = 6 * time.Hour
)

// Worker periodically runs the alarm sweep and the trash purge.
type Worker struct {
	alarms *service.AlarmService
	trash  *service.TrashService
	logger *slog.Logger

	sweepInterval time.Duration
	purgeInterval time.Duration

	mu     sync.RWMutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewWorker(alarms *service.AlarmService, trash *service.TrashService, logger *slog.Logger) *Worker {
	return &Worker{
		alarms:        alarms,
		trash:         trash,
		logger:        logger,
		sweepInterval: defaultSweepInterval,
		purgeInterval: defaultPurgeInterval,
	}
}

// Start begins the loop. Both jobs run once immediately, then on their
// intervals. An in-flight tick runs to completion on shutdown; only further
// ticks are stopped.
func (w *Worker) Start(ctx context.Context) {
	w.mu.Lock()
	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	w.mu.Unlock()

	go func() {
		defer close(w.done)

		w.sweep()
		w.purge()

		sweepTicker := time.NewTicker(w.sweepInterval)
		defer sweepTicker.Stop()
		purgeTicker := time.NewTicker(w.purgeInterval)
		defer purgeTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-sweepTicker.C:
				w.sweep()
			case <-purgeTicker.C:
				w.purge()
			}
		}
	}()
}

// Stop cancels further ticks and waits for the loop to exit.
func (w *Worker) Stop() {
	w.mu.RLock()
	cancel := w.cancel
	done := w.done
	w.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (w *Worker) sweep() {
	if err := w.alarms.ProcessDueAlarms(); err != nil {
		w.logger.Error("alarm sweep", "error", err)
	}
}

func (w *Worker) purge() {
	if err := w.trash.PurgeExpired(); err != nil {
		w.logger.Error("trash purge", "error", err)
	}
}
