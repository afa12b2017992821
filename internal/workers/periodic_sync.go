// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/models"
)

const defaultSyncInterval = 15 * time.Minute

// PeriodicSyncWorker runs a sync job once on start and then on every tick.
// A failed run the job asks to retry is repeated after its backoff delay
// without waiting for the next tick.
type PeriodicSyncWorker struct {
	job      JobRunner
	interval time.Duration
	onStatus func(models.SyncJobStatus)
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPeriodicSyncWorker creates an idle worker. If interval is zero or
// negative it defaults to 15 minutes. onStatus may be nil.
func NewPeriodicSyncWorker(job JobRunner, interval time.Duration, onStatus func(models.SyncJobStatus), log *logger.Logger) *PeriodicSyncWorker {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &PeriodicSyncWorker{job: job, interval: interval, onStatus: onStatus, logger: log}
}

// Run implements Worker.
func (w *PeriodicSyncWorker) Run(ctx context.Context) error {
	w.logger.Info().Str("func", "PeriodicSyncWorker.Run").Dur("interval", w.interval).Msg("periodic sync started")

	t := time.NewTicker(w.interval)
	defer t.Stop()

	for {
		w.runWithRetries(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info().Str("func", "PeriodicSyncWorker.Run").Msg("periodic sync stopped")
			return nil
		case <-t.C:
		}
	}
}

func (w *PeriodicSyncWorker) runWithRetries(ctx context.Context) {
	for ctx.Err() == nil {
		outcome, err := w.job.Run(ctx, w.onStatus)
		if err != nil {
			w.logger.Err(err).Str("func", "PeriodicSyncWorker.runWithRetries").Msg("sync job failed")
			return
		}
		if outcome.Result != service.JobRetry {
			w.logger.Debug().
				Str("func", "PeriodicSyncWorker.runWithRetries").
				Str("result", outcome.Result.String()).
				Msg("sync job finished")
			return
		}

		timer := time.NewTimer(outcome.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Start launches Run in the background. It stops any previously running
// loop first. The loop exits when ctx is cancelled or Stop is called.
func (w *PeriodicSyncWorker) Start(ctx context.Context) {
	w.Stop()

	w.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.wg.Add(1)
	w.mu.Unlock()

	go func() {
		defer w.wg.Done()
		_ = w.Run(jobCtx)
	}()
}

// Stop cancels the background loop and blocks until it has exited. Safe to
// call when the worker is not running.
func (w *PeriodicSyncWorker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	w.wg.Wait()
}
