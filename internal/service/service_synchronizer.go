// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/utils"
	"github.com/MKhiriev/resource-sync/models"
)

// defaultDeliveryGrace bounds how long a cancelled run waits for the caller
// to receive its Started and terminal statuses.
const defaultDeliveryGrace = time.Second

type synchronizer struct {
	jobID string

	downloader Downloader
	uploader   Uploader
	store      LocalChangeStore
	jobState   JobStateStore
	resolver   models.ConflictResolver

	observer Observer
	ids      utils.IDGenerator
	now      func() time.Time
	grace    time.Duration

	// lock admits one synchronize call at a time; waiters are served in
	// FIFO order.
	lock *semaphore.Weighted

	logger *logger.Logger
}

// SynchronizerOption customises a Synchronizer.
type SynchronizerOption func(*synchronizer)

// WithObserver reports every emitted status to o.
func WithObserver(o Observer) SynchronizerOption {
	return func(s *synchronizer) { s.observer = o }
}

// WithIDGenerator replaces the uuid run id generator.
func WithIDGenerator(g utils.IDGenerator) SynchronizerOption {
	return func(s *synchronizer) { s.ids = g }
}

// WithClock replaces time.Now for terminal status timestamps.
func WithClock(now func() time.Time) SynchronizerOption {
	return func(s *synchronizer) { s.now = now }
}

// WithDeliveryGrace sets how long a cancelled run keeps trying to deliver
// its remaining statuses.
func WithDeliveryGrace(d time.Duration) SynchronizerOption {
	return func(s *synchronizer) { s.grace = d }
}

func NewSynchronizer(
	jobID string,
	downloader Downloader,
	uploader Uploader,
	store LocalChangeStore,
	jobState JobStateStore,
	resolver models.ConflictResolver,
	log *logger.Logger,
	opts ...SynchronizerOption,
) Synchronizer {
	s := &synchronizer{
		jobID:      jobID,
		downloader: downloader,
		uploader:   uploader,
		store:      store,
		jobState:   jobState,
		resolver:   resolver,
		ids:        utils.NewUUIDGenerator(),
		now:        time.Now,
		grace:      defaultDeliveryGrace,
		lock:       semaphore.NewWeighted(1),
		logger:     log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synchronize implements Synchronizer.
func (s *synchronizer) Synchronize(ctx context.Context) <-chan models.SyncJobStatus {
	out := make(chan models.SyncJobStatus)
	go s.run(ctx, out)
	return out
}

// syncRun is the state of one synchronize call.
type syncRun struct {
	*synchronizer
	ctx context.Context
	out chan<- models.SyncJobStatus
	log *logger.Logger
}

func (s *synchronizer) run(ctx context.Context, out chan models.SyncJobStatus) {
	defer close(out)

	runID := s.ids.Generate()
	log := &logger.Logger{Logger: s.logger.With().Str("job_id", s.jobID).Str("run_id", runID).Logger()}
	ctx = utils.WithRunID(log.WithContext(ctx), runID)
	r := &syncRun{synchronizer: s, ctx: ctx, out: out, log: log}

	if err := s.lock.Acquire(ctx, 1); err != nil {
		log.Warn().Err(err).Str("func", "synchronizer.run").Msg("cancelled while waiting for the sync lock")
		if r.emit(models.Started()) {
			r.emit(models.Failed(s.now(), models.NewResourceSyncError("", err)))
		}
		return
	}
	defer s.lock.Release(1)

	start := time.Now()
	log.Info().Str("func", "synchronizer.run").Msg("sync started")

	if !r.emit(models.Started()) {
		r.finish(models.Failed(s.now(), models.NewResourceSyncError("", context.Cause(ctx))))
		return
	}

	if err := r.download(); err != nil {
		r.finish(models.Failed(s.now(), err))
		return
	}
	if err := r.upload(); err != nil {
		r.finish(models.Failed(s.now(), err))
		return
	}

	r.finish(models.Succeeded(s.now()))
	log.Info().Str("func", "synchronizer.run").Dur("took", time.Since(start)).Msg("sync succeeded")
}

// download runs the download phase and consolidates every batch before the
// next request is issued. Progress is emitted after each batch.
func (r *syncRun) download() *models.ResourceSyncError {
	for state := range r.downloader.Download(r.ctx) {
		switch state.Kind {
		case models.DownloadStarted:
			r.log.Debug().Str("func", "syncRun.download").Int("total", state.Total).Msg("download phase started")

		case models.DownloadSuccess:
			if len(state.Resources) > 0 {
				if err := r.store.ConsolidateDownload(r.ctx, state.Resources, r.resolver); err != nil {
					r.log.Err(err).Str("func", "syncRun.download").Int("resources", len(state.Resources)).Msg("consolidation failed")
					return models.NewResourceSyncError(state.Resources[0].ResourceType, fmt.Errorf("consolidate download: %w", err))
				}
			}
			if !r.emit(models.InProgress(models.OperationDownload, state.Total, state.Completed)) {
				return r.cancelled()
			}

		case models.DownloadFailure:
			r.log.Warn().Err(state.Err).Str("func", "syncRun.download").Msg("download phase failed")
			return state.Err
		}
	}
	return nil
}

func (r *syncRun) upload() *models.ResourceSyncError {
	for state := range r.uploader.Upload(r.ctx) {
		switch state.Kind {
		case models.UploadStarted:
			r.log.Debug().Str("func", "syncRun.upload").Int("total", state.Total).Msg("upload phase started")

		case models.UploadProgress:
			if !r.emit(models.InProgress(models.OperationUpload, state.Total, state.Completed)) {
				return r.cancelled()
			}

		case models.UploadFailure:
			r.log.Warn().Err(state.Err).Str("func", "syncRun.upload").Msg("upload phase failed")
			return state.Err
		}
	}
	return nil
}

func (r *syncRun) cancelled() *models.ResourceSyncError {
	return models.NewResourceSyncError("", context.Cause(r.ctx))
}

// finish persists a terminal status, then emits it.
func (r *syncRun) finish(status models.SyncJobStatus) {
	ctx := context.WithoutCancel(r.ctx)
	log := r.log.With().Str("func", "syncRun.finish").Str("status", status.Kind.String()).Logger()

	if err := r.jobState.SaveTerminalStatus(ctx, r.jobID, status); err != nil {
		log.Err(err).Msg("failed to persist terminal status")
	}

	if status.Kind == models.StatusSucceeded {
		if err := r.jobState.ResetAttempts(ctx, r.jobID); err != nil {
			log.Err(err).Msg("failed to reset attempts")
		}
	} else {
		attempts, err := r.jobState.IncrementAttempts(ctx, r.jobID)
		if err != nil {
			log.Err(err).Msg("failed to increment attempts")
		}
		log.Warn().Err(status.Err()).Int("attempts", attempts).Msg("sync failed")
	}

	r.emit(status)
}

// emit sends status to the caller. After cancellation only Started and
// terminal statuses are delivered, within the grace period. It reports
// whether the caller received the status.
func (r *syncRun) emit(status models.SyncJobStatus) bool {
	if r.observer != nil {
		r.observer.Observe(r.jobID, status)
	}

	select {
	case r.out <- status:
		return true
	case <-r.ctx.Done():
	}

	if status.Kind == models.StatusInProgress {
		return false
	}

	timer := time.NewTimer(r.grace)
	defer timer.Stop()
	select {
	case r.out <- status:
		return true
	case <-timer.C:
		r.log.Warn().Str("func", "syncRun.emit").Str("status", status.String()).Msg("status dropped, caller stopped reading")
		return false
	}
}
