// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"iter"
	"time"

	"github.com/MKhiriev/resource-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// LocalChangeStore is the local resource store as seen by the engine. It
// owns the pending change log and applies downloaded and uploaded state.
type LocalChangeStore interface {
	// PendingCount returns the number of local changes not yet uploaded.
	PendingCount(ctx context.Context) (int, error)

	// FetchPending returns the next chunk of pending changes ordered by
	// sequence id. It returns an empty slice once nothing is pending.
	FetchPending(ctx context.Context, mode models.FetchMode) ([]models.LocalChange, error)

	// ConsolidateDownload writes downloaded resources, resolving conflicts
	// with pending local changes through resolver. Each resource is handled
	// atomically with respect to the pending change log.
	ConsolidateDownload(ctx context.Context, resources []models.Resource, resolver models.ConflictResolver) error

	// ConsolidateUpload applies the outcome of one upload: the covered changes
	// are dropped on success and kept pending on failure.
	ConsolidateUpload(ctx context.Context, outcome models.UploadOutcome) error

	// GetResource returns the current local version of a resource.
	GetResource(ctx context.Context, resourceType, id string) (models.Resource, error)

	// LatestTimestamp returns the newest lastUpdated stored for resourceType,
	// or "" if none.
	LatestTimestamp(ctx context.Context, resourceType string) (string, error)
}

// JobStateStore persists terminal statuses and retry bookkeeping per job id.
type JobStateStore interface {
	SaveTerminalStatus(ctx context.Context, jobID string, status models.SyncJobStatus) error
	LastSyncTimestamp(ctx context.Context, jobID string) (*time.Time, error)
	TerminalStatus(ctx context.Context, jobID string) (*models.SyncJobStatus, error)
	Attempts(ctx context.Context, jobID string) (int, error)
	IncrementAttempts(ctx context.Context, jobID string) (int, error)
	ResetAttempts(ctx context.Context, jobID string) error
}

// DownloadWorkManager owns the download cursor of one synchronize call.
type DownloadWorkManager interface {
	// NextRequest returns the next request to issue, or nil when the work
	// queue is empty.
	NextRequest(ctx context.Context) (*models.DownloadRequest, error)

	// SummaryRequestURLs returns, per resource type, a url answering with a
	// Bundle whose total estimates the number of resources to download.
	SummaryRequestURLs(ctx context.Context) (map[string]string, error)

	// ProcessResponse extracts the resources to save from a response and
	// queues any follow-up requests it discovers.
	ProcessResponse(ctx context.Context, response models.Resource) ([]models.Resource, error)
}

// Observer is notified of every status emitted by a synchronize call.
type Observer interface {
	Observe(jobID string, status models.SyncJobStatus)
}

// Synchronizer is the sole entry point of the engine.
type Synchronizer interface {
	// Synchronize runs one download phase followed by one upload phase and
	// streams their statuses. The channel yields Started first and exactly
	// one terminal status last, then it is closed. A caller that stops
	// reading must cancel ctx so the run can unwind.
	Synchronize(ctx context.Context) <-chan models.SyncJobStatus
}

// Downloader drives the download phase.
type Downloader interface {
	Download(ctx context.Context) iter.Seq[models.DownloadState]
}

// Uploader drives the upload phase.
type Uploader interface {
	Upload(ctx context.Context) iter.Seq[models.UploadState]
}

// PatchGenerator turns squashed changes into wire-level patches.
type PatchGenerator interface {
	Generate(ctx context.Context, squashed []models.SquashedChange) ([]models.PatchMapping, error)
}

// RequestGenerator groups patches into upload requests.
type RequestGenerator interface {
	Generate(patches []models.PatchMapping) ([]models.UploadRequestMapping, error)
}
