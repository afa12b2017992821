// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"

	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/models"
)

// Client defines the lifecycle contract of the syncctl runtime.
type Client interface {
	// SyncOnce runs one sync job and reports every status to onStatus.
	SyncOnce(ctx context.Context, onStatus func(models.SyncJobStatus)) (service.JobOutcome, error)

	// Serve runs the periodic sync worker, and the status server when an
	// address is configured, until ctx is cancelled.
	Serve(ctx context.Context, onStatus func(models.SyncJobStatus)) error

	// State returns the persisted state of the configured job.
	State(ctx context.Context) (models.SyncJobState, error)

	// Close releases the local store.
	Close() error
}
