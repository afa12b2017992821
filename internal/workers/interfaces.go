// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"context"

	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/models"
)

// Worker is the interface that must be implemented by any background worker.
//
// Run blocks until ctx is cancelled or the worker fails. A worker that stops
// because ctx was cancelled returns nil.
type Worker interface {
	Run(ctx context.Context) error
}

// JobRunner runs one sync job. *service.SyncJob implements it.
type JobRunner interface {
	Run(ctx context.Context, onStatus func(models.SyncJobStatus)) (service.JobOutcome, error)
}
