package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/models"
)

// JobStateReader reads the persisted state of a sync job.
type JobStateReader interface {
	State(ctx context.Context, jobID string) (models.SyncJobState, error)
}

// JobRunner runs one sync job.
type JobRunner interface {
	Run(ctx context.Context, onStatus func(models.SyncJobStatus)) (service.JobOutcome, error)
}

type Handler struct {
	jobID   string
	states  JobStateReader
	job     JobRunner
	metrics http.Handler

	logger *logger.Logger
}

// NewHandler creates the handler of jobID. metrics may be nil, in which case
// /metrics is not routed.
func NewHandler(jobID string, states JobStateReader, job JobRunner, metrics http.Handler, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		jobID:   jobID,
		states:  states,
		job:     job,
		metrics: metrics,
		logger:  logger,
	}
}
