package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/utils"
	"github.com/MKhiriev/resource-sync/models"
)

type syncStatusResponse struct {
	Kind      string     `json:"kind"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
	Errors    []string   `json:"errors,omitempty"`
}

type syncStateResponse struct {
	JobID        string              `json:"job_id"`
	LastStatus   *syncStatusResponse `json:"last_status,omitempty"`
	LastSyncedAt *time.Time          `json:"last_synced_at,omitempty"`
	Attempts     int                 `json:"attempts"`
}

type syncRunResponse struct {
	Result     string             `json:"result"`
	Status     syncStatusResponse `json:"status"`
	RetryAfter string             `json:"retry_after,omitempty"`
}

func newSyncStatusResponse(s models.SyncJobStatus) syncStatusResponse {
	resp := syncStatusResponse{Kind: s.Kind.String()}
	if !s.Timestamp.IsZero() {
		ts := s.Timestamp
		resp.Timestamp = &ts
	}
	for _, err := range s.Errors {
		resp.Errors = append(resp.Errors, err.Error())
	}
	return resp
}

func (h *Handler) getSyncStatus(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	state, err := h.states.State(r.Context(), h.jobID)
	if err != nil {
		log.Err(err).Str("func", "*Handler.getSyncStatus").Msg("error reading sync job state")
		http.Error(w, "error reading sync job state", statusFromError(err))
		return
	}

	resp := syncStateResponse{
		JobID:        state.JobID,
		LastSyncedAt: state.LastSyncedAt,
		Attempts:     state.Attempts,
	}
	if state.LastStatus != nil {
		last := newSyncStatusResponse(*state.LastStatus)
		resp.LastStatus = &last
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}

// runSync runs the job once and answers with its outcome. It waits for any
// run already in progress to finish first.
func (h *Handler) runSync(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	outcome, err := h.job.Run(r.Context(), nil)
	if err != nil {
		log.Err(err).Str("func", "*Handler.runSync").Msg("sync job failed")
		http.Error(w, "sync job failed", statusFromError(err))
		return
	}

	resp := syncRunResponse{
		Result: outcome.Result.String(),
		Status: newSyncStatusResponse(outcome.Status),
	}
	if outcome.RetryAfter > 0 {
		resp.RetryAfter = outcome.RetryAfter.String()
	}

	utils.WriteJSON(w, resp, http.StatusOK)
}
