package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/internal/store"
	"github.com/MKhiriev/resource-sync/models"
)

type stateReaderFunc func(ctx context.Context, jobID string) (models.SyncJobState, error)

func (f stateReaderFunc) State(ctx context.Context, jobID string) (models.SyncJobState, error) {
	return f(ctx, jobID)
}

type jobRunnerFunc func(ctx context.Context) (service.JobOutcome, error)

func (f jobRunnerFunc) Run(ctx context.Context, _ func(models.SyncJobStatus)) (service.JobOutcome, error) {
	return f(ctx)
}

var syncedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRouter(states JobStateReader, job JobRunner, metrics http.Handler) http.Handler {
	return NewHandler("nightly", states, job, metrics, logger.Nop()).Init()
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, nil))
	return rr
}

func TestGetSyncStatus(t *testing.T) {
	failed := models.Failed(syncedAt, models.NewResourceSyncError("Patient", errors.New("boom")))
	states := stateReaderFunc(func(_ context.Context, jobID string) (models.SyncJobState, error) {
		assert.Equal(t, "nightly", jobID)
		return models.SyncJobState{JobID: jobID, LastStatus: &failed, LastSyncedAt: &syncedAt, Attempts: 2}, nil
	})

	rr := serve(newTestRouter(states, nil, nil), http.MethodGet, "/api/sync/status")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
	assert.JSONEq(t, `{
		"job_id": "nightly",
		"last_status": {"kind": "Failed", "timestamp": "2026-03-01T12:00:00Z", "errors": ["Patient: boom"]},
		"last_synced_at": "2026-03-01T12:00:00Z",
		"attempts": 2
	}`, rr.Body.String())
}

func TestGetSyncStatus_NeverRun(t *testing.T) {
	states := stateReaderFunc(func(_ context.Context, jobID string) (models.SyncJobState, error) {
		return models.SyncJobState{JobID: jobID}, nil
	})

	rr := serve(newTestRouter(states, nil, nil), http.MethodGet, "/api/sync/status")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"job_id":"nightly","attempts":0}`, rr.Body.String())
}

func TestGetSyncStatus_StoreError(t *testing.T) {
	states := stateReaderFunc(func(context.Context, string) (models.SyncJobState, error) {
		return models.SyncJobState{}, store.ErrExecutingQuery
	})

	rr := serve(newTestRouter(states, nil, nil), http.MethodGet, "/api/sync/status")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestRunSync(t *testing.T) {
	tests := []struct {
		name       string
		outcome    service.JobOutcome
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "success",
			outcome:    service.JobOutcome{Result: service.JobSuccess, Status: models.Succeeded(syncedAt)},
			wantStatus: http.StatusOK,
			wantBody:   `{"result":"success","status":{"kind":"Succeeded","timestamp":"2026-03-01T12:00:00Z"}}`,
		},
		{
			name:       "retry",
			outcome:    service.JobOutcome{Result: service.JobRetry, Status: models.Failed(syncedAt), RetryAfter: 30 * time.Second},
			wantStatus: http.StatusOK,
			wantBody:   `{"result":"retry","status":{"kind":"Failed","timestamp":"2026-03-01T12:00:00Z"},"retry_after":"30s"}`,
		},
		{
			name:       "cancelled",
			err:        context.Canceled,
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := jobRunnerFunc(func(context.Context) (service.JobOutcome, error) { return tt.outcome, tt.err })

			rr := serve(newTestRouter(nil, job, nil), http.MethodPost, "/api/sync/run")

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestRoutes_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("resource_sync_statuses_total 1\n"))
	})

	rr := serve(newTestRouter(nil, nil, metrics), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "resource_sync_statuses_total")

	rr = serve(newTestRouter(nil, nil, nil), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoutes_UnsupportedMethodIsNotFound(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/sync/run").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/api/sync/status").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/unknown").Code)
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusGatewayTimeout, statusFromError(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, statusFromError(errors.New("other")))
}

func TestSyncRunResponse_OmitsEmptyRetry(t *testing.T) {
	b, err := json.Marshal(syncRunResponse{Result: "failure", Status: syncStatusResponse{Kind: "Failed"}})
	require.NoError(t, err)
	assert.NotContains(t, string(b), "retry_after")
}
