package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

// JobStateRepository persists the state of sync jobs: the last terminal
// status, the last successful sync and the consecutive failure counter.
type JobStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewJobStateRepository constructs a repository over db.
func NewJobStateRepository(db *DB, log *logger.Logger) *JobStateRepository {
	return &JobStateRepository{DB: db, logger: log}
}

type storedSyncError struct {
	ResourceType string `json:"resource_type,omitempty"`
	Message      string `json:"message"`
}

// SaveTerminalStatus records status as the last terminal status of jobID.
// A Succeeded status also becomes the last successful sync time.
func (j *JobStateRepository) SaveTerminalStatus(ctx context.Context, jobID string, status models.SyncJobStatus) error {
	log := logger.FromContext(ctx)

	if !status.IsTerminal() {
		return fmt.Errorf("%w: %s", ErrNonTerminalStatus, status.Kind)
	}

	stored := make([]storedSyncError, 0, len(status.Errors))
	for _, e := range status.Errors {
		stored = append(stored, storedSyncError{ResourceType: e.ResourceType, Message: e.Cause.Error()})
	}
	errs, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshal sync errors: %w", err)
	}

	query, args, err := j.buildSaveTerminalStatusQuery(jobID, status.Kind.String(), formatTime(status.Timestamp), string(errs), status.Kind == models.StatusSucceeded)
	if err != nil {
		return err
	}
	if _, err = j.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "JobStateRepository.SaveTerminalStatus").
			Str("job_id", jobID).
			Str("status", status.Kind.String()).
			Msg("failed to save terminal status")
		return fmt.Errorf("%w: save terminal status: %w", ErrExecutingStatement, err)
	}

	return nil
}

// State returns the persisted state of jobID. An unknown job has a zero state.
func (j *JobStateRepository) State(ctx context.Context, jobID string) (models.SyncJobState, error) {
	log := logger.FromContext(ctx)
	state := models.SyncJobState{JobID: jobID}

	query, args, err := j.buildSelectSyncJobQuery(jobID)
	if err != nil {
		return state, err
	}

	var (
		id, status, errs   string
		statusAt, syncedAt sql.NullString
		attempts           int
	)
	err = j.QueryRowContext(ctx, query, args...).Scan(&id, &status, &statusAt, &errs, &syncedAt, &attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return state, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "JobStateRepository.State").
			Str("job_id", jobID).
			Msg("failed to read sync job state")
		return state, fmt.Errorf("%w: read sync job: %w", ErrExecutingQuery, err)
	}

	state.Attempts = attempts
	if state.LastSyncedAt, err = parseNullTime(syncedAt); err != nil {
		return state, err
	}

	if status != "" {
		kind, err := models.ParseStatusKind(status)
		if err != nil {
			return state, err
		}
		at, err := parseNullTime(statusAt)
		if err != nil {
			return state, err
		}

		last := models.SyncJobStatus{Kind: kind}
		if at != nil {
			last.Timestamp = *at
		}
		if errs != "" {
			var stored []storedSyncError
			if err = json.Unmarshal([]byte(errs), &stored); err != nil {
				return state, fmt.Errorf("decode stored sync errors: %w", err)
			}
			for _, e := range stored {
				last.Errors = append(last.Errors, models.NewResourceSyncError(e.ResourceType, errors.New(e.Message)))
			}
		}
		state.LastStatus = &last
	}

	return state, nil
}

// LastSyncTimestamp returns the time of the last Succeeded status, or nil.
func (j *JobStateRepository) LastSyncTimestamp(ctx context.Context, jobID string) (*time.Time, error) {
	state, err := j.State(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return state.LastSyncedAt, nil
}

// TerminalStatus returns the last terminal status, or nil.
func (j *JobStateRepository) TerminalStatus(ctx context.Context, jobID string) (*models.SyncJobStatus, error) {
	state, err := j.State(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return state.LastStatus, nil
}

// Attempts returns the consecutive failure counter.
func (j *JobStateRepository) Attempts(ctx context.Context, jobID string) (int, error) {
	state, err := j.State(ctx, jobID)
	if err != nil {
		return 0, err
	}
	return state.Attempts, nil
}

// IncrementAttempts adds one to the failure counter and returns the new value.
func (j *JobStateRepository) IncrementAttempts(ctx context.Context, jobID string) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := j.buildIncrementAttemptsQuery(jobID)
	if err != nil {
		return 0, err
	}

	var attempts int
	if err = j.QueryRowContext(ctx, query, args...).Scan(&attempts); err != nil {
		log.Err(err).
			Str("func", "JobStateRepository.IncrementAttempts").
			Str("job_id", jobID).
			Msg("failed to increment attempts")
		return 0, fmt.Errorf("%w: increment attempts: %w", ErrExecutingStatement, err)
	}

	return attempts, nil
}

// ResetAttempts sets the failure counter back to zero.
func (j *JobStateRepository) ResetAttempts(ctx context.Context, jobID string) error {
	log := logger.FromContext(ctx)

	query, args, err := j.buildResetAttemptsQuery(jobID)
	if err != nil {
		return err
	}
	if _, err = j.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "JobStateRepository.ResetAttempts").
			Str("job_id", jobID).
			Msg("failed to reset attempts")
		return fmt.Errorf("%w: reset attempts: %w", ErrExecutingStatement, err)
	}

	return nil
}
