package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

// JobResult is what a scheduler should do after one sync job run.
type JobResult int

const (
	JobSuccess JobResult = iota
	JobRetry
	JobFailure
)

func (r JobResult) String() string {
	switch r {
	case JobSuccess:
		return "success"
	case JobRetry:
		return "retry"
	case JobFailure:
		return "failure"
	default:
		return fmt.Sprintf("JobResult(%d)", int(r))
	}
}

// Backoff computes the delay before a retry.
type Backoff struct {
	// Policy is config.BackoffLinear or config.BackoffExponential.
	Policy       string
	InitialDelay time.Duration
}

// Delay returns the delay before retry number attempt (1-based): linear
// grows by InitialDelay per attempt, exponential doubles it.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if b.Policy == config.BackoffExponential {
		shift := min(attempt-1, 30)
		return b.InitialDelay << shift
	}
	return b.InitialDelay * time.Duration(attempt)
}

// RetryConfiguration bounds the retries of a failed sync.
type RetryConfiguration struct {
	MaxRetries int
	Backoff    Backoff
}

// JobOutcome is the result of SyncJob.Run.
type JobOutcome struct {
	Result JobResult
	// Status is the terminal status of the run.
	Status models.SyncJobStatus
	// RetryAfter is set for JobRetry.
	RetryAfter time.Duration
}

// SyncJob drives one synchronize call and applies the retry policy against
// the persisted attempt counter.
type SyncJob struct {
	jobID    string
	sync     Synchronizer
	jobState JobStateStore
	retry    RetryConfiguration
	logger   *logger.Logger
}

func NewSyncJob(jobID string, sync Synchronizer, jobState JobStateStore, retry RetryConfiguration, log *logger.Logger) *SyncJob {
	return &SyncJob{jobID: jobID, sync: sync, jobState: jobState, retry: retry, logger: log}
}

// Run consumes the status stream of one synchronize call, passing every
// status to onStatus (which may be nil).
//
// A failure is retried while the attempt counter stays within MaxRetries.
// Giving up resets the counter so the next scheduled run starts afresh.
func (j *SyncJob) Run(ctx context.Context, onStatus func(models.SyncJobStatus)) (JobOutcome, error) {
	var last models.SyncJobStatus
	seen := false
	for status := range j.sync.Synchronize(ctx) {
		if onStatus != nil {
			onStatus(status)
		}
		last, seen = status, true
	}

	if !seen || !last.IsTerminal() {
		return JobOutcome{Result: JobFailure, Status: last}, fmt.Errorf("sync job %s ended without a terminal status", j.jobID)
	}

	if last.Kind == models.StatusSucceeded {
		return JobOutcome{Result: JobSuccess, Status: last}, nil
	}

	log := j.logger.With().Str("func", "SyncJob.Run").Str("job_id", j.jobID).Logger()

	attempts, err := j.jobState.Attempts(ctx, j.jobID)
	if err != nil {
		return JobOutcome{Result: JobFailure, Status: last}, fmt.Errorf("read attempts: %w", err)
	}
	if attempts <= j.retry.MaxRetries {
		delay := j.retry.Backoff.Delay(attempts)
		log.Info().Int("attempts", attempts).Dur("retry_after", delay).Msg("sync failed, retrying")
		return JobOutcome{Result: JobRetry, Status: last, RetryAfter: delay}, nil
	}

	log.Warn().Int("attempts", attempts).Msg("sync failed, retries exhausted")
	if err = j.jobState.ResetAttempts(ctx, j.jobID); err != nil {
		return JobOutcome{Result: JobFailure, Status: last}, fmt.Errorf("reset attempts: %w", err)
	}
	return JobOutcome{Result: JobFailure, Status: last}, nil
}

// RetryConfigurationFrom builds the retry policy of the workers config.
func RetryConfigurationFrom(cfg config.Workers) RetryConfiguration {
	return RetryConfiguration{
		MaxRetries: cfg.MaxRetries,
		Backoff:    Backoff{Policy: cfg.BackoffPolicy, InitialDelay: cfg.BackoffDelay},
	}
}
