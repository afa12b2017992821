package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/models"
)

// spyJob counts runs and returns the outcomes in order, repeating the last.
type spyJob struct {
	calls    atomic.Int64
	outcomes []service.JobOutcome
	err      error
}

func (s *spyJob) Run(_ context.Context, onStatus func(models.SyncJobStatus)) (service.JobOutcome, error) {
	n := int(s.calls.Add(1))
	if onStatus != nil {
		onStatus(models.Started())
	}
	if len(s.outcomes) == 0 {
		return service.JobOutcome{Result: service.JobSuccess}, s.err
	}
	return s.outcomes[min(n, len(s.outcomes))-1], s.err
}

func TestPeriodicSyncWorker_RunsOnStartAndOnTick(t *testing.T) {
	spy := &spyJob{}
	w := NewPeriodicSyncWorker(spy, 10*time.Millisecond, nil, logger.Nop())

	w.Start(context.Background())
	time.Sleep(55 * time.Millisecond)
	w.Stop()

	assert.GreaterOrEqual(t, spy.calls.Load(), int64(3))
}

func TestPeriodicSyncWorker_StopStopsLoop(t *testing.T) {
	spy := &spyJob{}
	w := NewPeriodicSyncWorker(spy, 10*time.Millisecond, nil, logger.Nop())

	w.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	w.Stop()

	callsAfterStop := spy.calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, callsAfterStop, spy.calls.Load())
}

func TestPeriodicSyncWorker_StopBeforeStart(t *testing.T) {
	w := NewPeriodicSyncWorker(&spyJob{}, time.Second, nil, logger.Nop())

	assert.NotPanics(t, w.Stop)
}

func TestPeriodicSyncWorker_RetriesBeforeNextTick(t *testing.T) {
	spy := &spyJob{outcomes: []service.JobOutcome{
		{Result: service.JobRetry, RetryAfter: time.Millisecond},
		{Result: service.JobRetry, RetryAfter: time.Millisecond},
		{Result: service.JobSuccess},
	}}
	w := NewPeriodicSyncWorker(spy, time.Hour, nil, logger.Nop())

	w.Start(context.Background())
	assert.Eventually(t, func() bool { return spy.calls.Load() == 3 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	w.Stop()

	assert.Equal(t, int64(3), spy.calls.Load())
}

func TestPeriodicSyncWorker_ForwardsStatuses(t *testing.T) {
	var seen atomic.Int32
	w := NewPeriodicSyncWorker(&spyJob{}, time.Hour, func(models.SyncJobStatus) { seen.Add(1) }, logger.Nop())

	w.Start(context.Background())
	assert.Eventually(t, func() bool { return seen.Load() == 1 }, time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestPeriodicSyncWorker_JobErrorWaitsForTick(t *testing.T) {
	spy := &spyJob{err: errors.New("no terminal status")}
	w := NewPeriodicSyncWorker(spy, time.Hour, nil, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	assert.NoError(t, w.Run(ctx))
	assert.Equal(t, int64(1), spy.calls.Load())
}

func TestNewPeriodicSyncWorker_DefaultInterval(t *testing.T) {
	w := NewPeriodicSyncWorker(&spyJob{}, 0, nil, logger.Nop())

	assert.Equal(t, defaultSyncInterval, w.interval)
}
