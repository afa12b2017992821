package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatusKind(t *testing.T) {
	for _, kind := range []StatusKind{StatusStarted, StatusInProgress, StatusSucceeded, StatusFailed} {
		t.Run(kind.String(), func(t *testing.T) {
			parsed, err := ParseStatusKind(kind.String())
			require.NoError(t, err)
			assert.Equal(t, kind, parsed)
		})
	}

	_, err := ParseStatusKind("Paused")
	assert.Error(t, err)
	assert.Equal(t, "StatusKind(9)", StatusKind(9).String())
}

func TestSyncJobStatus_String(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		status SyncJobStatus
		want   string
	}{
		{status: Started(), want: "Started"},
		{status: InProgress(OperationDownload, 10, 4), want: "InProgress(DOWNLOAD, 4/10)"},
		{status: InProgress(OperationUpload, TotalUnknown, 4), want: "InProgress(UPLOAD, completed=4)"},
		{status: Succeeded(at), want: "Succeeded(2026-03-01T12:00:00Z)"},
		{status: Failed(at, NewResourceSyncError("Patient", errors.New("x"))), want: "Failed(2026-03-01T12:00:00Z, errors=1)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.String())
		})
	}
}

func TestSyncJobStatus_TerminalAndTotal(t *testing.T) {
	assert.False(t, Started().IsTerminal())
	assert.False(t, InProgress(OperationDownload, 1, 0).IsTerminal())
	assert.True(t, Succeeded(time.Time{}).IsTerminal())
	assert.True(t, Failed(time.Time{}).IsTerminal())

	assert.True(t, InProgress(OperationDownload, 0, 0).HasTotal())
	assert.False(t, InProgress(OperationDownload, TotalUnknown, 3).HasTotal())
}

func TestSyncJobStatus_Err(t *testing.T) {
	first := errors.New("first")
	second := errors.New("second")

	assert.NoError(t, Succeeded(time.Time{}).Err())
	assert.NoError(t, Started().Err())

	err := Failed(time.Time{},
		NewResourceSyncError("Patient", first),
		NewResourceSyncError("", second),
	).Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
	assert.Equal(t, "Patient: first\nsecond", err.Error())
}

func TestResourceSyncError(t *testing.T) {
	cause := errors.New("boom")
	err := NewResourceSyncError("Observation", cause)

	assert.Equal(t, "Observation: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "boom", NewResourceSyncError("", cause).Error())
}
