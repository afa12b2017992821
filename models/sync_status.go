// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"
	"time"
)

// TotalUnknown is the Total of an InProgress status whose total could not be
// estimated.
const TotalUnknown = -1

// StatusKind tags a SyncJobStatus.
type StatusKind int

const (
	// StatusStarted is always the first status of a synchronize call.
	StatusStarted StatusKind = iota
	// StatusInProgress reports the progress of the current phase.
	StatusInProgress
	// StatusSucceeded is terminal: both phases completed.
	StatusSucceeded
	// StatusFailed is terminal: the first error of a phase stopped the call.
	StatusFailed
)

func (k StatusKind) String() string {
	switch k {
	case StatusStarted:
		return "Started"
	case StatusInProgress:
		return "InProgress"
	case StatusSucceeded:
		return "Succeeded"
	case StatusFailed:
		return "Failed"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}

// ParseStatusKind is the inverse of StatusKind.String.
func ParseStatusKind(s string) (StatusKind, error) {
	switch s {
	case "Started":
		return StatusStarted, nil
	case "InProgress":
		return StatusInProgress, nil
	case "Succeeded":
		return StatusSucceeded, nil
	case "Failed":
		return StatusFailed, nil
	}
	return 0, fmt.Errorf("unknown status kind %q", s)
}

// SyncOperation is the phase an InProgress status belongs to.
type SyncOperation string

const (
	OperationDownload SyncOperation = "DOWNLOAD"
	OperationUpload   SyncOperation = "UPLOAD"
)

// SyncJobStatus is a tagged union of the statuses emitted by one
// synchronize call. Only the fields of the variant named by Kind are set:
//
//	Started                                   no payload
//	InProgress  Operation, Total, Completed
//	Succeeded   Timestamp
//	Failed      Timestamp, Errors
type SyncJobStatus struct {
	Kind      StatusKind
	Operation SyncOperation
	Total     int
	Completed int
	Timestamp time.Time
	Errors    []*ResourceSyncError
}

// Started returns the Started variant.
func Started() SyncJobStatus {
	return SyncJobStatus{Kind: StatusStarted}
}

// InProgress returns the InProgress variant.
func InProgress(op SyncOperation, total, completed int) SyncJobStatus {
	return SyncJobStatus{Kind: StatusInProgress, Operation: op, Total: total, Completed: completed}
}

// Succeeded returns the Succeeded variant.
func Succeeded(at time.Time) SyncJobStatus {
	return SyncJobStatus{Kind: StatusSucceeded, Timestamp: at}
}

// Failed returns the Failed variant.
func Failed(at time.Time, errs ...*ResourceSyncError) SyncJobStatus {
	return SyncJobStatus{Kind: StatusFailed, Timestamp: at, Errors: errs}
}

// IsTerminal reports whether no status can follow this one.
func (s SyncJobStatus) IsTerminal() bool {
	return s.Kind == StatusSucceeded || s.Kind == StatusFailed
}

// HasTotal reports whether an InProgress status carries a known total.
func (s SyncJobStatus) HasTotal() bool {
	return s.Total != TotalUnknown
}

// Err joins the errors of a Failed status. It is nil for other variants.
func (s SyncJobStatus) Err() error {
	if s.Kind != StatusFailed {
		return nil
	}
	errs := make([]error, 0, len(s.Errors))
	for _, e := range s.Errors {
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

func (s SyncJobStatus) String() string {
	switch s.Kind {
	case StatusInProgress:
		if !s.HasTotal() {
			return fmt.Sprintf("InProgress(%s, completed=%d)", s.Operation, s.Completed)
		}
		return fmt.Sprintf("InProgress(%s, %d/%d)", s.Operation, s.Completed, s.Total)
	case StatusSucceeded:
		return fmt.Sprintf("Succeeded(%s)", s.Timestamp.Format(time.RFC3339))
	case StatusFailed:
		return fmt.Sprintf("Failed(%s, errors=%d)", s.Timestamp.Format(time.RFC3339), len(s.Errors))
	default:
		return s.Kind.String()
	}
}

// ResourceSyncError is an error raised while syncing resources of one type.
type ResourceSyncError struct {
	ResourceType string
	Cause        error
}

// NewResourceSyncError wraps cause for resourceType.
func NewResourceSyncError(resourceType string, cause error) *ResourceSyncError {
	return &ResourceSyncError{ResourceType: resourceType, Cause: cause}
}

func (e *ResourceSyncError) Error() string {
	if e.ResourceType == "" {
		return e.Cause.Error()
	}
	return e.ResourceType + ": " + e.Cause.Error()
}

func (e *ResourceSyncError) Unwrap() error {
	return e.Cause
}

// ConflictResolutionResult is the outcome of resolving a conflict.
// Resolved is the only variant: every conflict is resolved in-process.
type ConflictResolutionResult struct {
	Resolved Resource
}

// Resolved returns the Resolved variant.
func Resolved(winner Resource) ConflictResolutionResult {
	return ConflictResolutionResult{Resolved: winner}
}

// SyncJobState is the persisted state of a sync job identifier.
type SyncJobState struct {
	JobID string

	// LastStatus is the last terminal status; nil if none was recorded.
	LastStatus *SyncJobStatus

	// LastSyncedAt is the timestamp of the last Succeeded status.
	LastSyncedAt *time.Time

	// Attempts counts consecutive failed runs.
	Attempts int
}
