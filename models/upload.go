package models

import "time"

// UploadOutcome is the result of uploading one patch (or purging a no-op).
type UploadOutcome struct {
	Token        LocalChangeToken
	ResourceType string
	ResourceID   string

	// Resource is the resource returned by the server, if any.
	Resource *Resource

	// VersionID and LastUpdated come from the response (etag / lastModified)
	// when the server does not echo a resource.
	VersionID   string
	LastUpdated *time.Time

	// Err is non-nil for a failed upload.
	Err error
}

// Succeeded reports whether the upload succeeded.
func (o UploadOutcome) Succeeded() bool {
	return o.Err == nil
}

// DownloadState is one step of the download phase.
type DownloadState struct {
	Kind      DownloadStateKind
	Resources []Resource
	Total     int
	Completed int
	Err       *ResourceSyncError
}

// DownloadStateKind tags a DownloadState.
type DownloadStateKind int

const (
	DownloadStarted DownloadStateKind = iota
	DownloadSuccess
	DownloadFailure
)

// UploadState is one step of the upload phase.
type UploadState struct {
	Kind      UploadStateKind
	Total     int
	Completed int
	Err       *ResourceSyncError
}

// UploadStateKind tags an UploadState.
type UploadStateKind int

const (
	UploadStarted UploadStateKind = iota
	UploadProgress
	UploadFailure
)
