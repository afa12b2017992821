package service

import (
	"context"
	"encoding/json"
	"iter"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/resource-sync/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func change(seq int64, typ models.ChangeType, resourceType, id, payload string) models.LocalChange {
	c := models.LocalChange{
		Token:        models.LocalChangeToken{IDs: []int64{seq}},
		ResourceType: resourceType,
		ResourceID:   id,
		Type:         typ,
		Timestamp:    testNow,
	}
	if payload != "" {
		c.Payload = json.RawMessage(payload)
	}
	return c
}

func mustResource(t *testing.T, raw string) models.Resource {
	t.Helper()
	r, err := models.ParseResource([]byte(raw))
	require.NoError(t, err)
	return r
}

func collect(ch <-chan models.SyncJobStatus) []models.SyncJobStatus {
	var statuses []models.SyncJobStatus
	for s := range ch {
		statuses = append(statuses, s)
	}
	return statuses
}

func kinds(statuses []models.SyncJobStatus) []models.StatusKind {
	out := make([]models.StatusKind, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, s.Kind)
	}
	return out
}

// downloaderFunc adapts a function to Downloader.
type downloaderFunc func(ctx context.Context) iter.Seq[models.DownloadState]

func (f downloaderFunc) Download(ctx context.Context) iter.Seq[models.DownloadState] {
	return f(ctx)
}

// uploaderFunc adapts a function to Uploader.
type uploaderFunc func(ctx context.Context) iter.Seq[models.UploadState]

func (f uploaderFunc) Upload(ctx context.Context) iter.Seq[models.UploadState] {
	return f(ctx)
}

// fixedIDs returns the same run id on every call.
type fixedIDs string

func (f fixedIDs) Generate() string {
	return string(f)
}

func downloadStates(states ...models.DownloadState) downloaderFunc {
	return func(context.Context) iter.Seq[models.DownloadState] {
		return func(yield func(models.DownloadState) bool) {
			for _, s := range states {
				if !yield(s) {
					return
				}
			}
		}
	}
}

func uploadStates(states ...models.UploadState) uploaderFunc {
	return func(context.Context) iter.Seq[models.UploadState] {
		return func(yield func(models.UploadState) bool) {
			for _, s := range states {
				if !yield(s) {
					return
				}
			}
		}
	}
}

type (
	iterDownloadStates = iter.Seq[models.DownloadState]
	iterUploadStates   = iter.Seq[models.UploadState]
)
