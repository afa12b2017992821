package service

import (
	"context"
	"iter"
	"maps"
	"slices"

	"github.com/MKhiriev/resource-sync/internal/adapter"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

// DownloadWorkManagerFactory returns a fresh work manager for one
// synchronize call.
type DownloadWorkManagerFactory func() DownloadWorkManager

type downloader struct {
	dataSource adapter.DataSource
	newManager DownloadWorkManagerFactory
}

func NewDownloader(dataSource adapter.DataSource, newManager DownloadWorkManagerFactory) Downloader {
	return &downloader{dataSource: dataSource, newManager: newManager}
}

// Download implements Downloader. It yields Started with the estimated
// total, one Success per processed response and stops after the first
// Failure. Requests are issued one at a time in queue order.
func (d *downloader) Download(ctx context.Context) iter.Seq[models.DownloadState] {
	return func(yield func(models.DownloadState) bool) {
		log := logger.FromContext(ctx)
		manager := d.newManager()

		total := d.total(ctx, manager)
		if !yield(models.DownloadState{Kind: models.DownloadStarted, Total: total}) {
			return
		}

		completed := 0
		for {
			req, err := manager.NextRequest(ctx)
			if err != nil {
				yield(downloadFailure("", err))
				return
			}
			if req == nil {
				return
			}

			response, err := d.dataSource.Download(ctx, *req)
			if err != nil {
				log.Warn().Err(err).Str("func", "downloader.Download").Str("url", req.URL).Msg("download failed")
				yield(downloadFailure(req.ResourceTypeHint, err))
				return
			}

			resources, err := manager.ProcessResponse(ctx, response)
			if err != nil {
				yield(downloadFailure(req.ResourceTypeHint, err))
				return
			}

			completed += len(resources)
			if total != models.TotalUnknown && completed > total {
				total = completed
			}

			if !yield(models.DownloadState{
				Kind:      models.DownloadSuccess,
				Resources: resources,
				Total:     total,
				Completed: completed,
			}) {
				return
			}
		}
	}
}

// total sums the summary counts of every resource type. Any missing count
// makes the total unknown.
func (d *downloader) total(ctx context.Context, manager DownloadWorkManager) int {
	log := logger.FromContext(ctx)

	urls, err := manager.SummaryRequestURLs(ctx)
	if err != nil || len(urls) == 0 {
		return models.TotalUnknown
	}

	total := 0
	for _, resourceType := range slices.Sorted(maps.Keys(urls)) {
		response, err := d.dataSource.Download(ctx, models.DownloadRequest{URL: urls[resourceType], ResourceTypeHint: resourceType})
		if err != nil {
			log.Debug().Err(err).Str("func", "downloader.total").Str("resource_type", resourceType).Msg("summary count unavailable")
			return models.TotalUnknown
		}

		var bundle models.Bundle
		if response.ResourceType != models.ResourceTypeBundle || response.Decode(&bundle) != nil || bundle.Total == nil {
			return models.TotalUnknown
		}
		total += *bundle.Total
	}

	return total
}

func downloadFailure(resourceType string, err error) models.DownloadState {
	return models.DownloadState{Kind: models.DownloadFailure, Err: asResourceSyncError(resourceType, err)}
}
