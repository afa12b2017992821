package service

import (
	"fmt"

	"github.com/MKhiriev/resource-sync/internal/adapter"
	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/store"
	"github.com/MKhiriev/resource-sync/models"
)

// Services is the assembled engine.
type Services struct {
	Resolver     models.ConflictResolver
	Synchronizer Synchronizer
	SyncJob      *SyncJob
}

// NewServices wires the engine strategies selected by cfg over the data
// source and the local store.
func NewServices(cfg *config.StructuredConfig, dataSource adapter.DataSource, storages *store.Storages, log *logger.Logger, opts ...SynchronizerOption) (*Services, error) {
	engine := cfg.Engine

	resolver, err := NewConflictResolver(engine.ConflictPolicy)
	if err != nil {
		return nil, err
	}

	rules := make([]FanOutRule, 0, len(engine.FanOut))
	for _, raw := range engine.FanOut {
		rule, err := config.ParseFanOut(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, FanOutRule(rule))
	}

	changes := storages.LocalChanges
	downloader := NewDownloader(dataSource, func() DownloadWorkManager {
		return NewResourceParamsDownloadManager(engine.ResourceParams, changes, rules...)
	})

	patches, err := NewPatchGenerator(engine.PatchMode, changes)
	if err != nil {
		return nil, err
	}
	requests, err := NewRequestGenerator(RequestGeneratorOptions{
		Mode:         engine.RequestMode,
		CreateMethod: engine.CreateMethod,
		BundleSize:   engine.BundleSize,
		UseETag:      engine.UseETag,
	})
	if err != nil {
		return nil, err
	}
	uploader, err := NewUploader(dataSource, changes, patches, requests, engine.FetchMode)
	if err != nil {
		return nil, fmt.Errorf("create uploader: %w", err)
	}

	synchronizer := NewSynchronizer(engine.JobID, downloader, uploader, changes, storages.JobState, resolver, log, opts...)

	return &Services{
		Resolver:     resolver,
		Synchronizer: synchronizer,
		SyncJob:      NewSyncJob(engine.JobID, synchronizer, storages.JobState, RetryConfigurationFrom(cfg.Workers), log),
	}, nil
}
