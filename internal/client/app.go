package client

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/resource-sync/internal/adapter"
	"github.com/MKhiriev/resource-sync/internal/config"
	handler "github.com/MKhiriev/resource-sync/internal/handler/http"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/internal/metrics"
	"github.com/MKhiriev/resource-sync/internal/server"
	"github.com/MKhiriev/resource-sync/internal/service"
	"github.com/MKhiriev/resource-sync/internal/store"
	"github.com/MKhiriev/resource-sync/internal/workers"
	"github.com/MKhiriev/resource-sync/models"
)

type App struct {
	cfg      *config.StructuredConfig
	storages *store.Storages
	services *service.Services
	registry *prometheus.Registry

	logger *logger.Logger
}

// NewApp opens the local store, creates the data source and assembles the
// engine with a prometheus observer.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log)
	if err != nil {
		return nil, fmt.Errorf("create local storage: %w", err)
	}

	dataSource, err := adapter.NewHTTPDataSource(cfg.Adapter, log)
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create data source: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.NewObserver(registry)
	if err != nil {
		storages.Close()
		return nil, err
	}

	services, err := service.NewServices(cfg, dataSource, storages, log, service.WithObserver(observer))
	if err != nil {
		storages.Close()
		return nil, fmt.Errorf("create services: %w", err)
	}

	return &App{
		cfg:      cfg,
		storages: storages,
		services: services,
		registry: registry,
		logger:   log,
	}, nil
}

// SyncOnce implements Client. A run the job asks to retry is repeated after
// its backoff delay until it succeeds, the retries are exhausted or ctx ends.
func (a *App) SyncOnce(ctx context.Context, onStatus func(models.SyncJobStatus)) (service.JobOutcome, error) {
	for {
		outcome, err := a.services.SyncJob.Run(ctx, onStatus)
		if err != nil || outcome.Result != service.JobRetry {
			return outcome, err
		}

		a.logger.Info().
			Str("func", "*App.SyncOnce").
			Dur("retry_after", outcome.RetryAfter).
			Msg("sync failed, retrying")

		timer := time.NewTimer(outcome.RetryAfter)
		select {
		case <-ctx.Done():
			timer.Stop()
			return outcome, ctx.Err()
		case <-timer.C:
		}
	}
}

// Serve implements Client.
func (a *App) Serve(ctx context.Context, onStatus func(models.SyncJobStatus)) error {
	ws := []workers.Worker{
		workers.NewPeriodicSyncWorker(a.services.SyncJob, a.cfg.Workers.SyncInterval, onStatus, a.logger),
	}

	if a.cfg.Server.HTTPAddress != "" {
		h := handler.NewHandler(
			a.cfg.Engine.JobID,
			a.storages.JobState,
			a.services.SyncJob,
			promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{}),
			a.logger,
		)
		srv, err := server.NewServer(h.Init(), a.cfg.Server, a.logger)
		if err != nil {
			return err
		}
		ws = append(ws, srv)
	}

	return workers.NewWorkers(ws...).Run(ctx)
}

// State implements Client.
func (a *App) State(ctx context.Context) (models.SyncJobState, error) {
	return a.storages.JobState.State(ctx, a.cfg.Engine.JobID)
}

// Close implements Client.
func (a *App) Close() error {
	return a.storages.Close()
}
