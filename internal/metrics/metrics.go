// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics exposes the status stream of the synchronizer as
// prometheus collectors.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MKhiriev/resource-sync/models"
)

const namespace = "resource_sync"

// Observer records every status it is given. It implements service.Observer.
type Observer struct {
	statuses    *prometheus.CounterVec
	errors      *prometheus.CounterVec
	completed   *prometheus.GaugeVec
	total       *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec

	mu      sync.Mutex
	started map[string]time.Time
	now     func() time.Time
}

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		statuses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statuses_total",
			Help:      "Sync statuses emitted, by kind.",
		}, []string{"job_id", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors reported by failed syncs, by resource type.",
		}, []string{"job_id", "resource_type"}),
		completed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_completed",
			Help:      "Completed items of the current phase.",
		}, []string{"job_id", "operation"}),
		total: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "progress_total",
			Help:      "Estimated items of the current phase, -1 when unknown.",
		}, []string{"job_id", "operation"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of synchronize calls, by terminal status.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}, []string{"job_id", "status"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sync.",
		}, []string{"job_id"}),
		started: make(map[string]time.Time),
		now:     time.Now,
	}

	for _, c := range []prometheus.Collector{o.statuses, o.errors, o.completed, o.total, o.duration, o.lastSuccess} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register sync metrics: %w", err)
		}
	}

	return o, nil
}

// Observe implements service.Observer.
func (o *Observer) Observe(jobID string, status models.SyncJobStatus) {
	o.statuses.WithLabelValues(jobID, status.Kind.String()).Inc()

	switch status.Kind {
	case models.StatusStarted:
		o.mu.Lock()
		o.started[jobID] = o.now()
		o.mu.Unlock()

	case models.StatusInProgress:
		op := string(status.Operation)
		o.total.WithLabelValues(jobID, op).Set(float64(status.Total))
		o.completed.WithLabelValues(jobID, op).Set(float64(status.Completed))

	case models.StatusSucceeded, models.StatusFailed:
		o.finish(jobID, status)
	}
}

func (o *Observer) finish(jobID string, status models.SyncJobStatus) {
	o.mu.Lock()
	start, ok := o.started[jobID]
	delete(o.started, jobID)
	o.mu.Unlock()

	if ok {
		o.duration.WithLabelValues(jobID, status.Kind.String()).Observe(o.now().Sub(start).Seconds())
	}

	if status.Kind == models.StatusSucceeded {
		o.lastSuccess.WithLabelValues(jobID).Set(float64(status.Timestamp.Unix()))
		return
	}
	for _, err := range status.Errors {
		resourceType := err.ResourceType
		if resourceType == "" {
			resourceType = "unknown"
		}
		o.errors.WithLabelValues(jobID, resourceType).Inc()
	}
}
