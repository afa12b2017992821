// Package http implements the status API of a running sync worker.
//
// It exposes the persisted state of the sync job, an endpoint triggering an
// immediate run and the prometheus metrics. Request tracing and access
// logging are handled by middleware.
package http
