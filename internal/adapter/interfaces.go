// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer between the sync engine and
// the remote REST server.
//
// The primary abstraction is [DataSource], which decouples the engine from
// the underlying protocol. The package ships an HTTP implementation
// ([NewHTTPDataSource]) built on resty with an optional client-side rate
// limit.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrPreconditionFailed] for 412, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/resource-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/data_source_mock.go -package=mock

// DataSource performs the network calls of a sync. Implementations are
// responsible for serialisation, authentication headers, and mapping
// transport-level errors to the sentinel values defined in this package.
type DataSource interface {
	// Download fetches req.URL, relative to the base url or absolute, and
	// returns the decoded resource (usually a searchset Bundle).
	Download(ctx context.Context, req models.DownloadRequest) (models.Resource, error)

	// Upload sends req and returns the resource the server responded with.
	// An empty body yields a resource without document whose Meta carries
	// the ETag and Last-Modified response headers, if any.
	Upload(ctx context.Context, req models.UploadRequest) (models.Resource, error)
}
