package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/MKhiriev/resource-sync/internal/store"
)

var errorStatusMap = map[error]int{
	context.Canceled:         http.StatusServiceUnavailable,
	context.DeadlineExceeded: http.StatusGatewayTimeout,

	store.ErrUnsupportedDriver:    http.StatusInternalServerError,
	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
