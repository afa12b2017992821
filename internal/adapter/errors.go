package adapter

import "errors"

// Sentinel errors returned by the HTTP data source. Status codes without a
// dedicated sentinel are reported as "http <code>: <body>".
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrGone                = errors.New("resource gone")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrTooManyRequests     = errors.New("too many requests")
	ErrInternalServerError = errors.New("internal server error")
	ErrBadGateway          = errors.New("bad gateway")
	ErrServiceUnavailable  = errors.New("service unavailable")

	// ErrInvalidBaseURL is returned at construction for an unusable base url.
	ErrInvalidBaseURL = errors.New("invalid base url")
	// ErrInvalidResponse is returned when a response body is not a resource.
	ErrInvalidResponse = errors.New("invalid response")
)
