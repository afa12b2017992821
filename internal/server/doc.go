// Package server runs the status HTTP server of the sync worker.
//
// The server is a workers.Worker: it serves until its context is cancelled
// and then shuts down gracefully.
package server
