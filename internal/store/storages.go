package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
)

// Storages groups the repositories of the local store into a single value
// that can be passed to the service layer.
type Storages struct {
	// LocalChanges holds resources and their pending local changes.
	LocalChanges *LocalChangeRepository

	// JobState holds the persisted state of sync jobs.
	JobState *JobStateRepository

	db *DB
}

// NewStorages initialises the storage layer using the supplied configuration
// and logger. It performs the following steps:
//  1. Opens a connection for cfg.Driver (sqlite3 creates the database file
//     if it does not yet exist).
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs the repositories over the shared connection.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	log.Info().Str("func", "NewStorages").Str("driver", cfg.Driver).Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Storages{
		LocalChanges: NewLocalChangeRepository(db, log),
		JobState:     NewJobStateRepository(db, log),
		db:           db,
	}, nil
}

// Close releases the database connection.
func (s *Storages) Close() error {
	return s.db.Close()
}
