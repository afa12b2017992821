// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wI2L/jsondiff"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

// LocalChangeRepository is the reference local store. It keeps the current
// state of every resource in the resources table and every pending mutation
// in the local_changes table, ordered by an autoincrement sequence id.
type LocalChangeRepository struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewLocalChangeRepository constructs a repository over db.
func NewLocalChangeRepository(db *DB, log *logger.Logger) *LocalChangeRepository {
	return &LocalChangeRepository{
		DB:     db,
		logger: log,
		now:    time.Now,
	}
}

// Insert stores a new resource and records an INSERT change carrying the
// full document.
func (l *LocalChangeRepository) Insert(ctx context.Context, resource models.Resource) error {
	log := logger.FromContext(ctx)

	if resource.ResourceType == "" || resource.ID == "" || len(resource.Raw) == 0 {
		return fmt.Errorf("%w: type, id and document are required", ErrInvalidResource)
	}

	return l.withTx(ctx, "LocalChangeRepository.Insert", func(tx *sql.Tx) error {
		if _, err := l.getResource(ctx, tx, resource.ResourceType, resource.ID); err == nil {
			return fmt.Errorf("%w: %s", ErrResourceAlreadyExists, resource.Key())
		} else if !errors.Is(err, ErrResourceNotFound) {
			return err
		}

		row := newResourceRow(resource)
		query, args, err := l.buildInsertResourceQuery(row)
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "LocalChangeRepository.Insert").
				Str("resource_type", resource.ResourceType).
				Str("resource_id", resource.ID).
				Msg("failed to insert resource")
			return fmt.Errorf("%w: insert resource: %w", ErrExecutingStatement, err)
		}

		_, err = l.recordChange(ctx, tx, models.LocalChange{
			ResourceType: resource.ResourceType,
			ResourceID:   resource.ID,
			Type:         models.ChangeInsert,
			Payload:      resource.Raw,
			VersionID:    resource.Meta.VersionID,
		})
		return err
	})
}

// Update replaces the stored document and records an UPDATE change holding
// the RFC 6902 diff from the previous document. Updating to an identical
// document records nothing.
func (l *LocalChangeRepository) Update(ctx context.Context, resource models.Resource) error {
	log := logger.FromContext(ctx)

	if resource.ResourceType == "" || resource.ID == "" || len(resource.Raw) == 0 {
		return fmt.Errorf("%w: type, id and document are required", ErrInvalidResource)
	}

	return l.withTx(ctx, "LocalChangeRepository.Update", func(tx *sql.Tx) error {
		current, err := l.getResource(ctx, tx, resource.ResourceType, resource.ID)
		if err != nil {
			return err
		}

		patch, err := jsondiff.CompareJSON(current.Raw, resource.Raw)
		if err != nil {
			log.Err(err).
				Str("func", "LocalChangeRepository.Update").
				Str("resource_type", resource.ResourceType).
				Str("resource_id", resource.ID).
				Msg("failed to diff resource")
			return fmt.Errorf("diff %s: %w", resource.Key(), err)
		}
		if len(patch) == 0 {
			return nil
		}

		payload, err := json.Marshal(patch)
		if err != nil {
			return fmt.Errorf("marshal patch for %s: %w", resource.Key(), err)
		}

		query, args, err := l.buildUpdateResourcePayloadQuery(resource.ResourceType, resource.ID, string(resource.Raw))
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			log.Err(err).
				Str("func", "LocalChangeRepository.Update").
				Str("resource_type", resource.ResourceType).
				Str("resource_id", resource.ID).
				Msg("failed to update resource")
			return fmt.Errorf("%w: update resource: %w", ErrExecutingStatement, err)
		}

		_, err = l.recordChange(ctx, tx, models.LocalChange{
			ResourceType: resource.ResourceType,
			ResourceID:   resource.ID,
			Type:         models.ChangeUpdate,
			Payload:      payload,
			VersionID:    current.Meta.VersionID,
		})
		return err
	})
}

// Delete removes the stored resource and records a DELETE change.
func (l *LocalChangeRepository) Delete(ctx context.Context, resourceType, id string) error {
	return l.withTx(ctx, "LocalChangeRepository.Delete", func(tx *sql.Tx) error {
		current, err := l.getResource(ctx, tx, resourceType, id)
		if err != nil {
			return err
		}

		if err = l.deleteResource(ctx, tx, resourceType, id); err != nil {
			return err
		}

		_, err = l.recordChange(ctx, tx, models.LocalChange{
			ResourceType: resourceType,
			ResourceID:   id,
			Type:         models.ChangeDelete,
			VersionID:    current.Meta.VersionID,
		})
		return err
	})
}

// GetResource returns the stored resource or [ErrResourceNotFound].
func (l *LocalChangeRepository) GetResource(ctx context.Context, resourceType, id string) (models.Resource, error) {
	return l.getResource(ctx, l.DB.DB, resourceType, id)
}

// LatestTimestamp returns the download cursor of resourceType: the greatest
// lastUpdated ever downloaded for it, or "" before the first download.
// Uploads and local edits do not move it.
func (l *LocalChangeRepository) LatestTimestamp(ctx context.Context, resourceType string) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := l.buildLatestTimestampQuery(resourceType)
	if err != nil {
		return "", err
	}

	var ts sql.NullString
	if err = l.QueryRowContext(ctx, query, args...).Scan(&ts); err != nil {
		log.Err(err).
			Str("func", "LocalChangeRepository.LatestTimestamp").
			Str("resource_type", resourceType).
			Msg("failed to query latest timestamp")
		return "", fmt.Errorf("%w: latest timestamp: %w", ErrExecutingQuery, err)
	}

	return ts.String, nil
}

// PendingCount returns the number of pending local changes.
func (l *LocalChangeRepository) PendingCount(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	query, args, err := l.buildCountLocalChangesQuery()
	if err != nil {
		return 0, err
	}

	var count int
	if err = l.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "LocalChangeRepository.PendingCount").Msg("failed to count local changes")
		return 0, fmt.Errorf("%w: count local changes: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// FetchPending returns the next chunk of pending changes in sequence order.
// FetchAll returns all of them; FetchPerResource returns every change of the
// resource owning the oldest pending change.
func (l *LocalChangeRepository) FetchPending(ctx context.Context, mode models.FetchMode) ([]models.LocalChange, error) {
	log := logger.FromContext(ctx)

	var resourceType, id string
	if mode == models.FetchPerResource {
		query, args, err := l.buildOldestChangedResourceQuery()
		if err != nil {
			return nil, err
		}
		err = l.QueryRowContext(ctx, query, args...).Scan(&resourceType, &id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		if err != nil {
			log.Err(err).Str("func", "LocalChangeRepository.FetchPending").Msg("failed to query oldest change")
			return nil, fmt.Errorf("%w: oldest change: %w", ErrExecutingQuery, err)
		}
	}

	return l.selectChanges(ctx, l.DB.DB, resourceType, id)
}

func (l *LocalChangeRepository) selectChanges(ctx context.Context, q querier, resourceType, id string) ([]models.LocalChange, error) {
	log := logger.FromContext(ctx)

	query, args, err := l.buildSelectLocalChangesQuery(resourceType, id)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "LocalChangeRepository.selectChanges").
			Str("resource_type", resourceType).
			Str("resource_id", id).
			Msg("failed to query local changes")
		return nil, fmt.Errorf("%w: local changes: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	return scanLocalChanges(rows)
}

func (l *LocalChangeRepository) getResource(ctx context.Context, q querier, resourceType, id string) (models.Resource, error) {
	log := logger.FromContext(ctx)

	query, args, err := l.buildSelectResourceQuery(resourceType, id)
	if err != nil {
		return models.Resource{}, err
	}

	r, err := scanResource(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Resource{}, fmt.Errorf("%w: %s", ErrResourceNotFound, models.ResourceKey(resourceType, id))
	}
	if err != nil {
		log.Err(err).
			Str("func", "LocalChangeRepository.getResource").
			Str("resource_type", resourceType).
			Str("resource_id", id).
			Msg("failed to read resource")
		return models.Resource{}, fmt.Errorf("%w: read resource: %w", ErrExecutingQuery, err)
	}

	return r, nil
}

func (l *LocalChangeRepository) upsertResource(ctx context.Context, q querier, r models.Resource) error {
	query, args, err := l.buildUpsertResourceQuery(newResourceRow(r))
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "LocalChangeRepository.upsertResource").
			Str("resource_type", r.ResourceType).
			Str("resource_id", r.ID).
			Msg("failed to upsert resource")
		return fmt.Errorf("%w: upsert resource: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (l *LocalChangeRepository) deleteResource(ctx context.Context, q querier, resourceType, id string) error {
	query, args, err := l.buildDeleteResourceQuery(resourceType, id)
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "LocalChangeRepository.deleteResource").
			Str("resource_type", resourceType).
			Str("resource_id", id).
			Msg("failed to delete resource")
		return fmt.Errorf("%w: delete resource: %w", ErrExecutingStatement, err)
	}
	return nil
}

// recordChange appends a change and returns its sequence id.
func (l *LocalChangeRepository) recordChange(ctx context.Context, q querier, change models.LocalChange) (int64, error) {
	row := localChangeRow{
		resourceType: change.ResourceType,
		resourceID:   change.ResourceID,
		changeType:   string(change.Type),
		payload:      string(change.Payload),
		versionID:    change.VersionID,
		createdAt:    formatTime(l.now()),
	}

	query, args, err := l.buildInsertLocalChangeQuery(row)
	if err != nil {
		return 0, err
	}

	var id int64
	if err = q.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "LocalChangeRepository.recordChange").
			Str("resource_type", change.ResourceType).
			Str("resource_id", change.ResourceID).
			Str("change_type", string(change.Type)).
			Msg("failed to record local change")
		return 0, fmt.Errorf("%w: record local change: %w", ErrExecutingStatement, err)
	}

	return id, nil
}
