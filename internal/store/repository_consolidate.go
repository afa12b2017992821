package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/wI2L/jsondiff"

	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

// ConsolidateDownload applies downloaded resources in a single transaction.
//
// A resource without pending local changes is upserted as received (a remote
// tombstone deletes it). A resource with pending changes is a conflict: the
// local version, or a tombstone when it was deleted locally, is passed to
// resolver together with the remote version. If the remote version wins the
// pending changes are dropped. Otherwise the winner is kept, rebased on the
// remote versionId and lastUpdated, and the pending changes are rewritten to
// that base version. A merged winner that differs from the local document is
// recorded as an additional UPDATE change.
//
// The download cursor of each type is advanced to the greatest lastUpdated of
// the batch. Only downloads move it.
func (l *LocalChangeRepository) ConsolidateDownload(ctx context.Context, resources []models.Resource, resolver models.ConflictResolver) error {
	log := logger.FromContext(ctx)

	return l.withTx(ctx, "LocalChangeRepository.ConsolidateDownload", func(tx *sql.Tx) error {
		cursors := make(map[string]string)
		for _, remote := range resources {
			if remote.ResourceType == "" || remote.ID == "" {
				return fmt.Errorf("%w: downloaded resource without type or id", ErrInvalidResource)
			}
			if remote.Meta.LastUpdated != nil {
				if ts := formatTime(*remote.Meta.LastUpdated); ts > cursors[remote.ResourceType] {
					cursors[remote.ResourceType] = ts
				}
			}

			pending, err := l.selectChanges(ctx, tx, remote.ResourceType, remote.ID)
			if err != nil {
				return err
			}

			if len(pending) == 0 {
				if err = l.applyRemote(ctx, tx, remote); err != nil {
					return err
				}
				continue
			}

			local, err := l.getResource(ctx, tx, remote.ResourceType, remote.ID)
			if errors.Is(err, ErrResourceNotFound) {
				local = models.NewTombstone(remote.ResourceType, remote.ID)
			} else if err != nil {
				return err
			}

			winner := resolver.Resolve(local, remote).Resolved
			log.Debug().
				Str("func", "LocalChangeRepository.ConsolidateDownload").
				Str("resource_type", remote.ResourceType).
				Str("resource_id", remote.ID).
				Bool("remote_wins", sameDocument(winner, remote)).
				Msg("resolved conflict")

			if sameDocument(winner, remote) {
				if err = l.deleteChangesOf(ctx, tx, remote.ResourceType, remote.ID); err != nil {
					return err
				}
				if err = l.applyRemote(ctx, tx, remote); err != nil {
					return err
				}
				continue
			}

			if err = l.keepLocal(ctx, tx, local, winner, remote); err != nil {
				return err
			}
		}
		return l.advanceCursors(ctx, tx, cursors)
	})
}

func (l *LocalChangeRepository) advanceCursors(ctx context.Context, q querier, cursors map[string]string) error {
	for resourceType, ts := range cursors {
		query, args, err := l.buildAdvanceCursorQuery(resourceType, ts)
		if err != nil {
			return err
		}
		if _, err = q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: advance download cursor of %s: %w", ErrExecutingStatement, resourceType, err)
		}
	}
	return nil
}

func (l *LocalChangeRepository) applyRemote(ctx context.Context, q querier, remote models.Resource) error {
	if remote.Deleted {
		return l.deleteResource(ctx, q, remote.ResourceType, remote.ID)
	}
	return l.upsertResource(ctx, q, remote)
}

func (l *LocalChangeRepository) keepLocal(ctx context.Context, q querier, local, winner, remote models.Resource) error {
	base := remote.Meta.VersionID

	if !winner.Deleted {
		rebased, err := rebase(winner, remote.Meta)
		if err != nil {
			return err
		}
		if err = l.upsertResource(ctx, q, rebased); err != nil {
			return err
		}

		if !local.Deleted && !bytes.Equal(local.Raw, winner.Raw) {
			patch, err := jsondiff.CompareJSON(local.Raw, winner.Raw)
			if err != nil {
				return fmt.Errorf("diff merged %s: %w", winner.Key(), err)
			}
			if len(patch) > 0 {
				payload, err := json.Marshal(patch)
				if err != nil {
					return fmt.Errorf("marshal merged patch for %s: %w", winner.Key(), err)
				}
				if _, err = l.recordChange(ctx, q, models.LocalChange{
					ResourceType: winner.ResourceType,
					ResourceID:   winner.ID,
					Type:         models.ChangeUpdate,
					Payload:      payload,
					VersionID:    base,
				}); err != nil {
					return err
				}
			}
		}
	}

	if base == "" {
		return nil
	}
	return l.rebaseChanges(ctx, q, remote.ResourceType, remote.ID, "", base)
}

// rebase stamps the remote meta onto the winning document.
func rebase(winner models.Resource, meta models.Meta) (models.Resource, error) {
	if meta.VersionID == "" && meta.LastUpdated == nil {
		return winner, nil
	}

	metaPatch, err := json.Marshal(map[string]models.Meta{"meta": meta})
	if err != nil {
		return models.Resource{}, fmt.Errorf("marshal meta of %s: %w", winner.Key(), err)
	}
	raw, err := jsonpatch.MergePatch(winner.Raw, metaPatch)
	if err != nil {
		return models.Resource{}, fmt.Errorf("rebase %s: %w", winner.Key(), err)
	}

	rebased, err := models.ParseResource(raw)
	if err != nil {
		return models.Resource{}, err
	}
	rebased.Meta = meta
	return rebased, nil
}

// ConsolidateUpload records the outcome of one upload. A successful outcome
// drops the covered changes and stores the server version of the resource; a
// failed one leaves the changes pending.
func (l *LocalChangeRepository) ConsolidateUpload(ctx context.Context, outcome models.UploadOutcome) error {
	log := logger.FromContext(ctx)

	if !outcome.Succeeded() {
		log.Warn().
			Err(outcome.Err).
			Str("func", "LocalChangeRepository.ConsolidateUpload").
			Str("resource_type", outcome.ResourceType).
			Str("resource_id", outcome.ResourceID).
			Msg("upload failed, local changes stay pending")
		return nil
	}

	return l.withTx(ctx, "LocalChangeRepository.ConsolidateUpload", func(tx *sql.Tx) error {
		if len(outcome.Token.IDs) > 0 {
			query, args, err := l.buildDeleteLocalChangesByIDQuery(outcome.Token.IDs)
			if err != nil {
				return err
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				log.Err(err).
					Str("func", "LocalChangeRepository.ConsolidateUpload").
					Ints64("token", outcome.Token.IDs).
					Msg("failed to delete uploaded changes")
				return fmt.Errorf("%w: delete uploaded changes: %w", ErrExecutingStatement, err)
			}
		}

		if outcome.ResourceType == "" || outcome.ResourceID == "" {
			return nil
		}

		if outcome.Resource != nil && !outcome.Resource.IsEmpty() {
			return l.storeUploaded(ctx, tx, outcome)
		}

		if outcome.VersionID == "" {
			return nil
		}

		query, args, err := l.buildUpdateResourceVersionQuery(outcome.ResourceType, outcome.ResourceID, outcome.VersionID, nullTime(outcome.LastUpdated))
		if err != nil {
			return err
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: update resource version: %w", ErrExecutingStatement, err)
		}
		return l.rebaseChanges(ctx, tx, outcome.ResourceType, outcome.ResourceID, "", outcome.VersionID)
	})
}

// storeUploaded writes the resource echoed by the server. A server assigned
// id (create by POST) replaces the local id, including in pending changes and
// in every stored document or pending payload that references it.
func (l *LocalChangeRepository) storeUploaded(ctx context.Context, q querier, outcome models.UploadOutcome) error {
	echoed := *outcome.Resource
	if echoed.ResourceType == "" {
		echoed.ResourceType = outcome.ResourceType
	}
	if echoed.ID == "" {
		echoed.ID = outcome.ResourceID
	}

	remaining, err := l.selectChanges(ctx, q, outcome.ResourceType, outcome.ResourceID)
	if err != nil {
		return err
	}

	if echoed.ID != outcome.ResourceID {
		logger.FromContext(ctx).Info().
			Str("func", "LocalChangeRepository.storeUploaded").
			Str("resource_type", outcome.ResourceType).
			Str("resource_id", outcome.ResourceID).
			Str("server_id", echoed.ID).
			Msg("server assigned a new id")
		if err = l.deleteResource(ctx, q, outcome.ResourceType, outcome.ResourceID); err != nil {
			return err
		}

		oldRef := models.ResourceKey(outcome.ResourceType, outcome.ResourceID)
		newRef := models.ResourceKey(echoed.ResourceType, echoed.ID)
		if err = l.rewriteReferences(ctx, q, oldRef, newRef); err != nil {
			return err
		}
	}

	if len(remaining) == 0 {
		return l.upsertResource(ctx, q, echoed)
	}

	// Later local edits are still pending: keep the local document but move
	// it to the new id and base version.
	if echoed.ID == outcome.ResourceID {
		query, args, err := l.buildUpdateResourceVersionQuery(echoed.ResourceType, echoed.ID, echoed.Meta.VersionID, nullTime(echoed.Meta.LastUpdated))
		if err != nil {
			return err
		}
		if _, err = q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: update resource version: %w", ErrExecutingStatement, err)
		}
	} else {
		current, err := l.getResource(ctx, q, outcome.ResourceType, outcome.ResourceID)
		if err == nil {
			current.ID = echoed.ID
			current.Meta = echoed.Meta
			if err = l.upsertResource(ctx, q, current); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrResourceNotFound) {
			return err
		}
	}

	return l.rebaseChanges(ctx, q, outcome.ResourceType, outcome.ResourceID, echoed.ID, echoed.Meta.VersionID)
}

// rewriteReferences replaces the reference string oldRef by newRef in stored
// resources and in pending change payloads.
func (l *LocalChangeRepository) rewriteReferences(ctx context.Context, q querier, oldRef, newRef string) error {
	from, to := []byte(`"`+oldRef+`"`), []byte(`"`+newRef+`"`)

	query, args, err := l.buildSelectReferencingResourcesQuery(oldRef)
	if err != nil {
		return err
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: select referencing resources: %w", ErrExecutingQuery, err)
	}
	var referencing []models.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		referencing = append(referencing, r)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	rows.Close()

	for _, r := range referencing {
		payload := bytes.ReplaceAll(r.Raw, from, to)
		if bytes.Equal(payload, r.Raw) {
			continue
		}
		query, args, err := l.buildUpdateResourcePayloadQuery(r.ResourceType, r.ID, string(payload))
		if err != nil {
			return err
		}
		if _, err = q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: rewrite references in %s: %w", ErrExecutingStatement, r.Key(), err)
		}
	}

	query, args, err = l.buildSelectReferencingChangesQuery(oldRef)
	if err != nil {
		return err
	}
	changeRows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: select referencing changes: %w", ErrExecutingQuery, err)
	}
	payloads := make(map[int64][]byte)
	for changeRows.Next() {
		var (
			id      int64
			payload string
		)
		if err = changeRows.Scan(&id, &payload); err != nil {
			changeRows.Close()
			return fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		payloads[id] = []byte(payload)
	}
	if err = changeRows.Err(); err != nil {
		changeRows.Close()
		return fmt.Errorf("%w: %w", ErrScanningRows, err)
	}
	changeRows.Close()

	for id, payload := range payloads {
		rewritten := bytes.ReplaceAll(payload, from, to)
		if bytes.Equal(rewritten, payload) {
			continue
		}
		query, args, err := l.buildUpdateLocalChangePayloadQuery(id, string(rewritten))
		if err != nil {
			return err
		}
		if _, err = q.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: rewrite references in local change %d: %w", ErrExecutingStatement, id, err)
		}
	}
	return nil
}

func (l *LocalChangeRepository) deleteChangesOf(ctx context.Context, q querier, resourceType, id string) error {
	query, args, err := l.buildDeleteLocalChangesByResourceQuery(resourceType, id)
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: delete local changes: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (l *LocalChangeRepository) rebaseChanges(ctx context.Context, q querier, resourceType, id, newID, versionID string) error {
	if versionID == "" && (newID == "" || newID == id) {
		return nil
	}
	query, args, err := l.buildRebaseLocalChangesQuery(resourceType, id, newID, versionID)
	if err != nil {
		return err
	}
	if _, err = q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: rebase local changes: %w", ErrExecutingStatement, err)
	}
	return nil
}

func sameDocument(a, b models.Resource) bool {
	return a.Deleted == b.Deleted && bytes.Equal(a.Raw, b.Raw)
}
