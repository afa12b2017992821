package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const (
	tableResources    = "resources"
	tableLocalChanges = "local_changes"
	tableSyncJobs     = "sync_jobs"
	tableCursors      = "download_cursors"
)

var (
	resourceColumns    = []string{"resource_type", "resource_id", "version_id", "last_updated", "payload"}
	localChangeColumns = []string{"id", "resource_type", "resource_id", "change_type", "payload", "version_id", "created_at"}
	syncJobColumns     = []string{"job_id", "last_status", "last_status_at", "last_errors", "last_synced_at", "attempts"}
)

func wrapBuildErr(err error) error {
	return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
}

func (db *DB) buildSelectResourceQuery(resourceType, id string) (string, []any, error) {
	query, args, err := db.builder.
		Select(resourceColumns...).
		From(tableResources).
		Where(sq.Eq{"resource_type": resourceType, "resource_id": id}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildUpsertResourceQuery(row resourceRow) (string, []any, error) {
	query, args, err := db.builder.
		Insert(tableResources).
		Columns(resourceColumns...).
		Values(row.resourceType, row.resourceID, row.versionID, row.lastUpdated, row.payload).
		Suffix("ON CONFLICT (resource_type, resource_id) DO UPDATE SET " +
			"version_id = excluded.version_id, last_updated = excluded.last_updated, payload = excluded.payload").
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildInsertResourceQuery(row resourceRow) (string, []any, error) {
	query, args, err := db.builder.
		Insert(tableResources).
		Columns(resourceColumns...).
		Values(row.resourceType, row.resourceID, row.versionID, row.lastUpdated, row.payload).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildUpdateResourcePayloadQuery(resourceType, id, payload string) (string, []any, error) {
	query, args, err := db.builder.
		Update(tableResources).
		Set("payload", payload).
		Where(sq.Eq{"resource_type": resourceType, "resource_id": id}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildUpdateResourceVersionQuery(resourceType, id, versionID string, lastUpdated any) (string, []any, error) {
	query, args, err := db.builder.
		Update(tableResources).
		Set("version_id", versionID).
		Set("last_updated", lastUpdated).
		Where(sq.Eq{"resource_type": resourceType, "resource_id": id}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildDeleteResourceQuery(resourceType, id string) (string, []any, error) {
	query, args, err := db.builder.
		Delete(tableResources).
		Where(sq.Eq{"resource_type": resourceType, "resource_id": id}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

// buildLatestTimestampQuery reads the download cursor of one type. MAX keeps
// the result a single row when no cursor exists yet.
func (db *DB) buildLatestTimestampQuery(resourceType string) (string, []any, error) {
	query, args, err := db.builder.
		Select("MAX(last_updated)").
		From(tableCursors).
		Where(sq.Eq{"resource_type": resourceType}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

// buildAdvanceCursorQuery moves the download cursor of one type forward, never
// back.
func (db *DB) buildAdvanceCursorQuery(resourceType, lastUpdated string) (string, []any, error) {
	query, args, err := db.builder.
		Insert(tableCursors).
		Columns("resource_type", "last_updated").
		Values(resourceType, lastUpdated).
		Suffix("ON CONFLICT (resource_type) DO UPDATE SET last_updated = excluded.last_updated " +
			"WHERE excluded.last_updated > " + tableCursors + ".last_updated").
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

// buildSelectReferencingResourcesQuery selects resources whose payload mentions
// the quoted reference.
func (db *DB) buildSelectReferencingResourcesQuery(reference string) (string, []any, error) {
	query, args, err := db.builder.
		Select(resourceColumns...).
		From(tableResources).
		Where(sq.Like{"payload": referencePattern(reference)}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildSelectReferencingChangesQuery(reference string) (string, []any, error) {
	query, args, err := db.builder.
		Select("id", "payload").
		From(tableLocalChanges).
		Where(sq.Like{"payload": referencePattern(reference)}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildUpdateLocalChangePayloadQuery(id int64, payload string) (string, []any, error) {
	query, args, err := db.builder.
		Update(tableLocalChanges).
		Set("payload", payload).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

// referencePattern matches a JSON string literal equal to reference. Resource
// types and ids cannot contain LIKE wildcards.
func referencePattern(reference string) string {
	return `%"` + reference + `"%`
}

func (db *DB) buildInsertLocalChangeQuery(row localChangeRow) (string, []any, error) {
	query, args, err := db.builder.
		Insert(tableLocalChanges).
		Columns(localChangeColumns[1:]...).
		Values(row.resourceType, row.resourceID, row.changeType, row.payload, row.versionID, row.createdAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildCountLocalChangesQuery() (string, []any, error) {
	query, args, err := db.builder.
		Select("COUNT(*)").
		From(tableLocalChanges).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

// buildSelectLocalChangesQuery selects pending changes ordered by sequence id,
// optionally restricted to one resource.
func (db *DB) buildSelectLocalChangesQuery(resourceType, id string) (string, []any, error) {
	q := db.builder.
		Select(localChangeColumns...).
		From(tableLocalChanges).
		OrderBy("id ASC")
	if resourceType != "" {
		q = q.Where(sq.Eq{"resource_type": resourceType, "resource_id": id})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildOldestChangedResourceQuery() (string, []any, error) {
	query, args, err := db.builder.
		Select("resource_type", "resource_id").
		From(tableLocalChanges).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildDeleteLocalChangesByIDQuery(ids []int64) (string, []any, error) {
	query, args, err := db.builder.
		Delete(tableLocalChanges).
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildDeleteLocalChangesByResourceQuery(resourceType, id string) (string, []any, error) {
	query, args, err := db.builder.
		Delete(tableLocalChanges).
		Where(sq.Eq{"resource_type": resourceType, "resource_id": id}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

// buildRebaseLocalChangesQuery rewrites the base version (and optionally the
// id) of every pending change of one resource.
func (db *DB) buildRebaseLocalChangesQuery(resourceType, id, newID, versionID string) (string, []any, error) {
	q := db.builder.
		Update(tableLocalChanges).
		Set("version_id", versionID).
		Where(sq.Eq{"resource_type": resourceType, "resource_id": id})
	if newID != "" && newID != id {
		q = q.Set("resource_id", newID)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildSelectSyncJobQuery(jobID string) (string, []any, error) {
	query, args, err := db.builder.
		Select(syncJobColumns...).
		From(tableSyncJobs).
		Where(sq.Eq{"job_id": jobID}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildSaveTerminalStatusQuery(jobID, status, at, errs string, succeeded bool) (string, []any, error) {
	set := "last_status = excluded.last_status, last_status_at = excluded.last_status_at, last_errors = excluded.last_errors"
	var syncedAt any
	if succeeded {
		syncedAt = at
		set += ", last_synced_at = excluded.last_synced_at"
	}

	query, args, err := db.builder.
		Insert(tableSyncJobs).
		Columns("job_id", "last_status", "last_status_at", "last_errors", "last_synced_at").
		Values(jobID, status, at, errs, syncedAt).
		Suffix("ON CONFLICT (job_id) DO UPDATE SET " + set).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildIncrementAttemptsQuery(jobID string) (string, []any, error) {
	query, args, err := db.builder.
		Insert(tableSyncJobs).
		Columns("job_id", "attempts").
		Values(jobID, 1).
		Suffix("ON CONFLICT (job_id) DO UPDATE SET attempts = " + tableSyncJobs + ".attempts + 1 RETURNING attempts").
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}

func (db *DB) buildResetAttemptsQuery(jobID string) (string, []any, error) {
	query, args, err := db.builder.
		Update(tableSyncJobs).
		Set("attempts", 0).
		Where(sq.Eq{"job_id": jobID}).
		ToSql()
	if err != nil {
		return "", nil, wrapBuildErr(err)
	}
	return query, args, nil
}
