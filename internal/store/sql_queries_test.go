// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"regexp"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

func Test_buildSelectLocalChangesQuery_Placeholders(t *testing.T) {
	tests := []struct {
		name        string
		driver      string
		placeholder string
	}{
		{name: "postgres uses dollar", driver: config.DriverPostgres, placeholder: "$1"},
		{name: "sqlite uses question mark", driver: config.DriverSQLite, placeholder: "?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newDB(nil, tt.driver, nil, logger.Nop())

			query, args, err := db.buildSelectLocalChangesQuery("Patient", "p1")
			require.NoError(t, err)

			q := strings.ToLower(query)
			assert.Contains(t, q, "from local_changes")
			assert.Contains(t, q, "order by id asc")
			assert.Contains(t, query, tt.placeholder)
			assert.ElementsMatch(t, []any{"Patient", "p1"}, args)
		})
	}
}

func Test_buildSelectLocalChangesQuery_AllChanges(t *testing.T) {
	db := newDB(nil, config.DriverPostgres, nil, logger.Nop())

	query, args, err := db.buildSelectLocalChangesQuery("", "")
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(query), "where")
	assert.Empty(t, args)
}

func Test_buildDeleteLocalChangesByIDQuery_UsesIn(t *testing.T) {
	db := newDB(nil, config.DriverPostgres, nil, logger.Nop())

	query, args, err := db.buildDeleteLocalChangesByIDQuery([]int64{3, 5, 8})
	require.NoError(t, err)

	// squirrel generates IN ($1,$2,$3) for a slice.
	assert.Contains(t, query, "id IN ($1,$2,$3)")
	assert.Equal(t, []any{int64(3), int64(5), int64(8)}, args)
}

func Test_buildSaveTerminalStatusQuery_OnlySucceededTouchesLastSync(t *testing.T) {
	db := newDB(nil, config.DriverPostgres, nil, logger.Nop())

	ok, _, err := db.buildSaveTerminalStatusQuery("job", "Succeeded", "t", "[]", true)
	require.NoError(t, err)
	assert.Contains(t, ok, "last_synced_at = excluded.last_synced_at")

	failed, _, err := db.buildSaveTerminalStatusQuery("job", "Failed", "t", "[]", false)
	require.NoError(t, err)
	assert.NotContains(t, failed, "last_synced_at = excluded.last_synced_at")
}

func TestPendingCount_Postgres(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewLocalChangeRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM local_changes`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.PendingCount(testContext())
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPending_PostgresScansRows(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewLocalChangeRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT resource_type, resource_id FROM local_changes ORDER BY id ASC LIMIT 1`)).
		WillReturnRows(sqlmock.NewRows([]string{"resource_type", "resource_id"}).AddRow("Patient", "p1"))
	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT id, resource_type, resource_id, change_type, payload, version_id, created_at FROM local_changes WHERE resource_id = $1 AND resource_type = $2 ORDER BY id ASC`)).
		WithArgs("p1", "Patient").
		WillReturnRows(sqlmock.NewRows(localChangeColumns).
			AddRow(int64(4), "Patient", "p1", "UPDATE", `[{"op":"remove","path":"/a"}]`, "2", "2024-01-01T00:00:00.000000000Z"))

	changes, err := repo.FetchPending(testContext(), models.FetchPerResource)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, []int64{4}, changes[0].Token.IDs)
	assert.Equal(t, models.ChangeUpdate, changes[0].Type)
	assert.Equal(t, "2", changes[0].VersionID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchPending_PostgresScanError(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewLocalChangeRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM local_changes ORDER BY id ASC`)).
		WillReturnRows(sqlmock.NewRows(localChangeColumns).
			AddRow(int64(1), "Patient", "p1", "INSERT", `{}`, "", "not-a-time"))

	_, err := repo.FetchPending(testContext(), models.FetchAll)
	assert.ErrorIs(t, err, ErrScanningRows)
}

func Test_buildAdvanceCursorQuery_NeverMovesBack(t *testing.T) {
	db := newDB(nil, config.DriverPostgres, nil, logger.Nop())

	query, args, err := db.buildAdvanceCursorQuery("Patient", "2024-01-01T00:00:00.000000000Z")
	require.NoError(t, err)
	assert.Contains(t, query, "INSERT INTO download_cursors (resource_type,last_updated) VALUES ($1,$2)")
	assert.Contains(t, query, "WHERE excluded.last_updated > download_cursors.last_updated")
	assert.Equal(t, []any{"Patient", "2024-01-01T00:00:00.000000000Z"}, args)
}

func Test_buildSelectReferencingChangesQuery_MatchesQuotedReference(t *testing.T) {
	db := newDB(nil, config.DriverSQLite, nil, logger.Nop())

	query, args, err := db.buildSelectReferencingChangesQuery("Patient/local-1")
	require.NoError(t, err)
	assert.Contains(t, query, "payload LIKE ?")
	assert.Equal(t, []any{`%"Patient/local-1"%`}, args)
}

func TestLatestTimestamp_PostgresReadsDownloadCursor(t *testing.T) {
	db, mock := newMockPostgresDB(t)
	repo := NewLocalChangeRepository(db, logger.Nop())

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT MAX(last_updated) FROM download_cursors WHERE resource_type = $1`)).
		WithArgs("Patient").
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow("2024-01-01T00:00:00.000000000Z"))

	ts, err := repo.LatestTimestamp(testContext(), "Patient")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01T00:00:00.000000000Z", ts)
	require.NoError(t, mock.ExpectationsWereMet())
}
