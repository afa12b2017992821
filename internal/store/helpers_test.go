// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

func testContext() context.Context {
	return logger.Nop().WithContext(context.Background())
}

// newSQLiteTestDB opens a migrated sqlite database in a temp dir.
func newSQLiteTestDB(t *testing.T) *DB {
	t.Helper()
	cfg := config.DB{Driver: config.DriverSQLite, DSN: filepath.Join(t.TempDir(), "store.db")}
	db, err := NewConnect(testContext(), cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate())
	return db
}

// newMockPostgresDB wraps sqlmock as a pgx-flavoured DB.
func newMockPostgresDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return newDB(conn, config.DriverPostgres, NewPostgresErrorClassifier(), logger.Nop()), mock
}

func newTestRepo(t *testing.T) *LocalChangeRepository {
	t.Helper()
	return NewLocalChangeRepository(newSQLiteTestDB(t), logger.Nop())
}

func mustResource(t *testing.T, raw string) models.Resource {
	t.Helper()
	r, err := models.ParseResource([]byte(raw))
	require.NoError(t, err)
	return r
}

type resolverFunc func(local, remote models.Resource) models.ConflictResolutionResult

func (f resolverFunc) Resolve(local, remote models.Resource) models.ConflictResolutionResult {
	return f(local, remote)
}

var (
	acceptRemote = resolverFunc(func(_, remote models.Resource) models.ConflictResolutionResult {
		return models.Resolved(remote)
	})
	acceptLocal = resolverFunc(func(local, _ models.Resource) models.ConflictResolutionResult {
		return models.Resolved(local)
	})
)

func testNow() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}
