package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/resource-sync/models"
)

// timeLayout is fixed width so that timestamps compare lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, fmt.Errorf("parse stored timestamp %q: %w", s.String, err)
	}
	return &t, nil
}

type resourceRow struct {
	resourceType string
	resourceID   string
	versionID    string
	lastUpdated  any
	payload      string
}

func newResourceRow(r models.Resource) resourceRow {
	return resourceRow{
		resourceType: r.ResourceType,
		resourceID:   r.ID,
		versionID:    r.Meta.VersionID,
		lastUpdated:  nullTime(r.Meta.LastUpdated),
		payload:      string(r.Raw),
	}
}

// scanResource reads one resources row. The version columns are authoritative
// over the meta embedded in the payload.
func scanResource(row interface{ Scan(...any) error }) (models.Resource, error) {
	var (
		resourceType, resourceID, versionID, payload string
		lastUpdated                                  sql.NullString
	)
	if err := row.Scan(&resourceType, &resourceID, &versionID, &lastUpdated, &payload); err != nil {
		return models.Resource{}, err
	}

	r, err := models.ParseResource([]byte(payload))
	if err != nil {
		return models.Resource{}, fmt.Errorf("stored resource %s: %w", models.ResourceKey(resourceType, resourceID), err)
	}
	r.ResourceType = resourceType
	r.ID = resourceID
	r.Meta.VersionID = versionID
	if r.Meta.LastUpdated, err = parseNullTime(lastUpdated); err != nil {
		return models.Resource{}, err
	}

	return r, nil
}

type localChangeRow struct {
	resourceType string
	resourceID   string
	changeType   string
	payload      string
	versionID    string
	createdAt    string
}

func scanLocalChanges(rows *sql.Rows) ([]models.LocalChange, error) {
	var changes []models.LocalChange
	for rows.Next() {
		var (
			id                                                       int64
			resourceType, resourceID, changeType, payload, versionID string
			createdAt                                                string
		)
		if err := rows.Scan(&id, &resourceType, &resourceID, &changeType, &payload, &versionID, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}

		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: created_at %q: %w", ErrScanningRows, createdAt, err)
		}

		change := models.LocalChange{
			Token:        models.LocalChangeToken{IDs: []int64{id}},
			ResourceType: resourceType,
			ResourceID:   resourceID,
			Type:         models.ChangeType(changeType),
			VersionID:    versionID,
			Timestamp:    ts,
		}
		if payload != "" {
			change.Payload = json.RawMessage(payload)
		}
		changes = append(changes, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return changes, nil
}
