package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResource(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantType    string
		wantID      string
		wantVersion string
		wantErr     error
	}{
		{
			name:        "header and meta",
			raw:         `{"resourceType":"Patient","id":"p1","meta":{"versionId":"3","lastUpdated":"2024-01-01T00:00:00Z"},"name":[{"family":"Doe"}]}`,
			wantType:    "Patient",
			wantID:      "p1",
			wantVersion: "3",
		},
		{
			name:     "no id and no meta",
			raw:      `{"resourceType":"Bundle","type":"searchset"}`,
			wantType: "Bundle",
		},
		{
			name:    "missing resourceType",
			raw:     `{"id":"p1"}`,
			wantErr: ErrInvalidResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseResource([]byte(tt.raw))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, r.ResourceType)
			assert.Equal(t, tt.wantID, r.ID)
			assert.Equal(t, tt.wantVersion, r.Meta.VersionID)
			assert.False(t, r.Deleted)
		})
	}
}

func TestParseResource_MalformedJSON(t *testing.T) {
	_, err := ParseResource([]byte(`{"resourceType":`))
	assert.Error(t, err)
}

func TestParseResource_KeepsRawBytes(t *testing.T) {
	// field order, unknown fields and number formatting must survive
	raw := `{"id":"o1","valueQuantity":{"value":1.50},"resourceType":"Observation","_extra":true}`

	r, err := ParseResource([]byte("  " + raw + "\n"))
	require.NoError(t, err)
	assert.Equal(t, raw, string(r.Raw))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, raw, string(out))

	var decoded Resource
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, r, decoded)
}

func TestParseResource_LastUpdated(t *testing.T) {
	r, err := ParseResource([]byte(`{"resourceType":"Patient","id":"p1","meta":{"lastUpdated":"2024-03-01T10:00:00+02:00"}}`))
	require.NoError(t, err)
	require.NotNil(t, r.Meta.LastUpdated)
	assert.True(t, r.Meta.LastUpdated.Equal(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)))
}

func TestResource_NullUnmarshalsToEmpty(t *testing.T) {
	var entry BundleEntry
	require.NoError(t, json.Unmarshal([]byte(`{"resource":null}`), &entry))
	assert.Nil(t, entry.Resource)

	var r Resource
	require.NoError(t, json.Unmarshal([]byte(`null`), &r))
	assert.True(t, r.IsEmpty())
}

func TestNewTombstone(t *testing.T) {
	r := NewTombstone("Patient", "p1")
	assert.True(t, r.Deleted)
	assert.Equal(t, "Patient/p1", r.Key())
	assert.Empty(t, r.Raw)
	assert.False(t, r.IsEmpty())
}
