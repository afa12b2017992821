package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/resource-sync/models"
)

func TestSquash(t *testing.T) {
	tests := []struct {
		name        string
		changes     []models.LocalChange
		wantType    models.PatchType
		wantNoOp    bool
		wantPayload string
		wantIDs     []int64
	}{
		{
			name: "create then delete is a no-op",
			changes: []models.LocalChange{
				change(1, models.ChangeInsert, "Patient", "p1", `{"resourceType":"Patient","id":"p1"}`),
				change(2, models.ChangeDelete, "Patient", "p1", ""),
			},
			wantNoOp: true,
			wantIDs:  []int64{1, 2},
		},
		{
			name: "create update delete is a no-op",
			changes: []models.LocalChange{
				change(1, models.ChangeInsert, "Patient", "p1", `{"resourceType":"Patient","id":"p1"}`),
				change(2, models.ChangeUpdate, "Patient", "p1", `[{"op":"add","path":"/active","value":true}]`),
				change(3, models.ChangeDelete, "Patient", "p1", ""),
			},
			wantNoOp: true,
			wantIDs:  []int64{1, 2, 3},
		},
		{
			name: "create then update merges the payload",
			changes: []models.LocalChange{
				change(1, models.ChangeInsert, "Patient", "p1", `{"resourceType":"Patient","id":"p1"}`),
				change(2, models.ChangeUpdate, "Patient", "p1", `[{"op":"add","path":"/active","value":true}]`),
			},
			wantType:    models.PatchInsert,
			wantPayload: `{"resourceType":"Patient","id":"p1","active":true}`,
			wantIDs:     []int64{1, 2},
		},
		{
			name: "updates are concatenated",
			changes: []models.LocalChange{
				change(4, models.ChangeUpdate, "Patient", "p1", `[{"op":"add","path":"/active","value":true}]`),
				change(5, models.ChangeUpdate, "Patient", "p1", `[{"op":"replace","path":"/active","value":false}]`),
			},
			wantType:    models.PatchUpdate,
			wantPayload: `[{"op":"add","path":"/active","value":true},{"op":"replace","path":"/active","value":false}]`,
			wantIDs:     []int64{4, 5},
		},
		{
			name: "update then delete is a delete",
			changes: []models.LocalChange{
				change(7, models.ChangeUpdate, "Patient", "p1", `[{"op":"add","path":"/active","value":true}]`),
				change(8, models.ChangeDelete, "Patient", "p1", ""),
			},
			wantType: models.PatchDelete,
			wantIDs:  []int64{7, 8},
		},
		{
			name: "empty update is a no-op",
			changes: []models.LocalChange{
				change(9, models.ChangeUpdate, "Patient", "p1", `[]`),
			},
			wantNoOp: true,
			wantIDs:  []int64{9},
		},
		{
			name: "changes are folded in sequence order",
			changes: []models.LocalChange{
				change(11, models.ChangeDelete, "Patient", "p1", ""),
				change(10, models.ChangeUpdate, "Patient", "p1", `[{"op":"add","path":"/active","value":true}]`),
			},
			wantType: models.PatchDelete,
			wantIDs:  []int64{10, 11},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			squashed, err := Squash(tt.changes)
			require.NoError(t, err)
			require.Len(t, squashed, 1)

			s := squashed[0]
			assert.Equal(t, tt.wantIDs, s.Token.IDs)
			assert.Equal(t, tt.wantNoOp, s.IsNoOp())
			if tt.wantNoOp {
				return
			}
			assert.Equal(t, tt.wantType, s.Patch.Type)
			if tt.wantPayload != "" {
				assert.JSONEq(t, tt.wantPayload, string(s.Patch.Payload))
			}
		})
	}
}

func TestSquash_KeepsResourceOrderAndBaseVersion(t *testing.T) {
	first := change(1, models.ChangeUpdate, "Patient", "p1", `[{"op":"add","path":"/active","value":true}]`)
	first.VersionID = "3"
	second := change(3, models.ChangeUpdate, "Patient", "p1", `[{"op":"add","path":"/gender","value":"female"}]`)
	second.VersionID = "3"

	squashed, err := Squash([]models.LocalChange{
		first,
		change(2, models.ChangeInsert, "Observation", "o1", `{"resourceType":"Observation","id":"o1"}`),
		second,
	})

	require.NoError(t, err)
	require.Len(t, squashed, 2)
	assert.Equal(t, "Patient/p1", squashed[0].Patch.Key())
	assert.Equal(t, "3", squashed[0].Patch.VersionID)
	assert.Equal(t, models.PayloadJSONPatch, squashed[0].Patch.PayloadKind)
	assert.Equal(t, "Observation/o1", squashed[1].Patch.Key())
	assert.Equal(t, models.PayloadResource, squashed[1].Patch.PayloadKind)
}

func TestSquash_Errors(t *testing.T) {
	tests := []struct {
		name    string
		changes []models.LocalChange
		wantErr error
	}{
		{
			name: "change after delete",
			changes: []models.LocalChange{
				change(1, models.ChangeDelete, "Patient", "p1", ""),
				change(2, models.ChangeUpdate, "Patient", "p1", `[]`),
			},
			wantErr: ErrSquashChangeAfterDelete,
		},
		{
			name: "create after update",
			changes: []models.LocalChange{
				change(1, models.ChangeUpdate, "Patient", "p1", `[]`),
				change(2, models.ChangeInsert, "Patient", "p1", `{"resourceType":"Patient","id":"p1"}`),
			},
			wantErr: ErrSquashCreateNotFirst,
		},
		{
			name: "invalid patch",
			changes: []models.LocalChange{
				change(1, models.ChangeUpdate, "Patient", "p1", `{"op":"add"}`),
			},
			wantErr: ErrSquashInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Squash(tt.changes)
			require.ErrorIs(t, err, tt.wantErr)

			var rse *models.ResourceSyncError
			require.ErrorAs(t, err, &rse)
			assert.Equal(t, "Patient", rse.ResourceType)
		})
	}
}
