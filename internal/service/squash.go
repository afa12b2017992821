package service

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/MKhiriev/resource-sync/models"
)

// Squash folds pending local changes into one net change per resource.
// Resources keep the order of their first change; the changes of a resource
// are folded in sequence order:
//
//	INSERT + UPDATE  -> INSERT with the update applied
//	INSERT + DELETE  -> no-op
//	UPDATE + UPDATE  -> UPDATE with the patches concatenated
//	any    + DELETE  -> DELETE
//
// Errors are *models.ResourceSyncError labelled with the resource type.
func Squash(changes []models.LocalChange) ([]models.SquashedChange, error) {
	order := make([]string, 0)
	groups := make(map[string][]models.LocalChange)
	for _, c := range changes {
		key := c.Key()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	squashed := make([]models.SquashedChange, 0, len(order))
	for _, key := range order {
		group := groups[key]
		slices.SortStableFunc(group, func(a, b models.LocalChange) int {
			return cmp.Compare(a.SequenceID(), b.SequenceID())
		})

		s, err := squashResource(group)
		if err != nil {
			return nil, models.NewResourceSyncError(group[0].ResourceType, fmt.Errorf("squash %s: %w", key, err))
		}
		squashed = append(squashed, s)
	}

	return squashed, nil
}

func squashResource(changes []models.LocalChange) (models.SquashedChange, error) {
	first := changes[0]
	result := models.SquashedChange{ResourceType: first.ResourceType, ResourceID: first.ResourceID}

	var (
		kind    models.PatchType
		payload []byte
		ops     jsonpatch.Patch
		deleted bool
		noop    bool
	)

	for i, c := range changes {
		result.Token = result.Token.Merge(c.Token)
		if deleted {
			return result, fmt.Errorf("%w: %s #%d", ErrSquashChangeAfterDelete, c.Type, c.SequenceID())
		}

		switch c.Type {
		case models.ChangeInsert:
			if i != 0 {
				return result, fmt.Errorf("%w: #%d", ErrSquashCreateNotFirst, c.SequenceID())
			}
			kind = models.PatchInsert
			payload = c.Payload

		case models.ChangeUpdate:
			patch, err := jsonpatch.DecodePatch(c.Payload)
			if err != nil {
				return result, fmt.Errorf("%w: #%d: %w", ErrSquashInvalidPayload, c.SequenceID(), err)
			}
			if kind == models.PatchInsert {
				if payload, err = patch.Apply(payload); err != nil {
					return result, fmt.Errorf("%w: apply #%d: %w", ErrSquashInvalidPayload, c.SequenceID(), err)
				}
				continue
			}
			kind = models.PatchUpdate
			ops = append(ops, patch...)

		case models.ChangeDelete:
			deleted = true
			noop = kind == models.PatchInsert
			kind = models.PatchDelete

		default:
			return result, fmt.Errorf("%w: unknown change type %q", ErrSquashInvalidPayload, c.Type)
		}
	}

	if noop || (kind == models.PatchUpdate && len(ops) == 0) {
		return result, nil
	}

	patch := &models.Patch{
		ResourceType: first.ResourceType,
		ResourceID:   first.ResourceID,
		Type:         kind,
		VersionID:    first.VersionID,
	}
	switch kind {
	case models.PatchInsert:
		patch.PayloadKind = models.PayloadResource
		patch.Payload = payload
	case models.PatchUpdate:
		raw, err := json.Marshal(ops)
		if err != nil {
			return result, fmt.Errorf("%w: encode patch: %w", ErrSquashInvalidPayload, err)
		}
		patch.PayloadKind = models.PayloadJSONPatch
		patch.Payload = raw
	}
	result.Patch = patch

	return result, nil
}
