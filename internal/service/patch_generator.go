package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/models"
)

type patchGenerator struct {
	fullResource bool
	store        LocalChangeStore
}

// NewPatchGenerator returns the generator of a patch mode. In full resource
// mode an UPDATE is sent as the current local document, loaded from store;
// in partial mode it stays a JSON Patch.
func NewPatchGenerator(mode string, store LocalChangeStore) (PatchGenerator, error) {
	switch mode {
	case config.PatchModeFullResource:
		return &patchGenerator{fullResource: true, store: store}, nil
	case config.PatchModePartial, "":
		return &patchGenerator{store: store}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPatchMode, mode)
	}
}

// Generate implements PatchGenerator. No-op changes are skipped.
func (g *patchGenerator) Generate(ctx context.Context, squashed []models.SquashedChange) ([]models.PatchMapping, error) {
	mappings := make([]models.PatchMapping, 0, len(squashed))
	for _, s := range squashed {
		if s.IsNoOp() {
			continue
		}

		patch := *s.Patch
		if g.fullResource && patch.Type == models.PatchUpdate {
			current, err := g.store.GetResource(ctx, patch.ResourceType, patch.ResourceID)
			if err != nil {
				return nil, models.NewResourceSyncError(patch.ResourceType, fmt.Errorf("load %s for full resource update: %w", patch.Key(), err))
			}
			patch.PayloadKind = models.PayloadResource
			patch.Payload = current.Raw
		}

		mappings = append(mappings, models.PatchMapping{Token: s.Token, Patch: patch})
	}

	return mappings, nil
}
