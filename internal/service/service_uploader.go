package service

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/MKhiriev/resource-sync/internal/adapter"
	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/internal/logger"
	"github.com/MKhiriev/resource-sync/models"
)

type uploader struct {
	dataSource adapter.DataSource
	store      LocalChangeStore
	patches    PatchGenerator
	requests   RequestGenerator
	fetchMode  models.FetchMode
}

// NewUploader returns an Uploader fetching pending changes with fetchMode.
func NewUploader(
	dataSource adapter.DataSource,
	store LocalChangeStore,
	patches PatchGenerator,
	requests RequestGenerator,
	fetchMode string,
) (Uploader, error) {
	mode := models.FetchMode(fetchMode)
	switch fetchMode {
	case "":
		mode = models.FetchAll
	case config.FetchModeAll, config.FetchModePerResource:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFetchMode, fetchMode)
	}

	return &uploader{
		dataSource: dataSource,
		store:      store,
		patches:    patches,
		requests:   requests,
		fetchMode:  mode,
	}, nil
}

// Upload implements Uploader. Chunks are fetched until none is pending or
// the first failure. Changes that squash to nothing are purged without a
// request. Progress counts local changes.
func (u *uploader) Upload(ctx context.Context) iter.Seq[models.UploadState] {
	return func(yield func(models.UploadState) bool) {
		total, err := u.store.PendingCount(ctx)
		if err != nil {
			yield(uploadFailure("", fmt.Errorf("count pending changes: %w", err)))
			return
		}
		if !yield(models.UploadState{Kind: models.UploadStarted, Total: total}) {
			return
		}

		completed := 0
		progress := func(n int) bool {
			completed += n
			if completed > total {
				total = completed
			}
			return yield(models.UploadState{Kind: models.UploadProgress, Total: total, Completed: completed})
		}

		for {
			changes, err := u.store.FetchPending(ctx, u.fetchMode)
			if err != nil {
				yield(uploadFailure("", fmt.Errorf("fetch pending changes: %w", err)))
				return
			}
			if len(changes) == 0 {
				return
			}

			squashed, err := Squash(changes)
			if err != nil {
				yield(uploadFailure("", err))
				return
			}

			purged, err := u.purgeNoOps(ctx, squashed)
			if err != nil {
				yield(uploadFailure("", err))
				return
			}
			if purged > 0 && !progress(purged) {
				return
			}

			patches, err := u.patches.Generate(ctx, squashed)
			if err != nil {
				yield(uploadFailure("", err))
				return
			}

			requests, err := u.requests.Generate(patches)
			if err != nil {
				yield(uploadFailure(patchesType(patches), err))
				return
			}

			for _, m := range requests {
				if err = u.execute(ctx, m); err != nil {
					yield(uploadFailure(patchesType(m.Patches), err))
					return
				}
				if !progress(len(m.Token().IDs)) {
					return
				}
			}
		}
	}
}

func (u *uploader) purgeNoOps(ctx context.Context, squashed []models.SquashedChange) (int, error) {
	purged := 0
	for _, s := range squashed {
		if !s.IsNoOp() {
			continue
		}
		logger.FromContext(ctx).Debug().
			Str("func", "uploader.purgeNoOps").
			Str("resource_type", s.ResourceType).
			Str("resource_id", s.ResourceID).
			Msg("local changes cancel out, purging")

		outcome := models.UploadOutcome{Token: s.Token, ResourceType: s.ResourceType, ResourceID: s.ResourceID}
		if err := u.store.ConsolidateUpload(ctx, outcome); err != nil {
			return purged, models.NewResourceSyncError(s.ResourceType, fmt.Errorf("purge no-op changes: %w", err))
		}
		purged += len(s.Token.IDs)
	}
	return purged, nil
}

// execute sends one request and consolidates its outcomes. On failure the
// covered changes are reported failed and stay pending.
func (u *uploader) execute(ctx context.Context, m models.UploadRequestMapping) error {
	response, err := u.dataSource.Upload(ctx, m.Request)
	var outcomes []models.UploadOutcome
	if err == nil {
		outcomes, err = validateUploadResponse(m, response)
	}

	if err != nil {
		logger.FromContext(ctx).Warn().
			Err(err).
			Str("func", "uploader.execute").
			Str("method", m.Request.Method).
			Str("url", m.Request.URL).
			Msg("upload failed")
		for _, p := range m.Patches {
			failed := models.UploadOutcome{Token: p.Token, ResourceType: p.Patch.ResourceType, ResourceID: p.Patch.ResourceID, Err: err}
			if cerr := u.store.ConsolidateUpload(ctx, failed); cerr != nil {
				return errors.Join(err, cerr)
			}
		}
		return err
	}

	for _, o := range outcomes {
		if err = u.store.ConsolidateUpload(ctx, o); err != nil {
			return models.NewResourceSyncError(o.ResourceType, fmt.Errorf("consolidate upload of %s: %w", models.ResourceKey(o.ResourceType, o.ResourceID), err))
		}
	}
	return nil
}

// validateUploadResponse checks response against the request it answers
// and returns one successful outcome per patch.
func validateUploadResponse(m models.UploadRequestMapping, response models.Resource) ([]models.UploadOutcome, error) {
	if response.ResourceType == models.ResourceTypeOperationOutcome {
		if err := outcomeError(response); err != nil {
			return nil, err
		}
		if m.Bundle {
			return nil, fmt.Errorf("%w: operation outcome instead of a transaction response", ErrUnexpectedResponse)
		}
		response = models.Resource{Meta: response.Meta}
	}

	if m.Bundle {
		return validateBundleResponse(m, response)
	}

	if len(m.Patches) != 1 {
		return nil, fmt.Errorf("%w: %d patches in an individual request", ErrUnexpectedResponse, len(m.Patches))
	}
	p := m.Patches[0]
	outcome := models.UploadOutcome{
		Token:        p.Token,
		ResourceType: p.Patch.ResourceType,
		ResourceID:   p.Patch.ResourceID,
		VersionID:    response.Meta.VersionID,
		LastUpdated:  response.Meta.LastUpdated,
	}

	if response.IsEmpty() || p.Patch.Type == models.PatchDelete {
		return []models.UploadOutcome{outcome}, nil
	}
	if response.ResourceType != p.Patch.ResourceType {
		return nil, fmt.Errorf("%w: got %s for %s", ErrUnexpectedResponse, response.ResourceType, p.Patch.Key())
	}
	outcome.Resource = &response

	return []models.UploadOutcome{outcome}, nil
}

func validateBundleResponse(m models.UploadRequestMapping, response models.Resource) ([]models.UploadOutcome, error) {
	if response.ResourceType != models.ResourceTypeBundle {
		return nil, fmt.Errorf("%w: got %q instead of a bundle", ErrUnexpectedResponse, response.ResourceType)
	}

	var bundle models.Bundle
	if err := response.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	if bundle.Type != models.BundleTypeTransactionResponse && bundle.Type != models.BundleTypeBatchResponse {
		return nil, fmt.Errorf("%w: bundle type %q", ErrUnexpectedResponse, bundle.Type)
	}
	if len(bundle.Entry) != len(m.Patches) {
		return nil, fmt.Errorf("%w: %d entries for %d patches", ErrUnexpectedResponse, len(bundle.Entry), len(m.Patches))
	}

	outcomes := make([]models.UploadOutcome, 0, len(m.Patches))
	for i, entry := range bundle.Entry {
		p := m.Patches[i]
		if entry.Response == nil {
			return nil, fmt.Errorf("%w: entry %d of %s has no response", ErrUnexpectedResponse, i, p.Patch.Key())
		}
		if !entry.Response.IsSuccess() {
			if entry.Response.Outcome != nil {
				if err := outcomeError(*entry.Response.Outcome); err != nil {
					return nil, fmt.Errorf("%s: %w", p.Patch.Key(), err)
				}
			}
			return nil, fmt.Errorf("%w: %s answered %q", ErrUnexpectedResponse, p.Patch.Key(), entry.Response.Status)
		}

		outcome := models.UploadOutcome{
			Token:        p.Token,
			ResourceType: p.Patch.ResourceType,
			ResourceID:   p.Patch.ResourceID,
			VersionID:    entry.Response.VersionID(),
			LastUpdated:  entry.Response.LastModified,
		}
		if r := entry.Resource; r != nil && p.Patch.Type != models.PatchDelete && r.ResourceType == p.Patch.ResourceType {
			echoed := *r
			outcome.Resource = &echoed
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// outcomeError returns the error carried by an OperationOutcome, or nil when
// it only holds informational issues.
func outcomeError(r models.Resource) error {
	var outcome models.OperationOutcome
	if err := r.Decode(&outcome); err != nil {
		return fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	for _, issue := range outcome.Issue {
		switch strings.ToLower(issue.Severity) {
		case "information", "warning":
		default:
			return outcome.Err()
		}
	}
	if len(outcome.Issue) == 0 {
		return outcome.Err()
	}
	return nil
}

// patchesType labels an error with the resource type of the patches, or
// "Bundle" when they span several types.
func patchesType(patches []models.PatchMapping) string {
	resourceType := ""
	for _, p := range patches {
		switch resourceType {
		case "":
			resourceType = p.Patch.ResourceType
		case p.Patch.ResourceType:
		default:
			return models.ResourceTypeBundle
		}
	}
	return resourceType
}

func uploadFailure(resourceType string, err error) models.UploadState {
	return models.UploadState{Kind: models.UploadFailure, Err: asResourceSyncError(resourceType, err)}
}

// asResourceSyncError keeps an existing *models.ResourceSyncError in the
// chain and wraps any other error for resourceType.
func asResourceSyncError(resourceType string, err error) *models.ResourceSyncError {
	var rse *models.ResourceSyncError
	if errors.As(err, &rse) {
		return rse
	}
	return models.NewResourceSyncError(resourceType, err)
}
