package service

import (
	"context"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/MKhiriev/resource-sync/models"
)

const fanOutBatchSize = 100

// TimestampSource returns the incremental download cursor of a resource type.
type TimestampSource interface {
	LatestTimestamp(ctx context.Context, resourceType string) (string, error)
}

// FanOutRule queues a search for TargetType for every page of downloaded
// SourceType resources: {TargetType}?{SearchParam}=id1,id2,...
type FanOutRule struct {
	SourceType  string
	TargetType  string
	SearchParam string
}

// ResourceParamsDownloadManager downloads every configured resource type
// with its search parameters, sorted by lastUpdated and resumed after the
// newest locally stored resource. It is stateful and serves one
// synchronize call.
type ResourceParamsDownloadManager struct {
	params map[string]string
	cursor TimestampSource
	rules  []FanOutRule

	queue   []models.DownloadRequest
	seeded  bool
	current string
}

// NewResourceParamsDownloadManager returns a manager for params, a map from
// resource type to its search query (without leading "?").
func NewResourceParamsDownloadManager(params map[string]string, cursor TimestampSource, rules ...FanOutRule) *ResourceParamsDownloadManager {
	return &ResourceParamsDownloadManager{
		params: params,
		cursor: cursor,
		rules:  rules,
	}
}

// NextRequest implements DownloadWorkManager.
func (m *ResourceParamsDownloadManager) NextRequest(ctx context.Context) (*models.DownloadRequest, error) {
	if !m.seeded {
		for _, resourceType := range m.resourceTypes() {
			since, err := m.since(ctx, resourceType)
			if err != nil {
				return nil, err
			}
			m.queue = append(m.queue, models.DownloadRequest{
				URL:              searchURL(resourceType, m.params[resourceType], "_sort=_lastUpdated", since),
				ResourceTypeHint: resourceType,
			})
		}
		m.seeded = true
	}

	if len(m.queue) == 0 {
		return nil, nil
	}

	req := m.queue[0]
	m.queue = m.queue[1:]
	m.current = req.ResourceTypeHint

	return &req, nil
}

// SummaryRequestURLs implements DownloadWorkManager.
func (m *ResourceParamsDownloadManager) SummaryRequestURLs(ctx context.Context) (map[string]string, error) {
	urls := make(map[string]string, len(m.params))
	for _, resourceType := range m.resourceTypes() {
		since, err := m.since(ctx, resourceType)
		if err != nil {
			return nil, err
		}
		urls[resourceType] = searchURL(resourceType, m.params[resourceType], since, "_summary=count")
	}
	return urls, nil
}

// ProcessResponse implements DownloadWorkManager. Bundle entries are
// extracted and the next page is queued; any other resource is returned as
// is. An OperationOutcome is an error.
func (m *ResourceParamsDownloadManager) ProcessResponse(_ context.Context, response models.Resource) ([]models.Resource, error) {
	var resources []models.Resource

	switch response.ResourceType {
	case models.ResourceTypeOperationOutcome:
		var outcome models.OperationOutcome
		if err := response.Decode(&outcome); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedDownload, err)
		}
		return nil, outcome.Err()

	case models.ResourceTypeBundle:
		var bundle models.Bundle
		if err := response.Decode(&bundle); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnexpectedDownload, err)
		}
		if next := bundle.NextLink(); next != "" {
			m.queue = append(m.queue, models.DownloadRequest{URL: next, ResourceTypeHint: m.current})
		}
		for _, entry := range bundle.Entry {
			if entry.Resource == nil || entry.Resource.IsEmpty() || entry.Resource.ResourceType == models.ResourceTypeOperationOutcome {
				continue
			}
			resources = append(resources, *entry.Resource)
		}

	case "":
		return nil, ErrUnexpectedDownload

	default:
		resources = []models.Resource{response}
	}

	m.fanOut(resources)

	return resources, nil
}

func (m *ResourceParamsDownloadManager) fanOut(resources []models.Resource) {
	for _, rule := range m.rules {
		seen := make(map[string]bool)
		ids := make([]string, 0)
		for _, r := range resources {
			if r.ResourceType != rule.SourceType || r.ID == "" || seen[r.ID] {
				continue
			}
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}

		for batch := range slices.Chunk(ids, fanOutBatchSize) {
			m.queue = append(m.queue, models.DownloadRequest{
				URL:              searchURL(rule.TargetType, m.params[rule.TargetType], rule.SearchParam+"="+strings.Join(batch, ",")),
				ResourceTypeHint: rule.TargetType,
			})
		}
	}
}

func (m *ResourceParamsDownloadManager) resourceTypes() []string {
	return slices.Sorted(maps.Keys(m.params))
}

func (m *ResourceParamsDownloadManager) since(ctx context.Context, resourceType string) (string, error) {
	if m.cursor == nil {
		return "", nil
	}
	ts, err := m.cursor.LatestTimestamp(ctx, resourceType)
	if err != nil {
		return "", fmt.Errorf("latest timestamp of %s: %w", resourceType, err)
	}
	if ts == "" {
		return "", nil
	}
	return "_lastUpdated=gt" + url.QueryEscape(ts), nil
}

// searchURL joins the non-empty query parts onto resourceType.
func searchURL(resourceType string, parts ...string) string {
	query := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimPrefix(strings.TrimSpace(p), "?"); p != "" {
			query = append(query, p)
		}
	}
	if len(query) == 0 {
		return resourceType
	}
	return resourceType + "?" + strings.Join(query, "&")
}
