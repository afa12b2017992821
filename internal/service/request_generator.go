package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/models"
)

const preferRepresentation = "return=representation"

// RequestGeneratorOptions selects how patches become upload requests.
type RequestGeneratorOptions struct {
	// Mode is config.RequestModeIndividual or config.RequestModeTransaction.
	Mode string
	// CreateMethod is PUT (client assigned id) or POST (server assigned id).
	CreateMethod string
	// BundleSize caps the entries of one transaction bundle; 0 means the
	// whole chunk goes in one bundle.
	BundleSize int
	// UseETag sends If-Match with the version a change was made against.
	UseETag bool
}

// NewRequestGenerator validates opts and returns the matching generator.
func NewRequestGenerator(opts RequestGeneratorOptions) (RequestGenerator, error) {
	createMethod := strings.ToUpper(strings.TrimSpace(opts.CreateMethod))
	switch createMethod {
	case "":
		createMethod = http.MethodPut
	case http.MethodPut, http.MethodPost:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCreateMethod, opts.CreateMethod)
	}
	if opts.BundleSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBundleSize, opts.BundleSize)
	}

	base := requestBuilder{createMethod: createMethod, useETag: opts.UseETag}

	switch opts.Mode {
	case config.RequestModeIndividual:
		if opts.BundleSize > 0 {
			return nil, ErrInvalidBundleSize
		}
		return &individualRequestGenerator{requestBuilder: base}, nil
	case config.RequestModeTransaction, "":
		return &transactionRequestGenerator{requestBuilder: base, bundleSize: opts.BundleSize}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedRequestMode, opts.Mode)
	}
}

type requestBuilder struct {
	createMethod string
	useETag      bool
}

// methodAndURL returns the HTTP interaction of a patch.
func (b requestBuilder) methodAndURL(p models.Patch) (string, string, error) {
	switch p.Type {
	case models.PatchInsert:
		if b.createMethod == http.MethodPost {
			return http.MethodPost, p.ResourceType, nil
		}
		return http.MethodPut, p.Key(), nil
	case models.PatchUpdate:
		if p.PayloadKind == models.PayloadJSONPatch {
			return http.MethodPatch, p.Key(), nil
		}
		return http.MethodPut, p.Key(), nil
	case models.PatchDelete:
		return http.MethodDelete, p.Key(), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedPatchType, p.Type)
	}
}

func (b requestBuilder) ifMatch(p models.Patch) string {
	if !b.useETag || p.Type == models.PatchInsert || p.VersionID == "" {
		return ""
	}
	return models.WeakETag(p.VersionID)
}

type individualRequestGenerator struct {
	requestBuilder
}

// Generate implements RequestGenerator with one request per patch.
func (g *individualRequestGenerator) Generate(patches []models.PatchMapping) ([]models.UploadRequestMapping, error) {
	ordered, err := orderByReferences(patches)
	if err != nil {
		return nil, err
	}

	mappings := make([]models.UploadRequestMapping, 0, len(ordered))
	for _, p := range ordered {
		method, url, err := g.methodAndURL(p.Patch)
		if err != nil {
			return nil, err
		}

		req := models.UploadRequest{
			Method:  method,
			URL:     url,
			Headers: map[string]string{"Prefer": preferRepresentation},
		}
		if method != http.MethodDelete {
			req.Body = p.Patch.Payload
			req.Headers["Content-Type"] = models.ContentTypeJSON
			if p.Patch.PayloadKind == models.PayloadJSONPatch {
				req.Headers["Content-Type"] = models.ContentTypeJSONPatch
			}
		}
		if etag := g.ifMatch(p.Patch); etag != "" {
			req.Headers["If-Match"] = etag
		}

		mappings = append(mappings, models.UploadRequestMapping{Request: req, Patches: []models.PatchMapping{p}})
	}

	return mappings, nil
}

type transactionRequestGenerator struct {
	requestBuilder
	bundleSize int
}

// Generate implements RequestGenerator with one transaction bundle per
// bundleSize patches. A reference cycle is left to the server, which
// resolves references inside a transaction.
func (g *transactionRequestGenerator) Generate(patches []models.PatchMapping) ([]models.UploadRequestMapping, error) {
	if len(patches) == 0 {
		return nil, nil
	}

	ordered, err := orderByReferences(patches)
	if errors.Is(err, ErrReferenceCycle) {
		ordered = patches
	} else if err != nil {
		return nil, err
	}

	size := g.bundleSize
	if size == 0 {
		size = len(ordered)
	}

	mappings := make([]models.UploadRequestMapping, 0, (len(ordered)+size-1)/size)
	for chunk := range slices.Chunk(ordered, size) {
		bundle := models.Bundle{
			ResourceType: models.ResourceTypeBundle,
			Type:         models.BundleTypeTransaction,
			Entry:        make([]models.BundleEntry, 0, len(chunk)),
		}
		for _, p := range chunk {
			entry, err := g.entry(p.Patch)
			if err != nil {
				return nil, err
			}
			bundle.Entry = append(bundle.Entry, entry)
		}

		body, err := json.Marshal(bundle)
		if err != nil {
			return nil, fmt.Errorf("encode transaction bundle: %w", err)
		}

		mappings = append(mappings, models.UploadRequestMapping{
			Request: models.UploadRequest{
				Method: http.MethodPost,
				URL:    "",
				Body:   body,
				Headers: map[string]string{
					"Content-Type": models.ContentTypeJSON,
					"Prefer":       preferRepresentation,
				},
			},
			Patches: slices.Clone(chunk),
			Bundle:  true,
		})
	}

	return mappings, nil
}

func (g *transactionRequestGenerator) entry(p models.Patch) (models.BundleEntry, error) {
	method, url, err := g.methodAndURL(p)
	if err != nil {
		return models.BundleEntry{}, err
	}

	entry := models.BundleEntry{
		Request: &models.BundleEntryRequest{Method: method, URL: url, IfMatch: g.ifMatch(p)},
	}

	switch {
	case method == http.MethodDelete:
	case p.PayloadKind == models.PayloadJSONPatch:
		binary, err := binaryPatch(p.Payload)
		if err != nil {
			return models.BundleEntry{}, err
		}
		entry.Resource = &binary
	default:
		resource, err := models.ParseResource(p.Payload)
		if err != nil {
			return models.BundleEntry{}, fmt.Errorf("%s: %w", p.Key(), err)
		}
		entry.Resource = &resource
		// References between entries of one transaction resolve against the
		// fullUrl, so a server assigned id reaches the referencing entries.
		entry.FullURL = p.Key()
	}

	return entry, nil
}

// binaryPatch wraps a JSON Patch document in a Binary resource, the form a
// transaction entry carries a PATCH payload in.
func binaryPatch(patch json.RawMessage) (models.Resource, error) {
	raw, err := json.Marshal(struct {
		ResourceType string `json:"resourceType"`
		ContentType  string `json:"contentType"`
		Data         []byte `json:"data"`
	}{
		ResourceType: models.ResourceTypeBinary,
		ContentType:  models.ContentTypeJSONPatch,
		Data:         patch,
	})
	if err != nil {
		return models.Resource{}, fmt.Errorf("encode binary patch: %w", err)
	}
	return models.ParseResource(raw)
}
