// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "encoding/json"

// Content types sent with upload requests.
const (
	ContentTypeJSON      = "application/fhir+json"
	ContentTypeJSONPatch = "application/json-patch+json"
)

// DownloadRequest describes the next page or resource to fetch.
type DownloadRequest struct {
	// URL is relative to the data source base url, or absolute.
	URL string `json:"url"`

	// ResourceTypeHint is the resource type the request is expected to return
	// entries of. It labels errors raised for this request.
	ResourceTypeHint string `json:"resource_type_hint,omitempty"`

	// Headers are additional request headers.
	Headers map[string]string `json:"headers,omitempty"`
}

// UploadRequest is a concrete HTTP request derived from one or more patches.
type UploadRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Body    json.RawMessage   `json:"body,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

// UploadRequestMapping ties an upload request to the patches it carries,
// in the order they appear in the request.
type UploadRequestMapping struct {
	Request UploadRequest
	Patches []PatchMapping

	// Bundle reports whether Request carries a transaction bundle whose
	// response entries map one to one to Patches.
	Bundle bool
}

// Token returns the merged token of every carried patch.
func (m UploadRequestMapping) Token() LocalChangeToken {
	var t LocalChangeToken
	for _, p := range m.Patches {
		t = t.Merge(p.Token)
	}
	return t
}
