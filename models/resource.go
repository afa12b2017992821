// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Well-known resource types the engine inspects on the wire.
const (
	ResourceTypeBundle           = "Bundle"
	ResourceTypeOperationOutcome = "OperationOutcome"
	ResourceTypeBinary           = "Binary"
)

// ErrInvalidResource is returned when a JSON document has no resourceType.
var ErrInvalidResource = errors.New("invalid resource: missing resourceType")

// Meta is the subset of resource metadata the engine relies on.
type Meta struct {
	VersionID   string     `json:"versionId,omitempty"`
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// Resource is an opaque JSON document with its identifying header extracted.
//
// The engine never interprets the body beyond the header: Raw holds the exact
// bytes received from the server or written by the local store, and
// MarshalJSON returns them unchanged.
type Resource struct {
	// ResourceType is the value of the "resourceType" property (e.g. "Patient").
	ResourceType string
	// ID is the logical id of the resource.
	ID string
	// Meta holds versionId and lastUpdated, if present.
	Meta Meta
	// Deleted marks a local tombstone. It is never serialized.
	Deleted bool
	// Raw is the full JSON document.
	Raw json.RawMessage
}

type resourceHeader struct {
	ResourceType string `json:"resourceType"`
	ID           string `json:"id,omitempty"`
	Meta         *Meta  `json:"meta,omitempty"`
}

// ParseResource decodes the header of a JSON resource and keeps the raw bytes.
func ParseResource(raw []byte) (Resource, error) {
	var h resourceHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return Resource{}, fmt.Errorf("decode resource header: %w", err)
	}
	if h.ResourceType == "" {
		return Resource{}, ErrInvalidResource
	}

	r := Resource{
		ResourceType: h.ResourceType,
		ID:           h.ID,
		Raw:          append(json.RawMessage(nil), bytes.TrimSpace(raw)...),
	}
	if h.Meta != nil {
		r.Meta = *h.Meta
	}

	return r, nil
}

// NewTombstone returns a deleted placeholder for resourceType/id.
func NewTombstone(resourceType, id string) Resource {
	return Resource{ResourceType: resourceType, ID: id, Deleted: true}
}

// Key returns the "Type/id" reference of the resource.
func (r Resource) Key() string {
	return ResourceKey(r.ResourceType, r.ID)
}

// IsEmpty reports whether the resource carries no document.
func (r Resource) IsEmpty() bool {
	return len(r.Raw) == 0 && r.ResourceType == ""
}

// MarshalJSON implements json.Marshaler.
func (r Resource) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Resource) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*r = Resource{}
		return nil
	}
	parsed, err := ParseResource(b)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Decode unmarshals the raw document into v.
func (r Resource) Decode(v any) error {
	if len(r.Raw) == 0 {
		return fmt.Errorf("decode %s: empty resource", r.Key())
	}
	return json.Unmarshal(r.Raw, v)
}

// ResourceKey formats a "Type/id" reference.
func ResourceKey(resourceType, id string) string {
	return resourceType + "/" + id
}
