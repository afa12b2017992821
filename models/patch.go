package models

import "encoding/json"

// PatchType is the net effect of a squashed change.
type PatchType string

const (
	PatchInsert PatchType = "INSERT"
	PatchUpdate PatchType = "UPDATE"
	PatchDelete PatchType = "DELETE"
)

// PatchPayload tells how the payload of an UPDATE patch must be sent.
type PatchPayload string

const (
	// PayloadResource means Payload holds a full resource.
	PayloadResource PatchPayload = "resource"
	// PayloadJSONPatch means Payload holds an RFC 6902 JSON Patch document.
	PayloadJSONPatch PatchPayload = "json-patch"
)

// Patch is the wire-level payload for one resource, derived from one or
// more local changes.
type Patch struct {
	ResourceType string          `json:"resource_type"`
	ResourceID   string          `json:"resource_id"`
	Type         PatchType       `json:"type"`
	PayloadKind  PatchPayload    `json:"payload_kind,omitempty"`
	Payload      json.RawMessage `json:"payload,omitempty"`
	VersionID    string          `json:"version_id,omitempty"`
}

// Key returns the "Type/id" reference of the patched resource.
func (p Patch) Key() string {
	return ResourceKey(p.ResourceType, p.ResourceID)
}

// PatchMapping ties a patch to the local changes it was generated from.
type PatchMapping struct {
	Token LocalChangeToken
	Patch Patch
}

// SquashedChange is the net result of squashing the changes of one resource.
// A no-op (insert followed by delete) has Patch == nil and still carries
// the token so the changes can be purged.
type SquashedChange struct {
	ResourceType string
	ResourceID   string
	Token        LocalChangeToken
	Patch        *Patch
}

// IsNoOp reports whether the changes cancel each other out.
func (s SquashedChange) IsNoOp() bool {
	return s.Patch == nil
}
