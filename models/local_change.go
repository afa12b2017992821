// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// ChangeType is the kind of a recorded local mutation.
type ChangeType string

const (
	// ChangeInsert records the creation of a resource. The payload is the full resource.
	ChangeInsert ChangeType = "INSERT"
	// ChangeUpdate records a modification. The payload is an RFC 6902 JSON Patch.
	ChangeUpdate ChangeType = "UPDATE"
	// ChangeDelete records a deletion. The payload is empty.
	ChangeDelete ChangeType = "DELETE"
)

// LocalChangeToken identifies the sequence ids of the local changes
// that were folded into one upload.
type LocalChangeToken struct {
	IDs []int64 `json:"ids"`
}

// Merge returns a token covering both tokens in order.
func (t LocalChangeToken) Merge(other LocalChangeToken) LocalChangeToken {
	ids := make([]int64, 0, len(t.IDs)+len(other.IDs))
	ids = append(ids, t.IDs...)
	ids = append(ids, other.IDs...)
	return LocalChangeToken{IDs: ids}
}

// LocalChange is a single recorded mutation waiting to be uploaded.
// It is immutable once recorded.
type LocalChange struct {
	// Token holds the sequence id of the change.
	Token LocalChangeToken `json:"token"`

	ResourceType string     `json:"resource_type"`
	ResourceID   string     `json:"resource_id"`
	Type         ChangeType `json:"type"`

	// Payload depends on Type: the resource for INSERT, a JSON Patch for UPDATE,
	// nothing for DELETE.
	Payload json.RawMessage `json:"payload,omitempty"`

	// VersionID is the server version the change was made against.
	VersionID string `json:"version_id,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// SequenceID returns the first id of the token.
func (c LocalChange) SequenceID() int64 {
	if len(c.Token.IDs) == 0 {
		return 0
	}
	return c.Token.IDs[0]
}

// Key returns the "Type/id" reference of the changed resource.
func (c LocalChange) Key() string {
	return ResourceKey(c.ResourceType, c.ResourceID)
}

// FetchMode selects how pending local changes are chunked for upload.
type FetchMode string

const (
	// FetchAll returns every pending change in one chunk.
	FetchAll FetchMode = "all"
	// FetchPerResource returns the changes of one resource per chunk.
	FetchPerResource FetchMode = "per_resource"
)
