package models

// ConflictResolver decides the winner between the local and the remote
// version of a resource that has pending local changes. Implementations are
// total, synchronous and deterministic for the same inputs.
type ConflictResolver interface {
	Resolve(local, remote Resource) ConflictResolutionResult
}
