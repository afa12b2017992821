package service

import (
	"fmt"

	"github.com/MKhiriev/resource-sync/internal/config"
	"github.com/MKhiriev/resource-sync/models"
)

// AcceptLocalConflictResolver keeps the local version. The remote meta is
// adopted by the store so the next upload is based on the remote version.
type AcceptLocalConflictResolver struct{}

func (AcceptLocalConflictResolver) Resolve(local, _ models.Resource) models.ConflictResolutionResult {
	return models.Resolved(local)
}

// AcceptRemoteConflictResolver discards the local version.
type AcceptRemoteConflictResolver struct{}

func (AcceptRemoteConflictResolver) Resolve(_, remote models.Resource) models.ConflictResolutionResult {
	return models.Resolved(remote)
}

// ConflictResolverFunc adapts a function carrying caller specific merge
// logic. The function must be deterministic for the same inputs.
type ConflictResolverFunc func(local, remote models.Resource) models.Resource

func (f ConflictResolverFunc) Resolve(local, remote models.Resource) models.ConflictResolutionResult {
	return models.Resolved(f(local, remote))
}

// NewConflictResolver returns the resolver of a configured policy.
func NewConflictResolver(policy string) (models.ConflictResolver, error) {
	switch policy {
	case config.ConflictPolicyRemote, "":
		return AcceptRemoteConflictResolver{}, nil
	case config.ConflictPolicyLocal:
		return AcceptLocalConflictResolver{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConflictPolicy, policy)
	}
}
