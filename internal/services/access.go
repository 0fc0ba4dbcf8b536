package services

import "github.com/google/uuid"

// Owned is implemented by every resource that carries a denormalized owner
// id. Ownership is stamped at creation and never mutated, which keeps
// authorization an O(1) comparison instead of a tree walk.
type Owned interface {
	OwnerUUID() uuid.UUID
}

// Authorize enforces exclusive ownership. It must run after the resource
// has been located and before any effect: a missing resource reports
// ErrNotFound from the lookup, never ErrUnauthorized from here.
func Authorize(resource Owned, requesterID uuid.UUID) error {
	if resource.OwnerUUID() != requesterID {
		return ErrUnauthorized
	}
	return nil
}
