package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
)

// Owned is implemented by resources that belong to exactly one user.
type Owned interface {
	Owner() uuid.UUID
}

// requireOwner loads the resource and returns it only when identity owns it.
// Missing resources yield ErrNotFound and foreign ones ErrForbidden; callers
// must not write anything unless the returned error is nil.
func requireOwner[T Owned](ctx context.Context, identity domain.Identity, id uuid.UUID, load func(context.Context, uuid.UUID) (T, error)) (T, error) {
	var zero T
	if identity.ID == uuid.Nil {
		return zero, ErrUnauthorized
	}
	resource, err := load(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	if resource.Owner() != identity.ID {
		return zero, ErrForbidden
	}
	return resource, nil
}
