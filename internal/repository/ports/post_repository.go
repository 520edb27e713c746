package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
)

type PostRepository interface {
	Create(ctx context.Context, ownerID uuid.UUID, input domain.PostInput) (*domain.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Post, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, input domain.PostInput) (*domain.Post, error)
	UpdateCover(ctx context.Context, id, ownerID uuid.UUID, coverURL, objectKey string) (*domain.Post, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
}
