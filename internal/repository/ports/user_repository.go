package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, email, username string, passwordHash, passwordSalt []byte) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// SetResetToken stores a reset token digest, replacing any pending one.
	SetResetToken(ctx context.Context, id uuid.UUID, tokenDigest string, expiresAt time.Time) error
	// ConsumeResetToken sets the new password and clears the reset columns in one
	// statement, only when tokenDigest matches and has not expired at now.
	ConsumeResetToken(ctx context.Context, tokenDigest string, now time.Time, passwordHash, passwordSalt []byte) (*domain.User, error)
}
