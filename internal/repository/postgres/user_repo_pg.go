package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
	"github.com/njprem/Blog_APP_BackEnd/internal/repository/ports"
)

const userColumns = `id, email, username, password_hash, password_salt, reset_token, reset_token_expires_at, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, email, username string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (email, username, password_hash, password_salt)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + userColumns

	row := r.db.QueryRowxContext(ctx, query, email, username, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE id = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE email = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM user_account WHERE username = $1`
	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenDigest string, expiresAt time.Time) error {
	const query = `
        UPDATE user_account
        SET reset_token = $2,
            reset_token_expires_at = $3,
            updated_at = NOW()
        WHERE id = $1
    `
	return execAffectingOne(ctx, r.db, query, id, tokenDigest, expiresAt)
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, tokenDigest string, now time.Time, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        UPDATE user_account
        SET password_hash = $3,
            password_salt = $4,
            reset_token = NULL,
            reset_token_expires_at = NULL,
            updated_at = NOW()
        WHERE reset_token = $1 AND reset_token_expires_at >= $2
        RETURNING ` + userColumns

	row := r.db.QueryRowxContext(ctx, query, tokenDigest, now, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

var _ ports.UserRepository = (*UserRepository)(nil)
