package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
	"github.com/njprem/Blog_APP_BackEnd/internal/repository/ports"
)

const postColumns = `id, owner_id, title, body, tags, cover_image_url, cover_image_key, created_at, updated_at`

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, ownerID uuid.UUID, input domain.PostInput) (*domain.Post, error) {
	const query = `
		INSERT INTO post (owner_id, title, body, tags)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + postColumns

	var post domain.Post
	if err := r.db.GetContext(ctx, &post, query, ownerID, input.Title, input.Body, pq.Array(tagsOrEmpty(input.Tags))); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	const query = `SELECT ` + postColumns + ` FROM post WHERE id = $1`
	var post domain.Post
	if err := r.db.GetContext(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]domain.Post, error) {
	const query = `
		SELECT ` + postColumns + `
		FROM post
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	posts := make([]domain.Post, 0)
	if err := r.db.SelectContext(ctx, &posts, query, ownerID, limit, offset); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	const query = `SELECT COUNT(*) FROM post WHERE owner_id = $1`
	var count int64
	if err := r.db.GetContext(ctx, &count, query, ownerID); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostRepository) Update(ctx context.Context, id, ownerID uuid.UUID, input domain.PostInput) (*domain.Post, error) {
	const query = `
		UPDATE post
		SET title = $3,
		    body = $4,
		    tags = $5,
		    updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + postColumns

	var post domain.Post
	if err := r.db.GetContext(ctx, &post, query, id, ownerID, input.Title, input.Body, pq.Array(tagsOrEmpty(input.Tags))); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) UpdateCover(ctx context.Context, id, ownerID uuid.UUID, coverURL, objectKey string) (*domain.Post, error) {
	const query = `
		UPDATE post
		SET cover_image_url = $3,
		    cover_image_key = $4,
		    updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + postColumns

	var post domain.Post
	if err := r.db.GetContext(ctx, &post, query, id, ownerID, coverURL, objectKey); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	const query = `DELETE FROM post WHERE id = $1 AND owner_id = $2`
	return execAffectingOne(ctx, r.db, query, id, ownerID)
}

func execAffectingOne(ctx context.Context, db *sqlx.DB, query string, args ...any) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

var _ ports.PostRepository = (*PostRepository)(nil)
