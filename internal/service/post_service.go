package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
	"github.com/njprem/Blog_APP_BackEnd/internal/media"
	"github.com/njprem/Blog_APP_BackEnd/internal/repository/ports"
)

const (
	maxTitleLength = 200
	maxTags        = 10
	maxTagLength   = 32

	defaultPostsLimit = 20
	maxPostsLimit     = 100

	defaultMaxCoverBytes = int64(5 * 1024 * 1024)
)

var defaultCoverMIMEs = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
}

type PostServiceConfig struct {
	Bucket            string
	MaxImageBytes     int64
	AllowedMIMETypes  []string
	ImageProcessor    media.Processor
	ImageMaxDimension int
	Logger            zerolog.Logger
}

type CoverUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type PostService struct {
	posts   ports.PostRepository
	storage ports.ObjectStorage
	logger  zerolog.Logger

	bucket            string
	maxImageBytes     int64
	allowedMIMEs      map[string]struct{}
	imageProcessor    media.Processor
	imageMaxDimension int
}

func NewPostService(posts ports.PostRepository, storage ports.ObjectStorage, cfg PostServiceConfig) *PostService {
	maxBytes := cfg.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxCoverBytes
	}
	allowed := cfg.AllowedMIMETypes
	if len(allowed) == 0 {
		allowed = defaultCoverMIMEs
	}
	mimeSet := make(map[string]struct{}, len(allowed))
	for _, mt := range allowed {
		mimeSet[strings.ToLower(strings.TrimSpace(mt))] = struct{}{}
	}
	maxDimension := cfg.ImageMaxDimension
	if maxDimension <= 0 {
		maxDimension = media.DefaultMaxDimension
	}
	return &PostService{
		posts:             posts,
		storage:           storage,
		logger:            cfg.Logger.With().Str("component", "posts").Logger(),
		bucket:            strings.TrimSpace(cfg.Bucket),
		maxImageBytes:     maxBytes,
		allowedMIMEs:      mimeSet,
		imageProcessor:    cfg.ImageProcessor,
		imageMaxDimension: maxDimension,
	}
}

func (s *PostService) Create(ctx context.Context, identity domain.Identity, input domain.PostInput) (*domain.Post, error) {
	if identity.ID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	normalized, err := normalizePostInput(input)
	if err != nil {
		return nil, err
	}
	return s.posts.Create(ctx, identity.ID, normalized)
}

// List returns the caller's own posts, newest first.
func (s *PostService) List(ctx context.Context, identity domain.Identity, limit, offset int) (*domain.PostListResult, error) {
	if identity.ID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	nLimit, nOffset := normalizePostsPagination(limit, offset)

	items, err := s.posts.ListByOwner(ctx, identity.ID, nLimit, nOffset)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.CountByOwner(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return &domain.PostListResult{
		Items:  items,
		Total:  total,
		Limit:  nLimit,
		Offset: nOffset,
	}, nil
}

func (s *PostService) Get(ctx context.Context, identity domain.Identity, id uuid.UUID) (*domain.Post, error) {
	return requireOwner(ctx, identity, id, s.posts.FindByID)
}

func (s *PostService) Update(ctx context.Context, identity domain.Identity, id uuid.UUID, input domain.PostInput) (*domain.Post, error) {
	normalized, err := normalizePostInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := requireOwner(ctx, identity, id, s.posts.FindByID); err != nil {
		return nil, err
	}
	post, err := s.posts.Update(ctx, id, identity.ID, normalized)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error {
	post, err := requireOwner(ctx, identity, id, s.posts.FindByID)
	if err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id, identity.ID); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}
	if post.CoverImageKey != nil {
		s.removeObject(ctx, *post.CoverImageKey)
	}
	return nil
}

// UploadCover replaces the cover image of a post owned by identity.
func (s *PostService) UploadCover(ctx context.Context, identity domain.Identity, id uuid.UUID, upload CoverUpload) (*domain.Post, error) {
	if s.storage == nil || s.bucket == "" {
		return nil, ErrStorageUnavailable
	}
	if err := s.validateCover(upload); err != nil {
		return nil, err
	}
	current, err := requireOwner(ctx, identity, id, s.posts.FindByID)
	if err != nil {
		return nil, err
	}

	result, err := prepareImageForUpload(ctx, s.imageProcessor, media.Upload{
		Reader:      upload.Reader,
		Size:        upload.Size,
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
	}, s.imageMaxDimension)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	objectName := fmt.Sprintf("posts/%s/cover-%s%s", id, uuid.NewString(), result.extension)
	url, err := s.storage.Upload(ctx, s.bucket, objectName, result.contentType, result.reader, result.size)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.UpdateCover(ctx, id, identity.ID, url, objectName)
	if err != nil {
		s.removeObject(ctx, objectName)
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if current.CoverImageKey != nil && *current.CoverImageKey != objectName {
		s.removeObject(ctx, *current.CoverImageKey)
	}
	return post, nil
}

func (s *PostService) validateCover(upload CoverUpload) error {
	if upload.Reader == nil || upload.Size <= 0 {
		return fmt.Errorf("%w: image is required", ErrValidation)
	}
	if upload.Size > s.maxImageBytes {
		return fmt.Errorf("%w: image exceeds size limit (%d bytes)", ErrValidation, s.maxImageBytes)
	}
	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if _, ok := s.allowedMIMEs[contentType]; !ok {
		return fmt.Errorf("%w: unsupported image type %s", ErrValidation, upload.ContentType)
	}
	return nil
}

func (s *PostService) removeObject(ctx context.Context, objectName string) {
	if s.storage == nil || s.bucket == "" {
		return
	}
	if err := s.storage.Remove(ctx, s.bucket, objectName); err != nil {
		s.logger.Warn().Err(err).Str("object", objectName).Msg("could not remove cover image")
	}
}

func normalizePostInput(input domain.PostInput) (domain.PostInput, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.PostInput{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return domain.PostInput{}, fmt.Errorf("%w: title must be at most %d characters", ErrValidation, maxTitleLength)
	}

	var body *string
	if input.Body != nil {
		if trimmed := strings.TrimSpace(*input.Body); trimmed != "" {
			body = &trimmed
		}
	}

	tags, err := normalizeTags(input.Tags)
	if err != nil {
		return domain.PostInput{}, err
	}
	return domain.PostInput{Title: title, Body: body, Tags: tags}, nil
}

func normalizeTags(raw []string) ([]string, error) {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, tag := range raw {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if utf8.RuneCountInString(tag) > maxTagLength {
			return nil, fmt.Errorf("%w: tags must be at most %d characters", ErrValidation, maxTagLength)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > maxTags {
		return nil, fmt.Errorf("%w: at most %d tags allowed", ErrValidation, maxTags)
	}
	return tags, nil
}

func normalizePostsPagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPostsLimit
	}
	if limit > maxPostsLimit {
		limit = maxPostsLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
