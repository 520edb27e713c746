package http

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
	"github.com/njprem/Blog_APP_BackEnd/internal/service"
)

const (
	coverFormField   = "image"
	defaultListLimit = 20
)

// PostManager is implemented by *service.PostService.
type PostManager interface {
	Create(ctx context.Context, identity domain.Identity, input domain.PostInput) (*domain.Post, error)
	List(ctx context.Context, identity domain.Identity, limit, offset int) (*domain.PostListResult, error)
	Get(ctx context.Context, identity domain.Identity, id uuid.UUID) (*domain.Post, error)
	Update(ctx context.Context, identity domain.Identity, id uuid.UUID, input domain.PostInput) (*domain.Post, error)
	Delete(ctx context.Context, identity domain.Identity, id uuid.UUID) error
	UploadCover(ctx context.Context, identity domain.Identity, id uuid.UUID, upload service.CoverUpload) (*domain.Post, error)
}

var _ PostManager = (*service.PostService)(nil)

type PostHandler struct {
	posts  PostManager
	logger zerolog.Logger
}

func RegisterPosts(e *echo.Echo, auth Authenticator, posts PostManager, logger zerolog.Logger) {
	h := &PostHandler{posts: posts, logger: logger}

	g := e.Group("/api/v1/posts", RequireAuth(auth, logger))
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PUT("/:id/cover", h.uploadCover)
}

// create godoc
// @Summary Create a post
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body PostRequest true "Post"
// @Success 201 {object} PostEnvelope
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/posts [post]
func (h *PostHandler) create(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return writeError(c, h.logger, service.ErrUnauthorized)
	}
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	post, err := h.posts.Create(c.Request().Context(), identity, req.toInput())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, PostEnvelope{Post: toPostResponse(post)})
}

// list godoc
// @Summary List my posts
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} PostListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/posts [get]
func (h *PostHandler) list(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return writeError(c, h.logger, service.ErrUnauthorized)
	}
	limit, offset := parsePagination(c, defaultListLimit, 0)
	res, err := h.posts.List(c.Request().Context(), identity, limit, offset)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toPostListResponse(res))
}

// get godoc
// @Summary Get one of my posts
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} PostEnvelope
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/posts/{id} [get]
func (h *PostHandler) get(c echo.Context) error {
	identity, id, err := h.target(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	post, err := h.posts.Get(c.Request().Context(), identity, id)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, PostEnvelope{Post: toPostResponse(post)})
}

// update godoc
// @Summary Replace title, body and tags of one of my posts
// @Tags Posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param payload body PostRequest true "Post"
// @Success 200 {object} PostEnvelope
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/posts/{id} [put]
func (h *PostHandler) update(c echo.Context) error {
	identity, id, err := h.target(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	var req PostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	post, err := h.posts.Update(c.Request().Context(), identity, id, req.toInput())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, PostEnvelope{Post: toPostResponse(post)})
}

// delete godoc
// @Summary Delete one of my posts
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) delete(c echo.Context) error {
	identity, id, err := h.target(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if err := h.posts.Delete(c.Request().Context(), identity, id); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

// uploadCover godoc
// @Summary Upload a cover image
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param image formData file true "Cover image (jpeg, png or webp)"
// @Success 200 {object} PostEnvelope
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /api/v1/posts/{id}/cover [put]
func (h *PostHandler) uploadCover(c echo.Context) error {
	identity, id, err := h.target(c)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	fileHeader, err := c.FormFile(coverFormField)
	if err != nil {
		return writeError(c, h.logger, fmt.Errorf("%w: %s file is required", service.ErrValidation, coverFormField))
	}
	src, err := fileHeader.Open()
	if err != nil {
		return writeError(c, h.logger, fmt.Errorf("%w: unable to read upload", service.ErrValidation))
	}
	defer src.Close()

	post, err := h.posts.UploadCover(c.Request().Context(), identity, id, service.CoverUpload{
		Reader:      src,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(echo.HeaderContentType),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, PostEnvelope{Post: toPostResponse(post)})
}

// target returns the caller and the post id from the path.
func (h *PostHandler) target(c echo.Context) (domain.Identity, uuid.UUID, error) {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return domain.Identity{}, uuid.Nil, service.ErrUnauthorized
	}
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		// a malformed id cannot name an existing post
		return domain.Identity{}, uuid.Nil, service.ErrNotFound
	}
	return identity, id, nil
}

func parsePagination(c echo.Context, defaultLimit, defaultOffset int) (int, int) {
	limit := defaultLimit
	offset := defaultOffset
	if v := strings.TrimSpace(c.QueryParam("limit")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if v := strings.TrimSpace(c.QueryParam("offset")); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
