package http

import (
	"time"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
)

type PostRequest struct {
	Title string   `json:"title" validate:"required,max=200" example:"Hello, world"`
	Body  *string  `json:"body,omitempty" example:"My first post."`
	Tags  []string `json:"tags,omitempty" validate:"max=10,dive,max=32" example:"go,backend"`
}

type PostResponse struct {
	ID            string    `json:"id" example:"3c0f2a3e-9e51-4c55-9f0c-0bd8b3c1f1aa"`
	OwnerID       string    `json:"owner_id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Title         string    `json:"title" example:"Hello, world"`
	Body          *string   `json:"body,omitempty"`
	Tags          []string  `json:"tags"`
	CoverImageURL *string   `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PostEnvelope struct {
	Post PostResponse `json:"post"`
}

type Pagination struct {
	Limit  int   `json:"limit" example:"20"`
	Offset int   `json:"offset" example:"0"`
	Total  int64 `json:"total" example:"42"`
	Count  int   `json:"count" example:"20"`
}

type PostListResponse struct {
	Items      []PostResponse `json:"items"`
	Pagination Pagination     `json:"pagination"`
}

func (r PostRequest) toInput() domain.PostInput {
	return domain.PostInput{Title: r.Title, Body: r.Body, Tags: r.Tags}
}

func toPostResponse(post *domain.Post) PostResponse {
	tags := []string(post.Tags)
	if tags == nil {
		tags = []string{}
	}
	return PostResponse{
		ID:            post.ID.String(),
		OwnerID:       post.OwnerID.String(),
		Title:         post.Title,
		Body:          post.Body,
		Tags:          tags,
		CoverImageURL: post.CoverImageURL,
		CreatedAt:     post.CreatedAt.UTC(),
		UpdatedAt:     post.UpdatedAt.UTC(),
	}
}

func toPostListResponse(res *domain.PostListResult) PostListResponse {
	items := make([]PostResponse, 0, len(res.Items))
	for i := range res.Items {
		items = append(items, toPostResponse(&res.Items[i]))
	}
	return PostListResponse{
		Items: items,
		Pagination: Pagination{
			Limit:  res.Limit,
			Offset: res.Offset,
			Total:  res.Total,
			Count:  len(items),
		},
	}
}
