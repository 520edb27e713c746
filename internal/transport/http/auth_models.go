package http

import (
	"time"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
)

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Error  string `json:"error" example:"invalid credentials"`
	Status int    `json:"status" example:"401"`
}

// AuthUser is the public view of an account.
type AuthUser struct {
	ID        string    `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Email     string    `json:"email" example:"user@example.com"`
	Username  string    `json:"username" example:"writer42"`
	CreatedAt time.Time `json:"created_at,omitempty" example:"2024-01-01T12:00:00Z"`
}

// AuthTokenResponse is returned by endpoints that issue bearer tokens.
type AuthTokenResponse struct {
	Token     string   `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt string   `json:"expires_at" example:"2024-02-01T09:30:00Z"`
	User      AuthUser `json:"user"`
}

type AuthUserResponse struct {
	User AuthUser `json:"user"`
}

type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}

type MessageResponse struct {
	Message string `json:"message" example:"password reset email sent"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30" example:"writer42"`
	Email    string `json:"email" validate:"required,email,max=254" example:"user@example.com"`
	Password string `json:"password" validate:"required,min=8,max=128" example:"StrongPass123"`
}

// LoginRequest accepts either email or username.
type LoginRequest struct {
	Email    string `json:"email" validate:"required_without=Username" example:"user@example.com"`
	Username string `json:"username" validate:"required_without=Email" example:"writer42"`
	Password string `json:"password" validate:"required" example:"StrongPass123"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email" example:"user@example.com"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8,max=128" example:"EvenStronger456"`
}

func toAuthUser(user *domain.User) AuthUser {
	return AuthUser{
		ID:        user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC(),
	}
}

func identityToAuthUser(identity domain.Identity) AuthUser {
	return AuthUser{
		ID:       identity.ID.String(),
		Email:    identity.Email,
		Username: identity.Username,
	}
}
