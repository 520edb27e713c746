package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/njprem/Blog_APP_BackEnd/internal/service"
)

const forgotPasswordMessage = "password reset email sent"

type AuthHandler struct {
	auth   *service.AuthService
	logger zerolog.Logger
}

func RegisterAuth(e *echo.Echo, auth *service.AuthService, logger zerolog.Logger) {
	h := &AuthHandler{auth: auth, logger: logger}

	g := e.Group("/api/v1/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
	g.POST("/google", h.googleLogin)
	g.GET("/me", h.me, RequireAuth(auth, logger))
	g.POST("/password/forgot", h.forgotPassword)
	g.PUT("/password/reset/:token", h.resetPassword)
}

// register godoc
// @Summary Register with username, email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "Registration payload"
// @Success 201 {object} AuthTokenResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	res, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, tokenResponse(res))
}

// login godoc
// @Summary Log in with email or username
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Login payload"
// @Success 200 {object} AuthTokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	identifier := strings.TrimSpace(req.Email)
	if identifier == "" {
		identifier = strings.TrimSpace(req.Username)
	}
	res, err := h.auth.Login(c.Request().Context(), identifier, req.Password)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, tokenResponse(res))
}

// googleLogin godoc
// @Summary Log in with a Google ID token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body GoogleLoginRequest true "Google ID token"
// @Success 200 {object} AuthTokenResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/google [post]
func (h *AuthHandler) googleLogin(c echo.Context) error {
	var req GoogleLoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	res, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, tokenResponse(res))
}

// me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AuthUserResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) me(c echo.Context) error {
	identity, ok := CurrentIdentity(c)
	if !ok {
		return writeError(c, h.logger, service.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, AuthUserResponse{User: identityToAuthUser(identity)})
}

// forgotPassword godoc
// @Summary Request a password reset email
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/auth/password/forgot [post]
func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	if err := h.auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: forgotPasswordMessage})
}

// resetPassword godoc
// @Summary Set a new password with a reset token
// @Tags Auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token from the email"
// @Param payload body ResetPasswordRequest true "New password"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/auth/password/reset/{token} [put]
func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	if err := h.auth.CompletePasswordReset(c.Request().Context(), c.Param("token"), req.NewPassword); err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func tokenResponse(res *service.AuthResult) AuthTokenResponse {
	return AuthTokenResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
		User:      toAuthUser(res.User),
	}
}
