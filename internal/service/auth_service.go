package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/idtoken"

	"github.com/njprem/Blog_APP_BackEnd/internal/domain"
	"github.com/njprem/Blog_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Blog_APP_BackEnd/internal/util"
)

const (
	DefaultPasswordResetTTL = 10 * time.Minute

	usernameMinLength = 3
	usernameMaxLength = 30

	constraintEmail    = "user_account_email_key"
	constraintUsername = "user_account_username_key"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

type PasswordResetSender interface {
	SendPasswordReset(ctx context.Context, email, link string, ttl time.Duration) error
}

type googleValidateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)

type AuthConfig struct {
	PasswordResetTTL time.Duration
	// ResetLinkBaseURL is joined with "/" and the raw token to build the mailed link.
	ResetLinkBaseURL string
	GoogleAudience   string
}

type AuthService struct {
	users  ports.UserRepository
	tokens *util.JWTManager
	mailer PasswordResetSender
	logger zerolog.Logger

	validate       *validator.Validate
	resetTTL       time.Duration
	resetLinkBase  string
	googleAudience string
	validateGoogle googleValidateFunc
	now            func() time.Time
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

func NewAuthService(users ports.UserRepository, tokens *util.JWTManager, mailer PasswordResetSender, logger zerolog.Logger, cfg AuthConfig) *AuthService {
	ttl := cfg.PasswordResetTTL
	if ttl <= 0 {
		ttl = DefaultPasswordResetTTL
	}
	return &AuthService{
		users:          users,
		tokens:         tokens,
		mailer:         mailer,
		logger:         logger.With().Str("component", "auth").Logger(),
		validate:       validator.New(),
		resetTTL:       ttl,
		resetLinkBase:  strings.TrimRight(strings.TrimSpace(cfg.ResetLinkBaseURL), "/"),
		googleAudience: strings.TrimSpace(cfg.GoogleAudience),
		validateGoogle: idtoken.Validate,
		now:            time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	if err := s.validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := util.ValidatePassword(input.Password); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	hash, salt, err := util.DerivePassword(input.Password)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(ctx, email, username, hash, salt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, conflictFor(err)
		}
		return nil, err
	}
	return s.issue(user)
}

// Login accepts either an email address or a username as identifier. Unknown
// users and wrong passwords are reported identically.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*AuthResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier and password are required", ErrValidation)
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(identifier, "@") {
		user, err = s.users.FindByEmail(ctx, normalizeEmail(identifier))
	} else {
		user, err = s.users.FindByUsername(ctx, identifier)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(user)
}

// LoginWithGoogle signs in the owner of a verified Google account, creating a
// local user on first sign-in.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	if s.googleAudience == "" {
		return nil, ErrGoogleLoginDisabled
	}
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: id_token is required", ErrValidation)
	}
	payload, err := s.validateGoogle(ctx, idToken, s.googleAudience)
	if err != nil {
		return nil, ErrUnauthorized
	}
	email, _ := payload.Claims["email"].(string)
	verified, _ := payload.Claims["email_verified"].(bool)
	email = normalizeEmail(email)
	if email == "" || !verified {
		return nil, ErrUnauthorized
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.issue(user)
	case !isNotFound(err):
		return nil, err
	}

	user, err = s.createGoogleUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// Authenticate resolves a bearer token to the identity of an existing user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return domain.Identity{}, ErrUnauthorized
		}
		return domain.Identity{}, err
	}
	return user.Identity(), nil
}

// RequestPasswordReset stores a fresh reset token for the account and mails
// it. A failed delivery is logged and does not fail the request.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if err := s.validateEmail(email); err != nil {
		return err
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return err
	}
	expiresAt := s.now().Add(s.resetTTL)
	if err := s.users.SetResetToken(ctx, user.ID, util.DigestResetToken(token), expiresAt); err != nil {
		if isNotFound(err) {
			return ErrNotFound
		}
		return err
	}

	log := s.logger.With().Str("user_id", user.ID.String()).Logger()
	if s.mailer == nil {
		log.Warn().Msg("password reset requested but no mailer is configured")
		return nil
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, s.resetLink(token), s.resetTTL); err != nil {
		log.Error().Err(err).Msg("password reset email delivery failed")
		return nil
	}
	log.Info().Time("expires_at", expiresAt).Msg("password reset email sent")
	return nil
}

// CompletePasswordReset exchanges a valid reset token for a new password.
// Wrong and expired tokens are indistinguishable to the caller.
func (s *AuthService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidOrExpiredToken
	}
	if err := util.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}
	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return err
	}
	user, err := s.users.ConsumeResetToken(ctx, util.DigestResetToken(token), s.now(), hash, salt)
	if err != nil {
		if isNotFound(err) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	s.logger.Info().Str("user_id", user.ID.String()).Msg("password reset completed")
	return nil
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *AuthService) resetLink(token string) string {
	return s.resetLinkBase + "/" + token
}

func (s *AuthService) createGoogleUser(ctx context.Context, email string) (*domain.User, error) {
	secret, err := util.GenerateResetToken()
	if err != nil {
		return nil, err
	}
	hash, salt, err := util.DerivePassword(secret)
	if err != nil {
		return nil, err
	}

	base := usernameFromEmail(email)
	const attempts = 5
	for i := 0; i < attempts; i++ {
		username := base
		if i > 0 {
			username = withSuffix(base, strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
		}
		user, err := s.users.Create(ctx, email, username, hash, salt)
		if err == nil {
			s.logger.Info().Str("user_id", user.ID.String()).Msg("user created from google sign-in")
			return user, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		if violatedConstraint(err) == constraintEmail {
			// registered concurrently
			return s.users.FindByEmail(ctx, email)
		}
	}
	return nil, fmt.Errorf("%w: could not allocate a username", ErrConflict)
}

func (s *AuthService) validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if err := s.validate.Var(email, "email,max=254"); err != nil {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}
	return nil
}

func validateUsername(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", ErrValidation)
	case len(username) < usernameMinLength || len(username) > usernameMaxLength:
		return fmt.Errorf("%w: username must be between %d and %d characters", ErrValidation, usernameMinLength, usernameMaxLength)
	case !usernamePattern.MatchString(username):
		return fmt.Errorf("%w: username may only contain letters, digits, '.', '_' and '-'", ErrValidation)
	}
	return nil
}

func conflictFor(err error) error {
	switch violatedConstraint(err) {
	case constraintEmail:
		return fmt.Errorf("%w: email already registered", ErrConflict)
	case constraintUsername:
		return fmt.Errorf("%w: username already taken", ErrConflict)
	default:
		return fmt.Errorf("%w: account already exists", ErrConflict)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at >= 0 {
		local = email[:at]
	}
	var b strings.Builder
	for _, r := range local {
		if r < 128 && usernamePattern.MatchString(string(r)) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	for len(name) < usernameMinLength {
		name += "_"
	}
	if len(name) > usernameMaxLength {
		name = name[:usernameMaxLength]
	}
	return name
}

func withSuffix(base, suffix string) string {
	maxBase := usernameMaxLength - len(suffix) - 1
	if len(base) > maxBase {
		base = base[:maxBase]
	}
	return base + "-" + suffix
}
