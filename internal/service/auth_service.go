package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"freshtrack/internal/auth"
	"freshtrack/internal/model"
	"freshtrack/internal/repository"

	"github.com/rs/zerolog"
)

// phonePattern matches mainland mobile numbers: 11 digits, leading 1,
// second digit 3-9.
var phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)

const minPasswordLength = 6

// authService implements AuthService.
type authService struct {
	users     repository.UserRepository
	revoker   auth.TokenRevoker
	jwtSecret string
	logger    zerolog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, revoker auth.TokenRevoker, jwtSecret string, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		revoker:   revoker,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("service", "auth").Logger(),
	}
}

// Register creates a USER account and returns it with a session token.
func (s *authService) Register(ctx context.Context, username, phone, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	phone = strings.TrimSpace(phone)

	if username == "" {
		return nil, "", model.NewValidation(model.ErrCodeMissingField, "username is required")
	}
	if len(password) < minPasswordLength {
		return nil, "", model.NewValidation(model.ErrCodeValidation, "password must be at least 6 characters")
	}
	if !phonePattern.MatchString(phone) {
		return nil, "", model.ErrInvalidPhone
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to check username")
		return nil, "", err
	}
	if existing != nil {
		return nil, "", model.ErrUsernameTaken
	}

	taken, err := s.users.PhoneInUse(ctx, phone, 0)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check phone")
		return nil, "", err
	}
	if taken {
		return nil, "", model.ErrPhoneTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, "", err
	}

	user := &model.User{
		Username:     username,
		Phone:        phone,
		PasswordHash: hash,
		Role:         model.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to create user")
		return nil, "", err
	}

	token, err := auth.GenerateToken(s.jwtSecret, user)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", username).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and returns the user with a session token. A
// missing account and a wrong password yield the same error so callers
// cannot probe for usernames.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, string, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		s.logger.Error().Err(err).Str("username", username).Msg("failed to load user")
		return nil, "", err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", model.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", model.ErrAccountDisabled
	}

	token, err := auth.GenerateToken(s.jwtSecret, user)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to issue token")
		return nil, "", err
	}

	s.logger.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	return user, token, nil
}

// ChangePassword verifies the old password and replaces it.
func (s *authService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load user")
		return err
	}
	if user == nil {
		return model.ErrUserNotFound
	}
	if !auth.CheckPassword(user.PasswordHash, oldPassword) {
		return model.NewValidation(model.ErrCodeInvalidCredentials, "incorrect old password")
	}
	if len(newPassword) < minPasswordLength {
		return model.NewValidation(model.ErrCodeValidation, "password must be at least 6 characters")
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return err
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to update password")
		return err
	}

	s.logger.Info().Int64("user_id", userID).Msg("password changed")
	return nil
}

// Logout revokes the session token identified by jti until its natural
// expiry.
func (s *authService) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	if err := s.revoker.Revoke(ctx, jti, time.Until(expiresAt)); err != nil {
		s.logger.Error().Err(err).Msg("failed to revoke token")
		return err
	}
	s.logger.Info().Str("jti", jti).Msg("token revoked")
	return nil
}

// CurrentUser retrieves the requester's own account.
func (s *authService) CurrentUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to load user")
		return nil, err
	}
	if user == nil {
		return nil, model.ErrUserNotFound
	}
	return user, nil
}
