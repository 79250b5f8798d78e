package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// AuthService handles account registration and sign-in.
//
// Two paths feed it: local email/password accounts (bcrypt via
// PasswordService) and GitHub OAuth (the handler exchanges the code, then
// calls LoginGitHub with the profile). Both end with the handler issuing a
// JWT via TokenService.
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates a local account. Returns ErrConflict if the email is
// already registered.
func (s *AuthService) Register(ctx context.Context, login, email, password string) (*model.User, error) {
	login = strings.TrimSpace(login)
	email = strings.ToLower(strings.TrimSpace(email))

	if login == "" {
		return nil, apperror.ValidationFailed("login", "login is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "a valid email address is required")
	}
	if len(password) < 8 {
		return nil, apperror.ValidationFailed("password", "password must be at least 8 characters")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
		}
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Login:        login,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("login", user.Login),
	)
	return user, nil
}

// Login verifies an email/password pair. A missing account and a wrong
// password both come back as the same Unauthorized error, so the response
// does not reveal which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if user.PasswordHash == "" {
		// OAuth-only account — there is no password to check.
		return nil, apperror.Unauthorized("invalid email or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}

	s.logger.Info("user logged in", slog.String("id", user.ID))
	return user, nil
}

// LoginGitHub upserts the user record for a completed GitHub OAuth exchange
// and returns it. Profile fields are refreshed on every login.
func (s *AuthService) LoginGitHub(ctx context.Context, gh *auth.GitHubUser) (*model.User, error) {
	user := &model.User{
		Login:     gh.Login,
		Email:     strings.ToLower(gh.Email),
		GitHubID:  gh.ID,
		AvatarURL: gh.AvatarURL,
	}
	if err := s.users.UpsertGitHub(ctx, user); err != nil {
		s.logger.Error("failed to upsert GitHub user",
			slog.Int64("github_id", gh.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("upserting GitHub user: %w", err)
	}

	s.logger.Info("user logged in via GitHub",
		slog.String("id", user.ID),
		slog.String("login", user.Login),
	)
	return user, nil
}

// GetUser returns the user with the given internal ID.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}
