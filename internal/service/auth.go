package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/useraccounts/useraccounts-go/internal/cache"
	"github.com/useraccounts/useraccounts-go/internal/crypto"
	"github.com/useraccounts/useraccounts-go/internal/model"
	"github.com/useraccounts/useraccounts-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrMalformedPayload   = errors.New("invalid decoded token payload")
)

// CredentialStore resolves an email to a stored user record. A missing user
// is reported as repository.ErrUserNotFound.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService verifies credentials and issues and checks access tokens.
// Recently resolved users are kept in a small circular cache keyed by email;
// a nil cached value marks a user known to be gone and counts as a miss.
type AuthService struct {
	store     CredentialStore
	users     *cache.Circular[*model.User]
	jwtSecret model.Secret
	jwtExpiry time.Duration
	logger    *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(store CredentialStore, users *cache.Circular[*model.User], secret model.Secret, expiry time.Duration, logger *slog.Logger) *AuthService {
	logger = logger.With("component", "auth")
	logger.Debug("initialized", "cache_size", users.Cap(), "token_expiry", expiry)

	return &AuthService{
		store:     store,
		users:     users,
		jwtSecret: secret,
		jwtExpiry: expiry,
		logger:    logger,
	}
}

// ValidateCredentials reports whether password matches the stored hash for
// email. An unknown email and a wrong password look the same to the caller.
func (s *AuthService) ValidateCredentials(ctx context.Context, email, password string) (bool, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		s.logger.Info("invalid auth attempt", "email", email)
		return false, nil
	}

	match, err := crypto.VerifyPassword(password, user.PasswordHash.Reveal())
	if err != nil {
		return false, fmt.Errorf("verifying password for user %d: %w", user.ID, err)
	}
	if !match {
		s.logger.Info("invalid auth attempt", "email", email)
	}

	return match, nil
}

// SignTemporaryToken issues an access token for the user registered under
// email. Callers are expected to have validated the credentials first.
func (s *AuthService) SignTemporaryToken(ctx context.Context, email string) (string, error) {
	user, err := s.resolveUser(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", fmt.Errorf("signing token for %s: %w", email, ErrUserNotFound)
	}

	return crypto.SignToken(model.NewTokenPayload(user), s.jwtSecret.Reveal(), s.jwtExpiry)
}

// ValidateAccessToken checks the signature and expiry of token and that it
// carries a complete identity. Verification failures wrap ErrUnauthorized;
// a verified token with missing or mistyped claims yields ErrMalformedPayload.
func (s *AuthService) ValidateAccessToken(token string) (model.TokenPayload, error) {
	payload, err := crypto.ParseToken(token, s.jwtSecret.Reveal())
	if errors.Is(err, crypto.ErrInvalidPayload) {
		s.logger.Debug("token rejected", "reason", err)
		return model.TokenPayload{}, ErrMalformedPayload
	}
	if err != nil {
		s.logger.Debug("token rejected", "reason", err)
		return model.TokenPayload{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	if !payload.WellFormed() {
		s.logger.Debug("token rejected", "reason", ErrMalformedPayload)
		return model.TokenPayload{}, ErrMalformedPayload
	}

	return payload, nil
}

// Login validates the credentials and, when they hold, issues a token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	ok, err := s.ValidateCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if !ok {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	token, err := s.SignTemporaryToken(ctx, req.Email)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{Auth: token}, nil
}

// RefreshCredentials reloads the cached record for email from the store so a
// changed password or a deleted account takes effect immediately.
func (s *AuthService) RefreshCredentials(ctx context.Context, email string) error {
	if _, cached := s.users.Search(email); !cached {
		return nil
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}
	s.users.Save(email, user)
	return nil
}

// resolveUser returns the user for email, consulting the cache before the
// store. It returns nil, nil when no such user exists.
func (s *AuthService) resolveUser(ctx context.Context, email string) (*model.User, error) {
	if user, ok := s.users.Search(email); ok && user != nil {
		return user, nil
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}

	s.users.Save(email, user)
	return user, nil
}
