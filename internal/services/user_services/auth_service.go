// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/okizari/go-threadchat/internal/auth"
	"github.com/okizari/go-threadchat/internal/domain"
	"github.com/okizari/go-threadchat/internal/repository/user"
)

var (
	// ErrInvalidInput covers empty credential fields on registration.
	ErrInvalidInput = errors.New("username and password are required")
	// ErrInvalidCredentials is deliberately generic: it never says which
	// field was wrong.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey string
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: jwtSecretKey,
		logger:       logger,
	}
}

// Register trims and stores the credential pair. Registering an existing
// username replaces its stored hash; the previous password stops working.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		s.logger.Warn("registration with empty credentials",
			"has_username", username != "",
			"has_password", password != "")
		return nil, ErrInvalidInput
	}

	u := &domain.User{Username: username}
	if err := u.HashPassword(password); err != nil {
		s.logger.Error("password hashing failed",
			"username", redact(username), "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	registered, err := s.userRepo.Upsert(ctx, u)
	if err != nil {
		s.logger.Error("user registration failed",
			"username", redact(username), "error", err)
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", "username", redact(username), "user_id", registered.ID)
	return registered, nil
}

// Verify reports whether the credential pair matches. Unknown usernames and
// wrong passwords both come back (false, nil); only storage trouble is an
// error.
func (s *AuthService) Verify(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return false, nil
	}

	u, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		s.logger.Warn("login failed - invalid password",
			"username", redact(username), "user_id", u.ID)
		return false, nil
	}

	return true, nil
}

// Login verifies the credentials and issues the session token the presenter
// carries as its trust flag for the rest of the interactive session.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)

	ok, err := s.Verify(ctx, username, password)
	if err != nil {
		s.logger.Error("login verification failed", "username", redact(username), "error", err)
		return "", err
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(username, []byte(s.jwtSecretKey))
	if err != nil {
		s.logger.Error("JWT token generation failed", "username", redact(username), "error", err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "username", redact(username))
	return token, nil
}

// ValidateSessionToken checks a session token and returns its username.
func (s *AuthService) ValidateSessionToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errors.New("empty token")
	}
	return auth.ValidateToken(tokenString, []byte(s.jwtSecretKey))
}

func redact(username string) string {
	return username[:min(4, len(username))] + "****"
}
