package users

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"docchat-backend/internal/shared/auth"
)

// ErrInvalidCredentials covers both unknown email and wrong password, so a
// login failure does not leak which one it was.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service contains account and session business logic.
type Service struct {
	Repo      Repo
	Authority *auth.Authority
}

func NewService(repo Repo, authority *auth.Authority) *Service {
	return &Service{Repo: repo, Authority: authority}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, fullName, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return User{}, errors.New("email and password are required")
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", User{}, ErrInvalidCredentials
		}
		return "", User{}, err
	}
	if user.PasswordHash == "" {
		return "", User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", User{}, ErrInvalidCredentials
	}

	token, err := s.Authority.Issue(user.ID, user.FullName, 0)
	if err != nil {
		return "", User{}, err
	}
	return token, user, nil
}

// Logout revokes the presented token. Safe to call with any string.
func (s *Service) Logout(token string) {
	s.Authority.Revoke(token)
}

// GetByID returns the stored account.
func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpsertFromOAuth persists an OAuth identity so uploads have a stable owner.
func (s *Service) UpsertFromOAuth(ctx context.Context, user User) error {
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	return s.Repo.Upsert(ctx, user)
}
