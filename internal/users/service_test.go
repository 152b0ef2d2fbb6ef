package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"docchat-backend/internal/shared/auth"
)

func newTestService() *Service {
	authority := auth.NewAuthority("test-secret", time.Hour, auth.NewRevocationList())
	return NewService(NewMemoryRepo(), authority)
}

func TestRegisterLoginLogout(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada Lovelace", "ada@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated user id")
	}
	if user.PasswordHash == "s3cret" {
		t.Fatal("password must not be stored in plain text")
	}

	token, logged, err := svc.Login(ctx, "ADA@example.com", "s3cret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("logged in as %q, want %q", logged.ID, user.ID)
	}

	claims, err := svc.Authority.Verify(token)
	if err != nil {
		t.Fatalf("Verify issued token: %v", err)
	}
	if claims.SubjectID != user.ID || claims.FullName != "Ada Lovelace" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	svc.Logout(token)
	if _, err := svc.Authority.Verify(token); !errors.Is(err, auth.ErrRevoked) {
		t.Fatalf("expected ErrRevoked after logout, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "dup@example.com", "pw"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(ctx, "B", "dup@example.com", "pw2"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "A", "a@example.com", "right"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
