package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/finledger/finledger-go/internal/crypto"
	"github.com/finledger/finledger-go/internal/model"
	"github.com/finledger/finledger-go/internal/repository"
)

func newTestAuthService() *AuthService {
	return NewAuthService(
		repository.NewUserRepository(nil),
		"test-secret",
		30*time.Minute,
	)
}

func TestRegister_EmptyName(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	if err != ErrNameRequired {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestRegister_EmptyUsername(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	if err != ErrUsernameRequired {
		t.Errorf("expected ErrUsernameRequired, got %v", err)
	}
}

func TestRegister_EmptyEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Name:     "Alice",
		Username: "alice",
		Password: "password123",
	})

	if err != ErrEmailRequired {
		t.Errorf("expected ErrEmailRequired, got %v", err)
	}
}

func TestRegister_EmptyPassword(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
	})

	if err != ErrPasswordRequired {
		t.Errorf("expected ErrPasswordRequired, got %v", err)
	}
}

func newMockAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewAuthService(repository.NewUserRepository(db), "test-secret", 30*time.Minute), mock
}

func userColumns() []string {
	return []string{"id", "name", "username", "email", "password_hash", "created_at"}
}

func TestRegister_DuplicateEmailDoesNotWrite(t *testing.T) {
	svc, mock := newMockAuthService(t)

	// Username is free, email is taken: registration must fail before any
	// insert, leaving the existing user untouched.
	mock.ExpectQuery("SELECT (.+) FROM users WHERE username").
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows(userColumns()))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "Alice", "alice", "alice@example.com", "hashed", time.Now()))

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Name:     "Bob",
		Username: "bob",
		Email:    "alice@example.com",
		Password: "password123",
	})

	if err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no insert expected for duplicate email: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, mock := newMockAuthService(t)

	hash, err := crypto.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "Alice", "alice", "alice@example.com", hash, time.Now()))

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}

	if resp.TokenType != "bearer" {
		t.Errorf("Login() TokenType = %q, want %q", resp.TokenType, "bearer")
	}

	claims, err := crypto.ValidateToken(resp.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("token Subject = %q, want the user's email", claims.Subject)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, mock := newMockAuthService(t)

	hash, err := crypto.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(1, "Alice", "alice", "alice@example.com", hash, time.Now()))

	_, err = svc.Login(context.Background(), model.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})

	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})

	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_EmptyFields(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{})

	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}
