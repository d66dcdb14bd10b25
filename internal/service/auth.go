package service

import (
	"context"
	"errors"
	"time"

	"github.com/finledger/finledger-go/internal/crypto"
	"github.com/finledger/finledger-go/internal/model"
	"github.com/finledger/finledger-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNameRequired       = errors.New("name is required")
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
)

// AuthService handles registration, login and bearer-subject resolution.
type AuthService struct {
	repo       *repository.UserRepository
	jwtSecret  string
	sessionTTL time.Duration
}

// NewAuthService creates a new AuthService. sessionTTL is the lifetime of
// tokens issued at login.
func NewAuthService(repo *repository.UserRepository, secret string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		jwtSecret:  secret,
		sessionTTL: sessionTTL,
	}
}

// Register creates a new user account. Duplicate usernames and emails are
// rejected with field-specific errors; the existing user is never touched.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	if req.Name == "" {
		return model.UserResponse{}, ErrNameRequired
	}
	if req.Username == "" {
		return model.UserResponse{}, ErrUsernameRequired
	}
	if req.Email == "" {
		return model.UserResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.UserResponse{}, ErrPasswordRequired
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return model.UserResponse{}, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.UserResponse{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return model.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.UserResponse{}, err
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.UserResponse{}, err
	}

	user := &model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	// The insert can still hit the unique constraints when two
	// registrations race past the lookups above.
	if err := s.repo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.UserResponse{}, ErrUsernameTaken
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.UserResponse{}, ErrEmailTaken
		}
		return model.UserResponse{}, err
	}

	return model.UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}, nil
}

// Login authenticates a user and issues a bearer token whose subject is the
// user's email. Unknown emails and wrong passwords are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenResponse, error) {
	if req.Email == "" || req.Password == "" {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenResponse{}, ErrInvalidCredentials
		}
		return model.TokenResponse{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.Email, s.jwtSecret, s.sessionTTL)
	if err != nil {
		return model.TokenResponse{}, err
	}

	return model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// ResolveSubject looks up the user a verified token subject refers to. The
// auth middleware treats any failure here as an unauthenticated request.
func (s *AuthService) ResolveSubject(ctx context.Context, email string) (*model.User, error) {
	return s.repo.GetByEmail(ctx, email)
}
