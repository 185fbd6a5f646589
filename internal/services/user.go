package services

import (
	"context"
	"errors"
	"strings"

	"github.com/constante/apiserver/internal/store"
	"github.com/constante/apiserver/types"
)

const (
	minPasswordLength = 8

	msgEmailTaken = "The email has already been registered."
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer signs bearer tokens for a subject.
type TokenIssuer interface {
	Generate(subject string) (string, error)
}

// RegisterInput is the payload of a registration.
type RegisterInput struct {
	Email    string
	Password string
	Username string
}

// UserService encapsulates registration, login and profile lookup.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewUserService(repo UserRepository, hasher PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{repo: repo, hasher: hasher, tokens: tokens}
}

// Register stores a new user with a hashed password. Registration does not
// sign the user in.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (types.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return types.User{}, Invalid("email", "must be a valid email address")
	}
	if len(in.Password) < minPasswordLength {
		return types.User{}, Invalid("password", "must be at least %d characters", minPasswordLength)
	}
	if in.Username == "" {
		return types.User{}, Invalid("username", "is required")
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return types.User{}, err
	}
	if exists {
		return types.User{}, &ConflictError{Message: msgEmailTaken}
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hashed,
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same email.
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, &ConflictError{Message: msgEmailTaken}
		}
		return types.User{}, err
	}
	return user, nil
}

// Login verifies credentials and issues a token whose subject is the email.
func (s *UserService) Login(ctx context.Context, email, password string) (types.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return types.LoginResponse{}, Invalid("email", "is required")
	}
	if password == "" {
		return types.LoginResponse{}, Invalid("password", "is required")
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.LoginResponse{}, ErrInvalidCredentials
		}
		return types.LoginResponse{}, err
	}
	if !s.hasher.Verify(user.PasswordHash, password) {
		return types.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.Email)
	if err != nil {
		return types.LoginResponse{}, err
	}

	return types.LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}, nil
}

// Me returns the stored profile behind an authenticated email.
func (s *UserService) Me(ctx context.Context, email string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, NotFound("User", email)
		}
		return types.User{}, err
	}
	return user, nil
}
