package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/isdelr/geo-auth-be/internal/auth"
	"github.com/isdelr/geo-auth-be/internal/models"
	"github.com/isdelr/geo-auth-be/internal/store"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Signup(ctx context.Context, in SignupInput) (models.User, error)
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
}

// TokenIssuer issues session tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (token string, expiresAt time.Time, err error)
}

// LoginResult is what a successful login hands back to the transport layer.
// Token is meant for a cookie, never for the response body.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.PublicUser
}

// UserService implements the signup and login flows.
type UserService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, tokens TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, tokens: tokens}
}

// Signup registers a new user. No token is issued; the client logs in
// separately.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}

	_, err := s.users.FindByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return models.User{}, ErrDuplicateUser
	case !errors.Is(err, store.ErrNotFound):
		return models.User{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrHashFailure, err)
	}

	user := models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if loc, ok := in.Location.Complete(); ok {
		user.Location = loc
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, store.ErrDuplicateKey) {
			return models.User{}, ErrDuplicateUser
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return created, nil
}

// Login verifies credentials, records the supplied location and issues a
// session token. Unknown email and wrong password return the same error.
func (s *UserService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if err := validateInput(in); err != nil {
		return LoginResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %w", ErrHashFailure, err)
	}
	if !ok {
		return LoginResult{}, ErrInvalidCredentials
	}

	if loc, ok := in.Location.Complete(); ok {
		user.Location = loc
		if user, err = s.users.Save(ctx, user); err != nil {
			return LoginResult{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
		}
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, fmt.Errorf("%w: %w", ErrTokenFailure, err)
	}

	return LoginResult{Token: token, ExpiresAt: expiresAt, User: user.Public()}, nil
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
	return user, nil
}

var _ TokenIssuer = (*auth.TokenIssuer)(nil)
