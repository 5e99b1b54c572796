package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/staybnb/webserver/internal/forms"
	"github.com/staybnb/webserver/internal/logger"
	"github.com/staybnb/webserver/internal/store"
	"github.com/staybnb/webserver/types"
)

var (
	// ErrEmailExists is returned when registering an address that is taken.
	ErrEmailExists = errors.New("email address already registered")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
}

// PasswordHasher hashes and verifies plaintext passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// UserService encapsulates user use-cases.
type UserService struct {
	repo   UserRepository
	hasher PasswordHasher
}

func NewUserService(repo UserRepository, hasher PasswordHasher) *UserService {
	return &UserService{repo: repo, hasher: hasher}
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// Register creates an account from a validated registration form. Only the
// bcrypt hash of the password is persisted.
func (s *UserService) Register(ctx context.Context, in forms.Registration) (types.User, error) {
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return types.User{}, ErrEmailExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return types.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		HouseNumber:  in.HouseNumber,
		StreetName:   in.StreetName,
		Country:      in.Country,
		PostCode:     in.PostCode,
	})
	if err != nil {
		// Lost a race with a concurrent registration of the same address.
		if errors.Is(err, store.ErrDuplicateEmail) {
			return types.User{}, ErrEmailExists
		}
		return types.User{}, err
	}

	logger.FromContext(ctx).Info().Int("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Authenticate returns the user whose email and password match.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}
