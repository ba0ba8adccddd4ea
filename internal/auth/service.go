package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-club/meridian/internal/shared"
)

// RegisterInput carries the validated signup form. Any role supplied
// by the client is discarded before it reaches this struct.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// bcrypt reads at most 72 bytes of input. GenerateFromPassword
// rejects anything longer outright while CompareHashAndPassword
// ignores the tail, so Register hashes the prefix to keep both
// paths consistent for passwords near the form's length ceiling.
const bcryptInputLimit = 72

// Service wraps authentication business rules.
type Service struct {
	repo       Repository
	bcryptCost int
}

// NewService constructs a new Service. The cost is clamped into
// bcrypt's supported range so a misconfigured value cannot disable
// hashing.
func NewService(repo Repository, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Register creates a new account. The role is always RoleUser; the
// duplicate check by email is a fast-path rejection only, the unique
// index in the store remains authoritative against concurrent signups.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, shared.ErrDuplicateUser
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("auth: duplicate check: %w", err)
	}

	password := []byte(input.Password)
	if len(password) > bcryptInputLimit {
		password = password[:bcryptInputLimit]
	}
	hash, err := bcrypt.GenerateFromPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, input.Name, input.Email, string(hash), shared.RoleUser)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate validates email/password credentials. The error is the
// same for an unknown email and a failed hash comparison so responses
// cannot be used to enumerate accounts.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}
