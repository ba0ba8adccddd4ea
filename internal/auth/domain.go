package auth

import (
	"time"

	"github.com/meridian-club/meridian/internal/shared"
)

// User represents a member account as stored in the credential store.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         shared.Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Projection returns the reduced view of the account that is safe to
// place in session state. The hash never leaves the domain layer.
func (u *User) Projection() shared.UserProjection {
	return shared.UserProjection{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
