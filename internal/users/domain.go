package users

import (
	"time"

	"github.com/meridian-club/meridian/internal/shared"
)

// User is the management view of an account. The password hash is
// never selected into this struct.
type User struct {
	ID        int64
	Name      string
	Email     string
	Role      shared.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleAction is a requested role transition.
type RoleAction string

// Supported role actions.
const (
	ActionPromote RoleAction = "promote"
	ActionDemote  RoleAction = "demote"
)

// Valid reports whether the action is part of the enum.
func (a RoleAction) Valid() bool {
	return a == ActionPromote || a == ActionDemote
}

// TargetRole returns the role the action assigns.
func (a RoleAction) TargetRole() shared.Role {
	if a == ActionPromote {
		return shared.RoleAdmin
	}
	return shared.RoleUser
}
