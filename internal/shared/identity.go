package shared

// Role is the privilege level attached to a user account.
type Role string

// Known roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserProjection is the subset of a user record considered safe to
// carry in session state and display contexts. It never includes the
// password hash.
type UserProjection struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the projected user holds the admin role.
func (u *UserProjection) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
