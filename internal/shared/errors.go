package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure. The same value is
	// returned for an unknown email and for a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDuplicateUser indicates an account already exists for the email.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrSelfDemotion indicates an admin tried to demote their own account.
	ErrSelfDemotion = errors.New("cannot demote own account")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// UserSafeMessage maps a domain error to a message suitable for
// rendering. Anything unrecognized collapses to a generic line so
// infrastructure detail never reaches the browser.
func UserSafeMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email/password combination"
	case errors.Is(err, ErrDuplicateUser):
		return "An account with that email already exists"
	case errors.Is(err, ErrSelfDemotion):
		return "You cannot demote your own account"
	case errors.Is(err, ErrNotFound):
		return "The requested record does not exist"
	default:
		return "Something went wrong, please try again"
	}
}
