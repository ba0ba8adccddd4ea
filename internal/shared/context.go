package shared

import "context"

type sessionContextKey struct{}

// ContextWithSession stores the session in context.
func ContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// SessionFromContext extracts the session from context.
func SessionFromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionContextKey{}).(*Session)
	return sess
}

// CurrentUser returns the user projection attached to the request
// session, or nil when the caller is anonymous.
func CurrentUser(ctx context.Context) *UserProjection {
	sess := SessionFromContext(ctx)
	if sess == nil {
		return nil
	}
	return sess.User()
}
