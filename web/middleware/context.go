package middleware

import (
	"context"

	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
)

type contextKey string

const ctxSession contextKey = "web_session"

// WithSession injects the resolved session into the context.
func WithSession(ctx context.Context, sess *session.Session) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSession, sess)
}

// SessionFromContext returns the resolved session, or nil when anonymous.
func SessionFromContext(ctx context.Context) *session.Session {
	if ctx == nil {
		return nil
	}
	if sess, ok := ctx.Value(ctxSession).(*session.Session); ok {
		return sess
	}
	return nil
}
