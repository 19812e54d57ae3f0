package middleware

import (
	"context"
	"net/http"

	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
)

// Sessions resolves the session cookie once per request and stores the result
// in the context. Anonymous requests pass through with a nil session; a dead
// cookie is expired on the way out.
func Sessions(mgr *session.Manager, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r.WithContext(WithSession(ctx, nil)))
				return
			}

			sess, err := mgr.Resolve(ctx, cookie.Value)
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "session.resolve.failed", err)
				}
				sess = nil
			}
			if sess == nil {
				http.SetCookie(w, session.ExpiredCookie(cfg))
			} else {
				ctx = attachActor(ctx, logg, sess)
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, sess)))
		})
	}
}

func attachActor(ctx context.Context, logg *logger.Logger, sess *session.Session) context.Context {
	if logg == nil {
		return ctx
	}
	ctx = logg.WithSessionID(ctx, sess.ID)
	return logg.WithActorRole(ctx, string(sess.Role()))
}

// RequireAuth redirects anonymous requests to the login page.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromContext(r.Context()) == nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a subtree to the given roles. A signed-in user with the
// wrong role is sent to their own landing page, never a bare 403 wall.
func RequireRole(roles ...enums.Role) func(http.Handler) http.Handler {
	allowed := make(map[enums.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromContext(r.Context())
			if sess == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if _, ok := allowed[sess.Role()]; !ok {
				http.Redirect(w, r, sess.Role().LandingPath(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
