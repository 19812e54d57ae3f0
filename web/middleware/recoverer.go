package middleware

import (
	"fmt"
	"net/http"

	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
)

// ErrorRenderer renders the error page for a failed request.
type ErrorRenderer interface {
	RenderError(w http.ResponseWriter, r *http.Request, err error)
}

func Recoverer(logg *logger.Logger, renderer ErrorRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{"panic": rec})
						logg.Error(ctx, "panic.recovered", err)
					}
					wrapped := pkgerrors.Wrap(pkgerrors.CodeInternal, err, "panic")
					if renderer != nil {
						renderer.RenderError(w, r, wrapped)
						return
					}
					http.Error(w, pkgerrors.UserMessage(wrapped), http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
