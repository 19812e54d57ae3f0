package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// AuthRateLimitPolicy defines the throttling parameters for one auth surface.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// AuthRateLimit throttles login/register form posts per IP and per email.
// The email comes from the posted form, hashed before it touches a Redis key.
// When a limit trips, the renderer re-draws the form with the notice.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger, renderer ErrorRenderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 && ip != "" {
				scope := fmt.Sprintf("ip:%s:%s", policy.normalizedName(), ip)
				if blocked(ctx, logg, store, scope, policy.window, policy.ipLimit) {
					renderLimited(w, r, renderer)
					return
				}
			}

			if policy.emailLimit > 0 {
				if err := r.ParseForm(); err == nil {
					email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
					if email != "" {
						scope := fmt.Sprintf("email:%s:%s", policy.normalizedName(), hashValue(email))
						if blocked(ctx, logg, store, scope, policy.window, policy.emailLimit) {
							renderLimited(w, r, renderer)
							return
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func blocked(ctx context.Context, logg *logger.Logger, store rateLimiterStore, scope string, window time.Duration, limit int) bool {
	count, err := store.IncrWithTTL(ctx, store.RateLimitKey(scope), window)
	if err != nil {
		// A broken counter must not lock everyone out.
		if logg != nil {
			logg.Error(ctx, "auth.rate_limit.store_failed", err)
		}
		return false
	}
	if count <= int64(limit) {
		return false
	}
	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          scope,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(window.Seconds()),
		})
		logg.Warn(logCtx, "auth.rate_limit.blocked")
	}
	return true
}

func renderLimited(w http.ResponseWriter, r *http.Request, renderer ErrorRenderer) {
	err := pkgerrors.New(pkgerrors.CodeRateLimit, "")
	if renderer != nil {
		renderer.RenderError(w, r, err)
		return
	}
	http.Error(w, pkgerrors.UserMessage(err), http.StatusTooManyRequests)
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
