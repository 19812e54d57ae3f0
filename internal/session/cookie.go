package session

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
)

const cookieIssuer = "sinta-admin-web"

var jwtSigningMethod = jwt.SigningMethodHS256

// mintCookieValue signs a JWT whose jti is the web-session id. The cookie
// carries only the id; the session payload stays in Redis.
func mintCookieValue(cfg config.SessionConfig, sessionID string, now time.Time) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("session secret is required")
	}
	claims := jwt.RegisteredClaims{
		Issuer:    cookieIssuer,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
	}
	signed, err := jwt.NewWithClaims(jwtSigningMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}
	return signed, nil
}

// parseCookieValue validates the signed cookie and returns the session id.
func parseCookieValue(cfg config.SessionConfig, value string) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("session secret is required")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cookieIssuer),
	)
	if err != nil {
		return "", err
	}
	if claims.ID == "" {
		return "", fmt.Errorf("session cookie has no id")
	}
	return claims.ID, nil
}

// Cookie builds the http cookie carrying the signed session id.
func Cookie(cfg config.SessionConfig, value string) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredCookie builds the cookie that clears the session on the client.
func ExpiredCookie(cfg config.SessionConfig) *http.Cookie {
	return &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}
