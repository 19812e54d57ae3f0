package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pusdatin-klh/sinta-admin-web/internal/users"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
	redisclient "github.com/pusdatin-klh/sinta-admin-web/pkg/redis"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
)

// Session is the server-side record of one signed-in browser. The upstream
// bearer token never reaches the client; it lives here, in Redis.
type Session struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	User      users.User `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
}

// Role resolves the signed-in account's role.
func (s *Session) Role() enums.Role {
	if s == nil {
		return enums.RoleUnknown
	}
	return s.User.EffectiveRole()
}

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// LoginRequest is the credentials form.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the self-service DLH application. AgencyID carries the
// selected province id for a province applicant and the selected regency id
// for a regency applicant.
type RegisterRequest struct {
	Name                 string `json:"name" validate:"required,min=2"`
	Email                string `json:"email" validate:"required,email"`
	Phone                string `json:"nomor_telepon" validate:"required,numeric,min=8,max=15"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 string `json:"role" validate:"required"`
	AgencyID             string `json:"id_dinas" validate:"required"`
	AgencyCode           string `json:"kode_dinas" validate:"required"`
	ProvinceID           string `json:"province_id,omitempty"`
	RegencyID            string `json:"regency_id,omitempty"`
	Coastal              string `json:"pesisir,omitempty"`
}

type loginEnvelope struct {
	User loginUser `json:"user"`
}

type loginUser struct {
	users.User
	Token string `json:"token"`
}

// Manager owns the web-session lifecycle: login creates a record bound to the
// upstream token, Resolve hydrates it per request, Logout tears it down.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	api   *upstream.Client
	cfg   config.SessionConfig
	logg  *logger.Logger
	now   func() time.Time
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, api *upstream.Client, cfg config.SessionConfig, logg *logger.Logger) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if api == nil {
		return nil, fmt.Errorf("upstream client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &Manager{
		store: client,
		keyer: client,
		api:   api,
		cfg:   cfg,
		logg:  logg,
		now:   time.Now,
	}, nil
}

// Client returns the upstream client bound to the session's bearer token, or
// the unbound client for anonymous requests.
func (m *Manager) Client(sess *Session) *upstream.Client {
	if sess == nil || sess.Token == "" {
		return m.api
	}
	return m.api.Bind(sess.Token)
}

// Login exchanges credentials for an upstream token, persists the session
// record, and returns the signed cookie value plus the role landing route.
// An account that is not yet activated gets no session.
func (m *Manager) Login(ctx context.Context, req LoginRequest) (*Session, string, string, error) {
	var out loginEnvelope
	if err := m.api.Post(ctx, "/api/login", req, &out); err != nil {
		return nil, "", "", err
	}
	if out.User.Token == "" {
		return nil, "", "", pkgerrors.New(pkgerrors.CodeUpstream, "server tidak mengembalikan token")
	}
	if !bool(out.User.IsActive) && out.User.EffectiveRole().IsDLH() {
		return nil, "", "", pkgerrors.New(pkgerrors.CodeForbidden,
			"Akun Anda belum diaktifkan. Silakan tunggu persetujuan dari Pusdatin.")
	}

	sess := &Session{
		ID:        uuid.NewString(),
		Token:     out.User.Token,
		User:      out.User.User,
		CreatedAt: m.now(),
	}
	if err := m.persist(ctx, sess); err != nil {
		return nil, "", "", err
	}

	cookieValue, err := mintCookieValue(m.cfg, sess.ID, m.now())
	if err != nil {
		_ = m.store.Del(ctx, m.keyer.SessionKey(sess.ID))
		return nil, "", "", err
	}

	return sess, cookieValue, sess.Role().LandingPath(), nil
}

// Register submits a DLH application. A regency applicant without a selected
// province is rejected before any network call; the regency dropdown cannot
// be populated without one.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) error {
	role := enums.ParseRole(req.Role)
	if role == enums.RoleRegency {
		if strings.TrimSpace(req.ProvinceID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Pilih provinsi terlebih dahulu.").
				WithDetails(map[string]string{"province_id": "Pilih provinsi terlebih dahulu."})
		}
		if strings.TrimSpace(req.RegencyID) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "Pilih kabupaten/kota terlebih dahulu.").
				WithDetails(map[string]string{"regency_id": "Pilih kabupaten/kota terlebih dahulu."})
		}
	}
	return m.api.Post(ctx, "/api/register", req, nil)
}

// Logout revokes the upstream token best-effort and always destroys the local
// record. An upstream failure never keeps the browser signed in.
func (m *Manager) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	if err := m.Client(sess).Post(ctx, "/api/logout", nil, nil); err != nil {
		m.warn(ctx, sess.ID, "upstream logout failed", err)
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sess.ID))
}

// Resolve hydrates the session for an incoming request: load the record by
// cookie, then refresh the account from the upstream. A 401 means the token
// died server-side; the session is destroyed and the request proceeds
// logged-out. Transient upstream failures keep the cached account.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (*Session, error) {
	sessionID, err := parseCookieValue(m.cfg, cookieValue)
	if err != nil {
		return nil, nil
	}

	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	sess := &Session{}
	if err := json.Unmarshal([]byte(raw), sess); err != nil {
		_ = m.store.Del(ctx, m.keyer.SessionKey(sessionID))
		return nil, nil
	}

	var refreshed users.User
	if err := m.Client(sess).Get(ctx, "/api/user", nil, &refreshed); err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeUnauthorized {
			_ = m.store.Del(ctx, m.keyer.SessionKey(sessionID))
			return nil, nil
		}
		m.warn(ctx, sessionID, "session refresh failed, using cached account", err)
		return sess, nil
	}

	sess.User = refreshed
	if err := m.persist(ctx, sess); err != nil {
		m.warn(ctx, sessionID, "persisting refreshed session failed", err)
	}
	return sess, nil
}

// UpdateUser replaces the cached account, used after a profile edit so the
// next render shows the new values without waiting for a refresh.
func (m *Manager) UpdateUser(ctx context.Context, sess *Session, user users.User) error {
	if sess == nil {
		return fmt.Errorf("session is required")
	}
	sess.User = user
	return m.persist(ctx, sess)
}

func (m *Manager) persist(ctx context.Context, sess *Session) error {
	encoded, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return m.store.Set(ctx, m.keyer.SessionKey(sess.ID), string(encoded), m.cfg.TTL)
}

func (m *Manager) warn(ctx context.Context, sessionID, msg string, err error) {
	if m.logg == nil {
		return
	}
	ctx = m.logg.WithSessionID(ctx, sessionID)
	if err != nil {
		ctx = m.logg.WithField(ctx, "error", err.Error())
	}
	m.logg.Warn(ctx, msg)
}
