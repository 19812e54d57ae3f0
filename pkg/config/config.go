package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig namespace for every SINTA variable.
const EnvPrefix = "SINTA"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App           AppConfig
	Upstream      UpstreamConfig
	Redis         RedisConfig
	Session       SessionConfig
	AuthRateLimit AuthRateLimitConfig
	Lists         ListConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env      string `envconfig:"SINTA_APP_ENV" required:"true"`
	Port     string `envconfig:"SINTA_APP_PORT" default:"8080"`
	LogLevel string `envconfig:"SINTA_LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the app at the remote SINTA API. The one required
// variable is the base URL; everything else has sane defaults.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"SINTA_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SINTA_UPSTREAM_TIMEOUT" default:"15s"`
}

func (u UpstreamConfig) validate() error {
	parsed, err := url.Parse(u.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid upstream base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("upstream base url must be http(s), got %q", u.BaseURL)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SINTA_REDIS_URL"`
	Address      string        `envconfig:"SINTA_REDIS_ADDR"`
	Password     string        `envconfig:"SINTA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SINTA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SINTA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SINTA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SINTA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SINTA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SINTA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type SessionConfig struct {
	CookieName   string        `envconfig:"SINTA_SESSION_COOKIE_NAME" default:"sinta_session"`
	Secret       string        `envconfig:"SINTA_SESSION_SECRET" required:"true"`
	TTL          time.Duration `envconfig:"SINTA_SESSION_TTL" default:"12h"`
	CookieSecure bool          `envconfig:"SINTA_SESSION_COOKIE_SECURE" default:"true"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SINTA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SINTA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SINTA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SINTA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SINTA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SINTA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

// ListConfig carries the per-resource page sizes used by the admin tables.
type ListConfig struct {
	PusdatinPerPage int `envconfig:"SINTA_LIST_PUSDATIN_PER_PAGE" default:"15"`
	PendingPerPage  int `envconfig:"SINTA_LIST_PENDING_PER_PAGE" default:"25"`
	ActivePerPage   int `envconfig:"SINTA_LIST_ACTIVE_PER_PAGE" default:"25"`
	LogsPerPage     int `envconfig:"SINTA_LIST_LOGS_PER_PAGE" default:"25"`
	LogsFetchLimit  int `envconfig:"SINTA_LIST_LOGS_FETCH_LIMIT" default:"100"`
	// ActiveFetchCap bounds the legacy full-set fetch on the active users page.
	ActiveFetchCap int `envconfig:"SINTA_LIST_ACTIVE_FETCH_CAP" default:"2000"`
}
