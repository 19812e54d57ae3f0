package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/metrics"
)

var errBaseURLRequired = errors.New("upstream base url is required")

// Client is the single configured wrapper around the remote SINTA API. A bare
// client performs unauthenticated calls; Bind derives a per-session client
// that attaches the bearer token to every request.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
	metrics *metrics.UpstreamMetrics
	token   string
}

// NewClient initializes the wrapper and validates the base URL.
func NewClient(cfg config.UpstreamConfig, logg *logger.Logger, m *metrics.UpstreamMetrics) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		logg:    logg,
		metrics: m,
	}, nil
}

// Bind returns a derived client carrying the bearer token as a default header
// for the lifetime of the session. The original client is not mutated.
func (c *Client) Bind(token string) *Client {
	if c == nil {
		return nil
	}
	bound := *c
	bound.token = strings.TrimSpace(token)
	return &bound
}

// Unbind drops the bearer token, returning the anonymous client.
func (c *Client) Unbind() *Client {
	return c.Bind("")
}

// AuthHeader reports the Authorization header attached to outgoing requests,
// empty when the client is unauthenticated.
func (c *Client) AuthHeader() string {
	if c == nil || c.token == "" {
		return ""
	}
	return "Bearer " + c.token
}

// Token returns the raw bearer token bound to this client.
func (c *Client) Token() string {
	if c == nil {
		return ""
	}
	return c.token
}

func (c *Client) Get(ctx context.Context, path string, query map[string]string, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		values := url.Values{}
		for k, v := range query {
			if v != "" {
				values.Set(k, v)
			}
		}
		if encoded := values.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building upstream request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h := c.AuthHeader(); h != "" {
		req.Header.Set("Authorization", h)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveCall(path, method, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(path, string(pkgerrors.CodeTransport))
		if c.logg != nil {
			c.logg.Error(ctx, "upstream.transport_error", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(path, string(pkgerrors.CodeTransport))
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "")
	}

	if resp.StatusCode >= 400 {
		typed := c.mapError(resp.StatusCode, raw)
		c.metrics.IncFailure(path, string(typed.Code()))
		if c.logg != nil {
			fields := map[string]any{"status": resp.StatusCode, "path": path, "method": method}
			c.logg.Error(c.logg.WithFields(ctx, fields), "upstream.request_failed", typed)
		}
		return typed
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "respons server tidak dapat dibaca")
	}
	return nil
}

// errorEnvelope matches the two failure shapes the upstream API produces:
// a plain message, a message object keyed per field, or an errors map.
type errorEnvelope struct {
	Message json.RawMessage     `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (c *Client) mapError(status int, raw []byte) *pkgerrors.Error {
	var env errorEnvelope
	_ = json.Unmarshal(raw, &env)

	message := ""
	fieldErrors := map[string]string{}

	if len(env.Message) > 0 {
		var plain string
		if err := json.Unmarshal(env.Message, &plain); err == nil {
			message = plain
		} else {
			var keyed map[string][]string
			if err := json.Unmarshal(env.Message, &keyed); err == nil {
				for field, msgs := range keyed {
					if len(msgs) > 0 {
						fieldErrors[field] = msgs[0]
					}
				}
			}
		}
	}
	for field, msgs := range env.Errors {
		if len(msgs) > 0 {
			fieldErrors[field] = msgs[0]
		}
	}

	if message == "" && len(fieldErrors) > 0 {
		parts := make([]string, 0, len(fieldErrors))
		for _, msg := range fieldErrors {
			parts = append(parts, msg)
		}
		message = strings.Join(parts, ", ")
	}

	switch {
	case status == http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, message)
	case status == http.StatusForbidden:
		return pkgerrors.New(pkgerrors.CodeForbidden, message)
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, message)
	case status == http.StatusTooManyRequests:
		return pkgerrors.New(pkgerrors.CodeRateLimit, message)
	case len(fieldErrors) > 0:
		return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(fieldErrors)
	default:
		return pkgerrors.New(pkgerrors.CodeUpstream, message)
	}
}

// String renders the client target for startup logs.
func (c *Client) String() string {
	return fmt.Sprintf("upstream(%s)", c.baseURL)
}
