package controllers

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/pusdatin-klh/sinta-admin-web/internal/activity"
	"github.com/pusdatin-klh/sinta-admin-web/internal/dashboard"
	"github.com/pusdatin-klh/sinta-admin-web/internal/listview"
	"github.com/pusdatin-klh/sinta-admin-web/internal/profile"
	"github.com/pusdatin-klh/sinta-admin-web/internal/reference"
	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
	"github.com/pusdatin-klh/sinta-admin-web/internal/users"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/logger"
	redisclient "github.com/pusdatin-klh/sinta-admin-web/pkg/redis"
	"github.com/pusdatin-klh/sinta-admin-web/web/middleware"
	"github.com/pusdatin-klh/sinta-admin-web/web/views"
)

const flashCookieName = "sinta_flash"

// Controllers wires the page handlers to the domain services. Services that
// talk upstream are built per request around the session-bound client.
type Controllers struct {
	Views    *views.Renderer
	Sessions *session.Manager
	Refdata  reference.Service
	States   listview.StateKeeper
	Guard    listview.MutationGuard
	Cfg      *config.Config
	Logg     *logger.Logger
}

func New(v *views.Renderer, mgr *session.Manager, cache *redisclient.Client, cfg *config.Config, logg *logger.Logger) *Controllers {
	c := &Controllers{
		Views:    v,
		Sessions: mgr,
		Refdata:  reference.NewService(mgr.Client(nil), cache),
		Cfg:      cfg,
		Logg:     logg,
	}
	// A nil *Client must stay a nil interface inside the keepers.
	if cache != nil {
		c.States = listview.NewStateKeeper(cache)
		c.Guard = listview.NewMutationGuard(cache)
	}
	return c
}

func (c *Controllers) usersService(r *http.Request) users.Service {
	sess := middleware.SessionFromContext(r.Context())
	return users.NewService(c.Sessions.Client(sess))
}

func (c *Controllers) activityService(r *http.Request) activity.Service {
	sess := middleware.SessionFromContext(r.Context())
	return activity.NewService(c.Sessions.Client(sess))
}

func (c *Controllers) dashboardService(r *http.Request) dashboard.Service {
	sess := middleware.SessionFromContext(r.Context())
	return dashboard.NewService(c.Sessions.Client(sess))
}

func (c *Controllers) profileService(r *http.Request) profile.Service {
	sess := middleware.SessionFromContext(r.Context())
	return profile.NewService(c.Sessions.Client(sess))
}

// page assembles the shared template data, consuming any pending flash.
func (c *Controllers) page(w http.ResponseWriter, r *http.Request, title, active string) views.Page {
	return views.Page{
		Title:   title,
		Active:  active,
		Session: middleware.SessionFromContext(r.Context()),
		Flash:   c.consumeFlash(w, r),
	}
}

func (c *Controllers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if c.Logg != nil {
		c.Logg.Error(r.Context(), "page.failed", err)
	}
	c.Views.RenderError(w, r, err)
}

// redirectWithFlash sets a one-shot notice cookie and redirects.
func (c *Controllers) redirectWithFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (c *Controllers) consumeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

// Pager drives the shared pagination control. Query is the pre-encoded
// filter prefix the page links must preserve.
type Pager struct {
	Current int
	Last    int
	Query   template.URL
}

func newPager(current, last int, filters url.Values) Pager {
	query := filters.Encode()
	if query != "" {
		query += "&"
	}
	return Pager{Current: current, Last: last, Query: template.URL(query)}
}

// formFailure splits an error into the banner message and per-field notes
// used when re-rendering a form.
func formFailure(err error) (string, map[string]string) {
	fields := pkgerrors.FieldErrors(err)
	if len(fields) > 0 {
		return "", fields
	}
	return pkgerrors.UserMessage(err), nil
}
