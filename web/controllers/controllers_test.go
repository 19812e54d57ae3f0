package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	redisclient "github.com/pusdatin-klh/sinta-admin-web/pkg/redis"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
	"github.com/pusdatin-klh/sinta-admin-web/web/views"
)

func testControllers(t *testing.T, handler http.Handler) *Controllers {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api, err := upstream.NewClient(config.UpstreamConfig{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)

	cfg := &config.Config{
		Session: config.SessionConfig{
			CookieName: "sinta_session",
			Secret:     "test-secret",
			TTL:        time.Hour,
		},
		Lists: config.ListConfig{
			PusdatinPerPage: 15,
			PendingPerPage:  25,
			ActivePerPage:   25,
			LogsPerPage:     25,
			LogsFetchLimit:  100,
			ActiveFetchCap:  2000,
		},
	}

	// The store never answers in these tests; every exercised path stays in
	// front of the first Redis write.
	mgr, err := session.NewManager(new(redisclient.Client), api, cfg.Session, nil)
	require.NoError(t, err)

	renderer, err := views.NewRenderer(nil)
	require.NoError(t, err)

	return New(renderer, mgr, nil, cfg, nil)
}

func TestLoginFailureRendersBannerWithoutRedirect(t *testing.T) {
	ctrl := testControllers(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))

	form := url.Values{"email": {"a@klh.go.id"}, "password": {"wrong"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	ctrl.Login(w, r)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, w.Header().Get("Location"), "failure must not redirect")
	require.Contains(t, w.Body.String(), "Invalid credentials")
	require.Contains(t, w.Body.String(), `value="a@klh.go.id"`, "email survives the re-render")
}

func TestRegisterRegencyWithoutProvinceNeverPosts(t *testing.T) {
	ctrl := testControllers(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Fatalf("registration must not reach the upstream: %s", r.URL.Path)
		}
		// Reference lists for the re-rendered form.
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"31","name":"DKI Jakarta"}]}`))
	}))

	form := url.Values{
		"name":                  {"Dinas LH Kota Bandung"},
		"email":                 {"dlh@bandung.go.id"},
		"nomor_telepon":         {"0221234567"},
		"password":              {"rahasia-123"},
		"password_confirmation": {"rahasia-123"},
		"kode_dinas":            {"DLH-3204"},
		"regency_id":            {"3204"},
		"pesisir":               {"0"},
	}
	r := httptest.NewRequest(http.MethodPost, "/register?role=kota", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	ctrl.Register(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Pilih provinsi terlebih dahulu.")
}

func TestRegisterSuccessRedirectsToLogin(t *testing.T) {
	ctrl := testControllers(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/register", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
	}))

	form := url.Values{
		"name":                  {"Dinas LH Provinsi Jawa Barat"},
		"email":                 {"dlh@jabar.go.id"},
		"nomor_telepon":         {"0221234567"},
		"password":              {"rahasia-123"},
		"password_confirmation": {"rahasia-123"},
		"kode_dinas":            {"DLH-32"},
		"province_id":           {"32"},
	}
	r := httptest.NewRequest(http.MethodPost, "/register?role=provinsi", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	ctrl.Register(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/login?as=provinsi", w.Header().Get("Location"))
}

func TestHomeRendersPublicLanding(t *testing.T) {
	ctrl := testControllers(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no upstream call expected")
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	ctrl.Home(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Daftar Akun Provinsi")
	require.Contains(t, w.Body.String(), "Daftar Akun Kab/Kota")
}
