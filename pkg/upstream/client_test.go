package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(config.UpstreamConfig{BaseURL: baseURL}, nil, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestBindAttachesBearerHeader(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	anon := newTestClient(t, srv.URL)
	bound := anon.Bind("tok-123")

	if err := bound.Get(context.Background(), "/api/user", nil, nil); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("expected json accept header, got %q", gotAccept)
	}

	// The anonymous client is untouched by Bind.
	if anon.AuthHeader() != "" {
		t.Fatalf("anonymous client gained a token: %q", anon.AuthHeader())
	}
	if bound.Unbind().AuthHeader() != "" {
		t.Fatal("unbind must clear the header")
	}
}

func TestQueryParamsForwarded(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Get(context.Background(), "/api/admin/pusdatin/approved", map[string]string{
		"page": "2", "per_page": "15", "search": "dinas",
	}, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotQuery != "page=2&per_page=15&search=dinas" {
		t.Fatalf("unexpected query: %q", gotQuery)
	}
}

func TestUnauthorizedMapsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Post(context.Background(), "/api/login", map[string]string{"email": "a@a.com", "password": "wrong"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if pkgerrors.UserMessage(err) != "Invalid credentials" {
		t.Fatalf("expected server message, got %q", pkgerrors.UserMessage(err))
	}
}

func TestValidationErrorsKeyedPerField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"Validasi gagal.","errors":{"email":["Email sudah terdaftar."],"password":["Password minimal 8 karakter."]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Post(context.Background(), "/api/register", map[string]string{}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := pkgerrors.FieldErrors(err)
	if fields["email"] != "Email sudah terdaftar." {
		t.Fatalf("expected field detail, got %v", fields)
	}
}

func TestFieldKeyedMessageObject(t *testing.T) {
	// Some upstream controllers return message as {field: [msgs]} instead of
	// a string; both shapes must normalize the same way.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":{"email":["Email sudah terdaftar."]}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Post(context.Background(), "/api/admin/users/pusdatin", map[string]string{}, nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if pkgerrors.FieldErrors(err)["email"] != "Email sudah terdaftar." {
		t.Fatalf("expected normalized field message, got %v", pkgerrors.FieldErrors(err))
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := newTestClient(t, srv.URL)
	err := c.Get(context.Background(), "/api/user", nil, nil)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeTransport {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestGenericUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"Server sedang bermasalah."}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	err := c.Delete(context.Background(), "/api/admin/users/9", nil)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if pkgerrors.UserMessage(err) != "Server sedang bermasalah." {
		t.Fatalf("expected server message, got %q", pkgerrors.UserMessage(err))
	}
}

func TestDecodeIntoOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[{"id":"11","name":"Aceh"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	var out struct {
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := c.Get(context.Background(), "/api/register/provinces", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(out.Data) != 1 || out.Data[0].Name != "Aceh" {
		t.Fatalf("unexpected decode: %+v", out)
	}
}
