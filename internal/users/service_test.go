package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/pagination"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, handler http.Handler) (Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api, err := upstream.NewClient(config.UpstreamConfig{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)
	return NewService(api.Bind("tok")), srv
}

func TestRoleFieldAbsorbsBothShapes(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"role":"kabkota"}`), &u))
	require.Equal(t, enums.RoleRegency, u.Role.Role)

	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"role":{"name":"Pusdatin"}}`), &u))
	require.Equal(t, enums.RolePusdatin, u.Role.Role)

	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"role":null}`), &u))
	require.Equal(t, enums.RoleUnknown, u.Role.Role)
}

func TestFlexBoolAbsorbsNumericFlags(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"is_active":1,"pesisir":"1"}`), &u))
	require.True(t, bool(u.IsActive))
	require.True(t, bool(u.Coastal))

	require.NoError(t, json.Unmarshal([]byte(`{"is_active":0,"pesisir":false}`), &u))
	require.False(t, bool(u.IsActive))
	require.False(t, bool(u.Coastal))
}

func TestDisplayLabelFallbackChain(t *testing.T) {
	u := User{Email: "dlh.aceh@example.go.id"}
	require.Equal(t, "dlh.aceh", u.DisplayLabel())

	u.Dinas = &Dinas{Name: "DLH Aceh"}
	require.Equal(t, "DLH Aceh", u.DisplayLabel())

	u.DisplayName = "Dinas LH Provinsi Aceh"
	require.Equal(t, "Dinas LH Provinsi Aceh", u.DisplayLabel())
}

func TestPendingUsesRoleSegment(t *testing.T) {
	var gotPath, gotQuery string
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"data":[{"id":7,"email":"x@y.id","role":"kabupaten/kota"}],"total":1,"last_page":1,"current_page":1}`))
	}))

	res, err := svc.Pending(context.Background(), enums.RoleRegency, pagination.Params{Page: 2, PerPage: 25})
	require.NoError(t, err)
	require.Equal(t, "/api/admin/kabupaten/0", gotPath)
	require.Equal(t, "page=2&per_page=25", gotQuery)
	require.Len(t, res.Data, 1)
	require.Equal(t, enums.RoleRegency, res.Data[0].EffectiveRole())

	_, err = svc.Pending(context.Background(), enums.RoleAdmin, pagination.Params{})
	require.Error(t, err, "admin has no pending listing")
}

func TestApproveRemovesFromPendingAfterRefetch(t *testing.T) {
	// The upstream double activates the account on approve; the refetched
	// pending list must no longer contain it.
	pending := map[int]bool{7: true, 8: true}
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPatch && r.URL.Path == "/api/admin/users/approve/7":
			delete(pending, 7)
			w.Write([]byte(`{"message":"User berhasil disetujui."}`))
		case r.Method == http.MethodGet && r.URL.Path == "/api/admin/provinsi/0":
			rows := make([]map[string]any, 0, len(pending))
			for id := range pending {
				rows = append(rows, map[string]any{"id": id, "email": "p@d.id", "role": "provinsi"})
			}
			json.NewEncoder(w).Encode(map[string]any{
				"data": rows, "total": len(rows), "last_page": 1, "current_page": 1,
			})
		default:
			http.NotFound(w, r)
		}
	}))

	ctx := context.Background()
	require.NoError(t, svc.Approve(ctx, 7))

	res, err := svc.Pending(ctx, enums.RoleProvince, pagination.Params{Page: 1, PerPage: 25})
	require.NoError(t, err)
	for _, u := range res.Data {
		require.NotEqual(t, 7, u.ID, "approved account must leave the pending list")
	}
}

func TestMutationsHitExpectedRoutes(t *testing.T) {
	type call struct{ method, path string }
	var calls []call
	svc, _ := newService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, call{r.Method, r.URL.Path})
		w.Write([]byte(`{}`))
	}))

	ctx := context.Background()
	require.NoError(t, svc.Reject(ctx, 4))
	require.NoError(t, svc.Delete(ctx, 5))
	require.NoError(t, svc.CreatePusdatin(ctx, CreatePusdatinRequest{
		Name: "Tim Pusdatin", Email: "p@d.id", Password: "rahasia123", PasswordConfirmation: "rahasia123",
	}))

	require.Equal(t, []call{
		{http.MethodDelete, "/api/admin/users/reject/4"},
		{http.MethodDelete, "/api/admin/users/5"},
		{http.MethodPost, "/api/admin/users/pusdatin"},
	}, calls)
}

func TestFilterApproved(t *testing.T) {
	set := []User{
		{ID: 1, Email: "aceh@dlh.id", Role: RoleField{enums.RoleProvince}},
		{ID: 2, Email: "bandung@dlh.id", Role: RoleField{enums.RoleRegency}, Dinas: &Dinas{Name: "DLH Kota Bandung"}},
		{ID: 3, Email: "pusat@pusdatin.id", Role: RoleField{enums.RolePusdatin}},
		{ID: 4, Email: "root@sinta.id", Role: RoleField{enums.RoleAdmin}},
	}

	require.Len(t, FilterApproved(set, "dlh", "provinsi", ""), 1)
	require.Len(t, FilterApproved(set, "dlh", "kabkota", ""), 1)
	require.Len(t, FilterApproved(set, "pusdatin", "", ""), 1)
	require.Len(t, FilterApproved(set, "admin", "", ""), 1)

	// Search hits email, display label and agency name, case-insensitive.
	require.Len(t, FilterApproved(set, "dlh", "kabkota", "BANDUNG"), 1)
	require.Len(t, FilterApproved(set, "dlh", "kabkota", "kota bandung"), 1)
	require.Empty(t, FilterApproved(set, "dlh", "kabkota", "aceh"))

	stats := CountStats(set)
	require.Equal(t, Stats{Total: 4, Province: 1, Regency: 1, Pusdatin: 1, Admin: 1}, stats)
}
