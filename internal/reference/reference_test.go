package reference

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/config"
	pkgredis "github.com/pusdatin-klh/sinta-admin-web/pkg/redis"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
)

type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return "", pkgredis.ErrNotFound
	}
	return v, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value.(string)
	return nil
}

func (m *memoryCache) RefdataKey(parts ...string) string {
	return "sinta:refdata:" + strings.Join(parts, ":")
}

func testClient(t *testing.T, handler http.Handler) (*upstream.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api, err := upstream.NewClient(config.UpstreamConfig{BaseURL: srv.URL}, nil, nil)
	require.NoError(t, err)
	return api, srv
}

func TestProvincesCachesAfterFirstFetch(t *testing.T) {
	var hits int
	api, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/register/provinces", r.URL.Path)
		hits++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"31","name":"DKI Jakarta"},{"id":"32","name":"Jawa Barat"}]}`))
	}))

	svc := Service{api: api, cache: newMemoryCache()}

	first, err := svc.Provinces(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 2)
	require.Equal(t, "DKI Jakarta", first[0].Name)

	second, err := svc.Provinces(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, hits, "second call must be served from cache")
}

func TestRegenciesRequireProvince(t *testing.T) {
	api, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	svc := Service{api: api}
	_, err := svc.Regencies(context.Background(), "")
	require.Error(t, err)
}

func TestRegenciesAreScopedPerProvince(t *testing.T) {
	api, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/register/regencies/31":
			_, _ = w.Write([]byte(`{"data":[{"id":"3171","name":"Kota Jakarta Selatan"}]}`))
		case "/api/register/regencies/32":
			_, _ = w.Write([]byte(`{"data":[{"id":"3204","name":"Kabupaten Bandung"}]}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	svc := Service{api: api, cache: newMemoryCache()}

	jakarta, err := svc.Regencies(context.Background(), "31")
	require.NoError(t, err)
	require.Equal(t, "Kota Jakarta Selatan", jakarta[0].Name)

	bandung, err := svc.Regencies(context.Background(), "32")
	require.NoError(t, err)
	require.Equal(t, "Kabupaten Bandung", bandung[0].Name)
}

func TestFacilityTypesWithoutCache(t *testing.T) {
	api, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/register/jenis-dlh", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"DLH Provinsi"},{"id":2,"name":"DLH Kabupaten/Kota"}]}`))
	}))

	svc := Service{api: api}
	types, err := svc.FacilityTypes(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
	require.Equal(t, 2, types[1].ID)
}
