package reference

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/redis"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
)

// cacheTTL bounds how long lookup tables live in Redis. The lists change
// rarely; once per session is the intent, a short TTL is the mechanism.
const cacheTTL = 15 * time.Minute

// Province and Regency are region lookup rows. The upstream contract exposes
// a `name` field; the regency listing is always the province-filtered
// endpoint, never the unfiltered set.
type Province struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Regency struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FacilityType is the jenis-dlh lookup row.
type FacilityType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type envelope[T any] struct {
	Data []T `json:"data"`
}

type cacheStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	RefdataKey(parts ...string) string
}

// Service resolves reference lists through a Redis-backed cache. A nil cache
// degrades to direct upstream fetches.
type Service struct {
	api   *upstream.Client
	cache cacheStore
}

func NewService(api *upstream.Client, cache *redis.Client) Service {
	if cache == nil {
		return Service{api: api}
	}
	return Service{api: api, cache: cache}
}

// Provinces returns the province lookup table.
func (s Service) Provinces(ctx context.Context) ([]Province, error) {
	return fetchCached[Province](ctx, s, "/api/register/provinces", "provinces")
}

// Regencies returns the regencies of one province. An empty province id is a
// caller bug: the unfiltered listing is not part of the contract.
func (s Service) Regencies(ctx context.Context, provinceID string) ([]Regency, error) {
	if provinceID == "" {
		return nil, errors.New("province id is required for the regency listing")
	}
	return fetchCached[Regency](ctx, s, "/api/register/regencies/"+provinceID, "regencies", provinceID)
}

// FacilityTypes returns the jenis-dlh lookup table.
func (s Service) FacilityTypes(ctx context.Context) ([]FacilityType, error) {
	return fetchCached[FacilityType](ctx, s, "/api/register/jenis-dlh", "jenis_dlh")
}

func fetchCached[T any](ctx context.Context, s Service, path string, keyParts ...string) ([]T, error) {
	var key string
	if s.cache != nil {
		key = s.cache.RefdataKey(keyParts...)
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var rows []T
			if err := json.Unmarshal([]byte(raw), &rows); err == nil {
				return rows, nil
			}
			// A corrupt cache entry falls through to a fresh fetch.
		}
	}

	var out envelope[T]
	if err := s.api.Get(ctx, path, nil, &out); err != nil {
		return nil, fmt.Errorf("loading reference list %s: %w", path, err)
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(out.Data); err == nil {
			// Cache write failures are non-fatal; the next request refetches.
			_ = s.cache.Set(ctx, key, string(encoded), cacheTTL)
		}
	}
	return out.Data, nil
}
