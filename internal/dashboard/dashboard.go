package dashboard

import (
	"context"
	"fmt"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
)

// Storage is the physical-data usage block on the admin dashboard.
type Storage struct {
	UsedMB float64 `json:"used_mb"`
	UsedGB float64 `json:"used_gb"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalActive  int      `json:"total_users_aktif"`
	TotalPending int      `json:"total_users_pending"`
	Storage      *Storage `json:"storage"`
}

// UsedMB is nil-safe for templates.
func (s Stats) UsedMB() float64 {
	if s.Storage == nil {
		return 0
	}
	return s.Storage.UsedMB
}

// UsedGB is nil-safe for templates.
func (s Stats) UsedGB() float64 {
	if s.Storage == nil {
		return 0
	}
	return s.Storage.UsedGB
}

type Service struct {
	api *upstream.Client
}

func NewService(api *upstream.Client) Service {
	return Service{api: api}
}

// Summary fetches the admin dashboard counts and storage usage.
func (s Service) Summary(ctx context.Context) (Stats, error) {
	var out Stats
	if err := s.api.Get(ctx, "/api/admin/dashboard", nil, &out); err != nil {
		return out, fmt.Errorf("loading dashboard summary: %w", err)
	}
	return out, nil
}
