package activity

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
)

// Visual buckets the raw status strings into the badge rendered per row.
type Visual string

const (
	VisualSuccess Visual = "success"
	VisualWarning Visual = "warning"
	VisualError   Visual = "error"
	VisualInfo    Visual = "info"
)

// rawEntry is the upstream log shape.
type rawEntry struct {
	ID           int    `json:"id"`
	User         string `json:"user"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Action       string `json:"action"`
	Target       string `json:"target"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	ProvinceName string `json:"province_name"`
	RegencyName  string `json:"regency_name"`
}

// Entry is the normalized, read-only activity row. Entries are never mutated
// client-side.
type Entry struct {
	ID       int
	User     string
	Role     enums.Role
	Action   string
	Target   string
	Time     string
	Status   string
	Visual   Visual
	Province string
	Regency  string
}

type listResponse struct {
	Data []rawEntry `json:"data"`
}

// Service reads the system activity log.
type Service struct {
	api *upstream.Client
}

func NewService(api *upstream.Client) Service {
	return Service{api: api}
}

// System fetches the most recent activity entries, normalized on receipt.
func (s Service) System(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	var out listResponse
	err := s.api.Get(ctx, "/api/admin/logs/system", map[string]string{
		"limit": strconv.Itoa(limit),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("listing system logs: %w", err)
	}

	entries := make([]Entry, 0, len(out.Data))
	for _, raw := range out.Data {
		entries = append(entries, normalize(raw))
	}
	return entries, nil
}

func normalize(raw rawEntry) Entry {
	return Entry{
		ID:       raw.ID,
		User:     raw.User,
		Role:     enums.ParseRole(raw.Role),
		Action:   raw.Action,
		Target:   raw.Target,
		Time:     formatTime(raw.Time),
		Status:   raw.Status,
		Visual:   classifyStatus(raw.Status),
		Province: raw.ProvinceName,
		Regency:  raw.RegencyName,
	}
}

func classifyStatus(status string) Visual {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "approved", "success", "terdaftar", "approve":
		return VisualSuccess
	case "pending", "process", "draft":
		return VisualWarning
	case "rejected", "error", "failed", "reject", "delete":
		return VisualError
	default:
		return VisualInfo
	}
}

var jakarta = mustLoadJakarta()

func mustLoadJakarta() *time.Location {
	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		return time.FixedZone("WIB", 7*3600)
	}
	return loc
}

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// formatTime renders an upstream timestamp in Jakarta local time; a value
// that does not parse is shown as-is.
func formatTime(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	t = t.In(jakarta)
	return fmt.Sprintf("%d %s %d %02d.%02d WIB",
		t.Day(), indonesianMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// Stats are the per-category tallies shown above the log table.
type Stats struct {
	Total    int
	Province int
	Regency  int
	Pusdatin int
	Admin    int
}

// CountStats tallies the tab tiles from a normalized entry set.
func CountStats(entries []Entry) Stats {
	s := Stats{Total: len(entries)}
	for _, e := range entries {
		switch e.Role {
		case enums.RoleProvince:
			s.Province++
		case enums.RoleRegency:
			s.Regency++
		case enums.RolePusdatin:
			s.Pusdatin++
		default:
			// Unknown actors count as admin, matching the reference UI.
			s.Admin++
		}
	}
	return s
}

// Filter keeps the entries for one tab (dlh with a provinsi/kabkota sub-tab,
// pusdatin, or admin).
func Filter(entries []Entry, tab, subTab string) []Entry {
	var keep func(Entry) bool
	switch tab {
	case "dlh":
		role := enums.RoleProvince
		if subTab == "kabkota" {
			role = enums.RoleRegency
		}
		keep = func(e Entry) bool { return e.Role == role }
	case "pusdatin":
		keep = func(e Entry) bool { return e.Role == enums.RolePusdatin }
	case "admin":
		keep = func(e Entry) bool { return e.Role == enums.RoleAdmin || e.Role == enums.RoleUnknown }
	default:
		return entries
	}

	var filtered []Entry
	for _, e := range entries {
		if keep(e) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
