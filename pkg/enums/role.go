package enums

import "strings"

// Role is the closed set of account roles recognized by the platform. The
// upstream API is normalized into this set at the boundary; no page logic
// branches on raw role strings.
type Role string

const (
	RoleAdmin    Role = "admin"
	RolePusdatin Role = "pusdatin"
	RoleProvince Role = "provinsi"
	RoleRegency  Role = "kabupaten/kota"
	RoleUnknown  Role = ""
)

var validRoles = []Role{
	RoleAdmin,
	RolePusdatin,
	RoleProvince,
	RoleRegency,
}

// ParseRole normalizes a raw role string. The regency role appears upstream
// under two spellings ("kabupaten/kota" and "kabkota", plus the bare
// "kabupaten" path segment); all collapse to RoleRegency here.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "pusdatin":
		return RolePusdatin
	case "provinsi":
		return RoleProvince
	case "kabupaten/kota", "kabkota", "kabupaten", "kota":
		return RoleRegency
	default:
		return RoleUnknown
	}
}

// IsValid reports whether the role is one of the known account roles.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsDLH reports whether the role belongs to a regional environmental agency.
func (r Role) IsDLH() bool {
	return r == RoleProvince || r == RoleRegency
}

// LandingPath returns the dashboard a user lands on after login. The mapping
// is total: every known role has exactly one route and anything else falls
// back to the public home page.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RolePusdatin:
		return "/pusdatin/dashboard"
	case RoleProvince, RoleRegency:
		return "/dinas/dashboard"
	default:
		return "/"
	}
}

// Label returns the display name used in tables and profile cards.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RolePusdatin:
		return "Pusdatin"
	case RoleProvince:
		return "DLH Provinsi"
	case RoleRegency:
		return "DLH Kab/Kota"
	default:
		return "-"
	}
}

// ShowsLocationColumns reports whether list rows for this role render the
// province/regency columns. Admin and pusdatin accounts have no region.
func (r Role) ShowsLocationColumns() bool {
	return r.IsDLH()
}

// ShowsCoastalFlag reports whether the coastal-region field applies; only
// regency-level DLH accounts carry it.
func (r Role) ShowsCoastalFlag() bool {
	return r == RoleRegency
}

// PendingPathSegment maps the role onto the upstream pending-listing path
// (`/api/admin/{provinsi|kabupaten}/0`).
func (r Role) PendingPathSegment() string {
	switch r {
	case RoleProvince:
		return "provinsi"
	case RoleRegency:
		return "kabupaten"
	default:
		return ""
	}
}
