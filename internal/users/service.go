package users

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/pagination"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
)

// Service wraps the admin user-management surface of the upstream API. It is
// cheap to construct per request around a session-bound client.
type Service struct {
	api *upstream.Client
}

func NewService(api *upstream.Client) Service {
	return Service{api: api}
}

// AllApproved fetches the full approved-user set in one call. This is the
// legacy client-side strategy: acceptable only because the deployment's user
// count stays far below the cap; unbounded resources go through the
// server-side listings instead.
func (s Service) AllApproved(ctx context.Context, fetchCap int) ([]User, error) {
	if fetchCap <= 0 {
		fetchCap = 2000
	}
	var out pagination.Result[User]
	err := s.api.Get(ctx, "/api/admin/all/approved", map[string]string{
		"per_page": strconv.Itoa(fetchCap),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("listing approved users: %w", err)
	}
	return out.Data, nil
}

// ApprovedPusdatin lists active pusdatin accounts via server-side pagination.
func (s Service) ApprovedPusdatin(ctx context.Context, p pagination.Params) (pagination.Result[User], error) {
	var out pagination.Result[User]
	err := s.api.Get(ctx, "/api/admin/pusdatin/approved", p.Query(), &out)
	if err != nil {
		return out, fmt.Errorf("listing pusdatin accounts: %w", err)
	}
	return out, nil
}

// Pending lists accounts awaiting approval for one DLH role.
func (s Service) Pending(ctx context.Context, role enums.Role, p pagination.Params) (pagination.Result[User], error) {
	var out pagination.Result[User]
	segment := role.PendingPathSegment()
	if segment == "" {
		return out, pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("role %q has no pending listing", role))
	}
	err := s.api.Get(ctx, "/api/admin/"+segment+"/0", p.Query(), &out)
	if err != nil {
		return out, fmt.Errorf("listing pending %s users: %w", segment, err)
	}
	return out, nil
}

// PendingCounts returns the pending totals per DLH role for the stat tiles.
// Each count is a one-row page so only the total travels.
func (s Service) PendingCounts(ctx context.Context) (province, regency int, err error) {
	probe := pagination.Params{Page: 1, PerPage: 1}
	prov, err := s.Pending(ctx, enums.RoleProvince, probe)
	if err != nil {
		return 0, 0, err
	}
	kab, err := s.Pending(ctx, enums.RoleRegency, probe)
	if err != nil {
		return 0, 0, err
	}
	return prov.Total, kab.Total, nil
}

// Approve activates a pending account.
func (s Service) Approve(ctx context.Context, id int) error {
	if err := s.api.Patch(ctx, fmt.Sprintf("/api/admin/users/approve/%d", id), nil, nil); err != nil {
		return fmt.Errorf("approving user %d: %w", id, err)
	}
	return nil
}

// Reject deletes a pending account.
func (s Service) Reject(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/admin/users/reject/%d", id), nil); err != nil {
		return fmt.Errorf("rejecting user %d: %w", id, err)
	}
	return nil
}

// Delete removes an active account.
func (s Service) Delete(ctx context.Context, id int) error {
	if err := s.api.Delete(ctx, fmt.Sprintf("/api/admin/users/%d", id), nil); err != nil {
		return fmt.Errorf("deleting user %d: %w", id, err)
	}
	return nil
}

// CreatePusdatin provisions a pusdatin account on behalf of the admin.
func (s Service) CreatePusdatin(ctx context.Context, req CreatePusdatinRequest) error {
	req.Role = string(enums.RolePusdatin)
	req.Status = "aktif"
	if err := s.api.Post(ctx, "/api/admin/users/pusdatin", req, nil); err != nil {
		return fmt.Errorf("creating pusdatin account: %w", err)
	}
	return nil
}

// FilterApproved applies the active-users tab and search filter to a locally
// held set. Tabs mirror the page: a DLH tab split by province/regency, then
// pusdatin and admin.
func FilterApproved(users []User, tab string, subTab string, search string) []User {
	var role enums.Role
	switch tab {
	case "dlh":
		if subTab == "kabkota" {
			role = enums.RoleRegency
		} else {
			role = enums.RoleProvince
		}
	case "pusdatin":
		role = enums.RolePusdatin
	case "admin":
		role = enums.RoleAdmin
	default:
		role = enums.RoleUnknown
	}

	needle := strings.ToLower(strings.TrimSpace(search))
	var filtered []User
	for _, u := range users {
		if role != enums.RoleUnknown && u.EffectiveRole() != role {
			continue
		}
		if needle != "" && !matchesSearch(u, needle) {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered
}

func matchesSearch(u User, needle string) bool {
	if strings.Contains(strings.ToLower(u.Email), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(u.DisplayLabel()), needle) {
		return true
	}
	if u.Dinas != nil && strings.Contains(strings.ToLower(u.Dinas.Name), needle) {
		return true
	}
	return false
}
