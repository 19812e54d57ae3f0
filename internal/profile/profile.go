package profile

import (
	"context"

	"github.com/pusdatin-klh/sinta-admin-web/internal/users"
	"github.com/pusdatin-klh/sinta-admin-web/pkg/upstream"
)

// UpdateRequest carries the editable account fields. Empty optional fields
// are omitted from the payload so the upstream keeps the stored value.
type UpdateRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"nomor_telepon,omitempty" validate:"omitempty,numeric,min=8,max=15"`
}

// PasswordRequest changes the account password. The upstream re-checks the
// current password; the confirmation match is validated before the call.
type PasswordRequest struct {
	Current      string `json:"current_password" validate:"required"`
	New          string `json:"password" validate:"required,min=8"`
	Confirmation string `json:"password_confirmation" validate:"required,eqfield=New"`
}

type profileEnvelope struct {
	Data users.User `json:"data"`
}

// Service talks to the account endpoints of the upstream API. The client must
// already be bound to the caller's token.
type Service struct {
	api *upstream.Client
}

func NewService(api *upstream.Client) Service {
	return Service{api: api}
}

// Current loads the authenticated account.
func (s Service) Current(ctx context.Context) (users.User, error) {
	var out profileEnvelope
	if err := s.api.Get(ctx, "/api/profile", nil, &out); err != nil {
		return users.User{}, err
	}
	return out.Data, nil
}

// Update saves the editable fields and returns the refreshed account, so the
// session record can be rehydrated without a second round trip.
func (s Service) Update(ctx context.Context, req UpdateRequest) (users.User, error) {
	var out profileEnvelope
	if err := s.api.Put(ctx, "/api/profile", req, &out); err != nil {
		return users.User{}, err
	}
	return out.Data, nil
}

// ChangePassword rotates the account password.
func (s Service) ChangePassword(ctx context.Context, req PasswordRequest) error {
	return s.api.Put(ctx, "/api/password", req, nil)
}
