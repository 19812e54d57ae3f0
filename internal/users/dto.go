package users

import (
	"encoding/json"
	"strings"

	"github.com/pusdatin-klh/sinta-admin-web/pkg/enums"
)

// RoleField absorbs the two role shapes the upstream API produces: a plain
// string ("provinsi") or an object ({"name":"provinsi"}). It normalizes into
// the closed enums.Role set on receipt so nothing downstream branches on shape.
type RoleField struct {
	Role enums.Role
}

func (f *RoleField) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		f.Role = enums.ParseRole(plain)
		return nil
	}
	var object struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &object); err == nil {
		f.Role = enums.ParseRole(object.Name)
		return nil
	}
	f.Role = enums.RoleUnknown
	return nil
}

func (f RoleField) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f.Role))
}

// FlexBool absorbs activation flags sent as bool, 0/1, or "0"/"1".
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// Dinas is the agency record nested in user listings.
type Dinas struct {
	ID   int       `json:"id"`
	Name string    `json:"nama_dinas"`
	Type RoleField `json:"type"`
}

// User is the client-side projection of an upstream account. The server owns
// the record; this repo only reads it and requests mutations.
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	Role         RoleField `json:"role"`
	IsActive     FlexBool  `json:"is_active"`
	Phone        string    `json:"nomor_telepon"`
	Dinas        *Dinas    `json:"dinas"`
	ProvinceID   string    `json:"province_id"`
	RegencyID    string    `json:"regency_id"`
	ProvinceName string    `json:"province_name"`
	RegencyName  string    `json:"regency_name"`
	JenisDlhID   int       `json:"jenis_dlh_id"`
	Coastal      FlexBool  `json:"pesisir"`
}

// EffectiveRole resolves the account role, falling back to the agency type
// when the role field itself is missing.
func (u User) EffectiveRole() enums.Role {
	if u.Role.Role != enums.RoleUnknown {
		return u.Role.Role
	}
	if u.Dinas != nil {
		return u.Dinas.Type.Role
	}
	return enums.RoleUnknown
}

// DisplayLabel returns the name shown in table rows: display name, agency
// name, then the email local part.
func (u User) DisplayLabel() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Dinas != nil && u.Dinas.Name != "" {
		return u.Dinas.Name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// Row is the flattened shape the user tables render.
type Row struct {
	ID       int
	Name     string
	Email    string
	Role     enums.Role
	Status   string
	Province string
	Regency  string
	Coastal  bool
}

// ToRow projects the account into a table row with the given status label.
func (u User) ToRow(status string) Row {
	province := u.ProvinceName
	if province == "" {
		province = "-"
	}
	regency := u.RegencyName
	if regency == "" {
		regency = "-"
	}
	return Row{
		ID:       u.ID,
		Name:     u.DisplayLabel(),
		Email:    u.Email,
		Role:     u.EffectiveRole(),
		Status:   status,
		Province: province,
		Regency:  regency,
		Coastal:  bool(u.Coastal),
	}
}

// CreatePusdatinRequest is the payload for the admin-created pusdatin account.
type CreatePusdatinRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Phone                string `json:"nomor_telepon" validate:"omitempty,numeric"`
	Role                 string `json:"role"`
	Status               string `json:"status"`
}

// Stats are the per-role counts rendered as tiles above the active list.
type Stats struct {
	Total    int
	Province int
	Regency  int
	Pusdatin int
	Admin    int
}

// CountStats tallies the role tiles from a full approved-user set.
func CountStats(users []User) Stats {
	s := Stats{Total: len(users)}
	for _, u := range users {
		switch u.EffectiveRole() {
		case enums.RoleProvince:
			s.Province++
		case enums.RoleRegency:
			s.Regency++
		case enums.RolePusdatin:
			s.Pusdatin++
		case enums.RoleAdmin:
			s.Admin++
		}
	}
	return s
}
