package controllers

import (
	"net/http"

	"github.com/pusdatin-klh/sinta-admin-web/internal/reference"
	"github.com/pusdatin-klh/sinta-admin-web/internal/session"
	pkgerrors "github.com/pusdatin-klh/sinta-admin-web/pkg/errors"
	"github.com/pusdatin-klh/sinta-admin-web/web/forms"
	"github.com/pusdatin-klh/sinta-admin-web/web/middleware"
)

type loginPage struct {
	Heading string
	Email   string
	As      string
}

func loginHeading(as string) string {
	switch as {
	case "provinsi":
		return "Masuk Akun Provinsi"
	case "kota":
		return "Masuk Akun Kab/Kota"
	}
	return "Masuk"
}

// LoginForm renders the credential form. A signed-in user is bounced to
// their landing page instead.
func (c *Controllers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromContext(r.Context()); sess != nil {
		http.Redirect(w, r, sess.Role().LandingPath(), http.StatusSeeOther)
		return
	}
	as := r.URL.Query().Get("as")
	page := c.page(w, r, "Masuk", "")
	page.Data = loginPage{Heading: loginHeading(as), As: as}
	c.Views.Render(w, r, http.StatusOK, "login.tmpl", page)
}

// Login authenticates against the upstream. Failure re-renders the form with
// the server's message; there is no redirect loop to chase.
func (c *Controllers) Login(w http.ResponseWriter, r *http.Request) {
	if err := forms.ParseForm(r); err != nil {
		c.renderError(w, r, err)
		return
	}

	req := session.LoginRequest{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	as := r.PostFormValue("as")

	rerender := func(status int, err error) {
		banner, fields := formFailure(err)
		page := c.page(w, r, "Masuk", "")
		page.Error = banner
		page.Fields = fields
		page.Data = loginPage{Heading: loginHeading(as), Email: req.Email, As: as}
		c.Views.Render(w, r, status, "login.tmpl", page)
	}

	if err := forms.Validate(req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	_, cookieValue, landing, err := c.Sessions.Login(r.Context(), req)
	if err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	http.SetCookie(w, session.Cookie(c.Cfg.Session, cookieValue))
	http.Redirect(w, r, landing, http.StatusSeeOther)
}

type registerPage struct {
	Heading    string
	RoleTarget string
	IsRegency  bool
	Provinces  []reference.Province
	Regencies  []reference.Regency
	Form       session.RegisterRequest
}

func registerHeading(roleTarget string) string {
	switch roleTarget {
	case "provinsi":
		return "Registrasi Dinas Provinsi"
	case "kota":
		return "Registrasi Dinas Kab/Kota"
	}
	return "Registrasi"
}

func roleForTarget(roleTarget string) string {
	switch roleTarget {
	case "provinsi":
		return "provinsi"
	case "kota":
		return "kabupaten/kota"
	}
	return ""
}

// RegisterForm renders the application form for the targeted role. The
// regency dropdown is only populated once a province has been chosen.
func (c *Controllers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	roleTarget := r.URL.Query().Get("role")
	provinceID := r.URL.Query().Get("province_id")

	data := registerPage{
		Heading:    registerHeading(roleTarget),
		RoleTarget: roleTarget,
		IsRegency:  roleTarget == "kota",
		Form:       session.RegisterRequest{ProvinceID: provinceID},
	}

	if roleTarget != "" {
		provinces, err := c.Refdata.Provinces(r.Context())
		if err != nil {
			c.renderError(w, r, err)
			return
		}
		data.Provinces = provinces

		if data.IsRegency && provinceID != "" {
			regencies, err := c.Refdata.Regencies(r.Context(), provinceID)
			if err != nil {
				c.renderError(w, r, err)
				return
			}
			data.Regencies = regencies
		}
	}

	page := c.page(w, r, "Registrasi", "")
	page.Data = data
	c.Views.Render(w, r, http.StatusOK, "register.tmpl", page)
}

// Register submits the application. Validation failures, including a regency
// applicant without a province, re-render the form with field notes.
func (c *Controllers) Register(w http.ResponseWriter, r *http.Request) {
	if err := forms.ParseForm(r); err != nil {
		c.renderError(w, r, err)
		return
	}

	roleTarget := r.URL.Query().Get("role")
	req := session.RegisterRequest{
		Name:                 r.PostFormValue("name"),
		Email:                r.PostFormValue("email"),
		Phone:                r.PostFormValue("nomor_telepon"),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
		Role:                 roleForTarget(roleTarget),
		AgencyCode:           r.PostFormValue("kode_dinas"),
		ProvinceID:           r.PostFormValue("province_id"),
		RegencyID:            r.PostFormValue("regency_id"),
		Coastal:              r.PostFormValue("pesisir"),
	}
	// The backend keys the agency on one id: the province for a province
	// applicant, the regency for a regency applicant.
	if roleTarget == "kota" {
		req.AgencyID = req.RegencyID
	} else {
		req.AgencyID = req.ProvinceID
	}

	rerender := func(status int, err error) {
		banner, fields := formFailure(err)
		data := registerPage{
			Heading:    registerHeading(roleTarget),
			RoleTarget: roleTarget,
			IsRegency:  roleTarget == "kota",
			Form:       req,
		}
		if provinces, perr := c.Refdata.Provinces(r.Context()); perr == nil {
			data.Provinces = provinces
		}
		if data.IsRegency && req.ProvinceID != "" {
			if regencies, rerr := c.Refdata.Regencies(r.Context(), req.ProvinceID); rerr == nil {
				data.Regencies = regencies
			}
		}
		page := c.page(w, r, "Registrasi", "")
		page.Error = banner
		page.Fields = fields
		page.Data = data
		c.Views.Render(w, r, status, "register.tmpl", page)
	}

	if err := forms.Validate(req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	if err := c.Sessions.Register(r.Context(), req); err != nil {
		rerender(pkgerrors.MetadataFor(pkgerrors.CodeOf(err)).HTTPStatus, err)
		return
	}

	c.redirectWithFlash(w, r, "/login?as="+roleTarget,
		"Pendaftaran berhasil. Akun Anda akan aktif setelah disetujui oleh Pusdatin.")
}

// Logout tears the session down and lands on the public home page.
func (c *Controllers) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if err := c.Sessions.Logout(r.Context(), sess); err != nil && c.Logg != nil {
		c.Logg.Error(r.Context(), "logout.failed", err)
	}
	http.SetCookie(w, session.ExpiredCookie(c.Cfg.Session))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Home renders the public landing page.
func (c *Controllers) Home(w http.ResponseWriter, r *http.Request) {
	page := c.page(w, r, "Beranda", "")
	c.Views.Render(w, r, http.StatusOK, "home.tmpl", page)
}
